package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/stockroom/internal/db"
	"github.com/example/stockroom/internal/ports/secondary"
)

// AdminLogRepository implements secondary.AdminLogRepository.
type AdminLogRepository struct {
	db *db.DB
}

// NewAdminLogRepository creates a new admin log repository.
func NewAdminLogRepository(database *db.DB) *AdminLogRepository {
	return &AdminLogRepository{db: database}
}

// Create persists a new log entry. CreatedAt defaults to now.
func (r *AdminLogRepository) Create(ctx context.Context, entry *secondary.AdminLogRecord) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = utcNow()
	}

	var userID sql.NullInt64
	if entry.UserID != 0 {
		userID = sql.NullInt64{Int64: entry.UserID, Valid: true}
	}

	id, err := r.db.InsertID(ctx,
		"INSERT INTO admin_log (user_id, entity_type, entity_id, object_repr, action, change_message, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		userID, entry.EntityType, entry.EntityID, truncate(entry.ObjectRepr, 200), entry.Action, entry.ChangeMessage, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin log entry: %w", err)
	}

	entry.ID = id
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *AdminLogRepository) ListRecent(ctx context.Context, limit int) ([]*secondary.AdminLogRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT l.id, l.user_id, COALESCE(u.username, ''), l.entity_type, l.entity_id,
		l.object_repr, l.action, l.change_message, l.created_at
		FROM admin_log l
		LEFT JOIN users u ON u.id = l.user_id
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin log: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.AdminLogRecord
	for rows.Next() {
		var userID sql.NullInt64
		entry := &secondary.AdminLogRecord{}
		if err := rows.Scan(&entry.ID, &userID, &entry.Username, &entry.EntityType, &entry.EntityID,
			&entry.ObjectRepr, &entry.Action, &entry.ChangeMessage, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin log entry: %w", err)
		}
		entry.UserID = userID.Int64
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Ensure AdminLogRepository implements the interface
var _ secondary.AdminLogRepository = (*AdminLogRepository)(nil)
