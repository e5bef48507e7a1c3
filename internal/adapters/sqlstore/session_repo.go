package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/stockroom/internal/db"
	"github.com/example/stockroom/internal/ports/secondary"
)

// SessionRepository implements secondary.SessionRepository.
type SessionRepository struct {
	db *db.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(database *db.DB) *SessionRepository {
	return &SessionRepository{db: database}
}

// Create persists a new session.
func (r *SessionRepository) Create(ctx context.Context, session *secondary.SessionRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)",
		session.ID, session.UserID, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by its key, expired or not.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*secondary.SessionRecord, error) {
	record := &secondary.SessionRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ?", id,
	).Scan(&record.ID, &record.UserID, &record.CreatedAt, &record.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session: %w", secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return record, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUser removes all of a user's sessions.
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose expiry is before now.
// Expiry is compared in Go: SQLite stores timestamps as text.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, expires_at FROM sessions")
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	var expired []string
	for rows.Next() {
		var (
			id        string
			expiresAt time.Time
		)
		if err := rows.Scan(&id, &expiresAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan session: %w", err)
		}
		if expiresAt.Before(now) {
			expired = append(expired, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range expired {
		if err := r.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return int64(len(expired)), nil
}

// Ensure SessionRepository implements the interface
var _ secondary.SessionRepository = (*SessionRepository)(nil)
