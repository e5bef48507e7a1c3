package secondary

import (
	"context"
	"time"
)

// LogWriter defines the interface for writing admin log entries.
// Implementations extract the acting user from context.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID, repr string) error

	// LogUpdate logs an update operation for an entity.
	// changeMessage lists the fields that changed.
	LogUpdate(ctx context.Context, entityType, entityID, repr, changeMessage string) error

	// LogDelete logs a delete operation for an entity.
	LogDelete(ctx context.Context, entityType, entityID, repr string) error
}

// AdminLogRepository defines the secondary port for admin log persistence.
type AdminLogRepository interface {
	// Create persists a new log entry.
	Create(ctx context.Context, entry *AdminLogRecord) error

	// ListRecent returns the newest entries first.
	ListRecent(ctx context.Context, limit int) ([]*AdminLogRecord, error)
}

// AdminLogRecord represents an admin log entry as stored in persistence.
type AdminLogRecord struct {
	ID            int64
	UserID        int64 // 0 when the action was not attributed to a user
	Username      string
	EntityType    string
	EntityID      string
	ObjectRepr    string
	Action        string
	ChangeMessage string
	CreatedAt     time.Time
}
