package sqlstore

import (
	"context"

	"github.com/example/stockroom/internal/ctxutil"
	"github.com/example/stockroom/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using AdminLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.AdminLogRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.AdminLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, entityType, entityID, repr string) error {
	return w.writeLog(ctx, entityType, entityID, repr, "create", "Added.")
}

// LogUpdate logs an update operation for an entity.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, entityType, entityID, repr, changeMessage string) error {
	if changeMessage == "" {
		changeMessage = "No fields changed."
	}
	return w.writeLog(ctx, entityType, entityID, repr, "update", changeMessage)
}

// LogDelete logs a delete operation for an entity.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, entityType, entityID, repr string) error {
	return w.writeLog(ctx, entityType, entityID, repr, "delete", "Deleted.")
}

// writeLog writes a log entry with common logic.
// Actions outside a request (CLI, fixtures) are recorded without a user.
func (w *LogWriterAdapter) writeLog(ctx context.Context, entityType, entityID, repr, action, message string) error {
	userID, _ := ctxutil.UserIDFromContext(ctx)

	return w.logRepo.Create(ctx, &secondary.AdminLogRecord{
		UserID:        userID,
		EntityType:    entityType,
		EntityID:      entityID,
		ObjectRepr:    repr,
		Action:        action,
		ChangeMessage: message,
	})
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
