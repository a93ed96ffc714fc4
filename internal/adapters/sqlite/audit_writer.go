package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/taskapi/internal/ports/secondary"
)

// AuditWriterAdapter implements secondary.AuditWriter using AuditLogRepository.
type AuditWriterAdapter struct {
	logRepo secondary.AuditLogRepository
}

// NewAuditWriterAdapter creates a new AuditWriterAdapter.
func NewAuditWriterAdapter(logRepo secondary.AuditLogRepository) *AuditWriterAdapter {
	return &AuditWriterAdapter{logRepo: logRepo}
}

// LogCreate logs a create operation for an entity.
func (w *AuditWriterAdapter) LogCreate(ctx context.Context, actorID, entityType, entityID string) error {
	return w.writeLog(ctx, actorID, entityType, entityID, "create", "", "", "")
}

// LogUpdate logs an update operation for an entity field.
func (w *AuditWriterAdapter) LogUpdate(ctx context.Context, actorID, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, actorID, entityType, entityID, "update", fieldName, oldValue, newValue)
}

// LogDelete logs a delete operation for an entity.
func (w *AuditWriterAdapter) LogDelete(ctx context.Context, actorID, entityType, entityID string) error {
	return w.writeLog(ctx, actorID, entityType, entityID, "delete", "", "", "")
}

func (w *AuditWriterAdapter) writeLog(ctx context.Context, actorID, entityType, entityID, action, fieldName, oldValue, newValue string) error {
	return w.logRepo.Create(ctx, &secondary.AuditLogRecord{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		FieldName:  fieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
	})
}

// Ensure AuditWriterAdapter implements the interface
var _ secondary.AuditWriter = (*AuditWriterAdapter)(nil)
