package secondary

import "context"

// AuditWriter defines the interface for writing audit log entries.
// The acting principal is passed explicitly as actorID.
type AuditWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, actorID, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, actorID, entityType, entityID, fieldName, oldValue, newValue string) error

	// LogDelete logs a delete operation for an entity.
	LogDelete(ctx context.Context, actorID, entityType, entityID string) error
}
