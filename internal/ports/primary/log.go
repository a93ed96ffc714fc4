package primary

import (
	"context"
	"time"
)

// AuditService defines the primary port for reading the audit trail.
type AuditService interface {
	// ListEntries retrieves audit entries matching the filters, newest first.
	ListEntries(ctx context.Context, principal Principal, filters AuditFilters) ([]*AuditEntry, error)
}

// AuditFilters contains filter options for listing audit entries.
type AuditFilters struct {
	EntityType string
	EntityID   string
	ActorID    string
	Limit      int
}

// AuditEntry represents one recorded change.
type AuditEntry struct {
	ID         string
	ActorID    string
	EntityType string
	EntityID   string
	Action     string
	FieldName  string
	OldValue   string
	NewValue   string
	CreatedAt  time.Time
}
