package app

import (
	"context"
	"log/slog"

	"github.com/example/taskapi/internal/core/authz"
	"github.com/example/taskapi/internal/ports/primary"
	"github.com/example/taskapi/internal/ports/secondary"
)

// defaultAuditLimit caps an unbounded audit listing.
const defaultAuditLimit = 100

// AuditServiceImpl implements the AuditService interface.
type AuditServiceImpl struct {
	logRepo secondary.AuditLogRepository
	logger  *slog.Logger
}

// NewAuditService creates a new AuditService with injected dependencies.
func NewAuditService(logRepo secondary.AuditLogRepository, logger *slog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{
		logRepo: logRepo,
		logger:  logger.With("service", "audit"),
	}
}

// ListEntries retrieves audit entries matching the given filters.
func (s *AuditServiceImpl) ListEntries(ctx context.Context, principal primary.Principal, filters primary.AuditFilters) ([]*primary.AuditEntry, error) {
	if err := authorize(principal, authz.ResourceAuditLog, authz.ActionFindAll); err != nil {
		return nil, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	records, err := s.logRepo.List(ctx, secondary.AuditLogFilters{
		EntityType: filters.EntityType,
		EntityID:   filters.EntityID,
		ActorID:    filters.ActorID,
		Limit:      limit,
	})
	if err != nil {
		return nil, surface(ctx, s.logger, "list audit entries", err)
	}

	entries := make([]*primary.AuditEntry, len(records))
	for i, r := range records {
		entries[i] = s.recordToAuditEntry(r)
	}
	return entries, nil
}

// Helper methods

func (s *AuditServiceImpl) recordToAuditEntry(r *secondary.AuditLogRecord) *primary.AuditEntry {
	return &primary.AuditEntry{
		ID:         r.ID,
		ActorID:    r.ActorID,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Action:     r.Action,
		FieldName:  r.FieldName,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
		CreatedAt:  r.CreatedAt,
	}
}

// Ensure AuditServiceImpl implements the interface
var _ primary.AuditService = (*AuditServiceImpl)(nil)
