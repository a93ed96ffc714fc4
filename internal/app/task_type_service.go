package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/example/taskapi/internal/core/authz"
	"github.com/example/taskapi/internal/core/query"
	"github.com/example/taskapi/internal/core/tasktype"
	"github.com/example/taskapi/internal/ports/primary"
	"github.com/example/taskapi/internal/ports/secondary"
)

// TaskTypeServiceImpl implements the TaskTypeService interface.
type TaskTypeServiceImpl struct {
	taskTypeRepo secondary.TaskTypeRepository
	transactor   secondary.Transactor
	auditWriter  secondary.AuditWriter
	logger       *slog.Logger
}

// NewTaskTypeService creates a new TaskTypeService with injected dependencies.
func NewTaskTypeService(
	taskTypeRepo secondary.TaskTypeRepository,
	transactor secondary.Transactor,
	auditWriter secondary.AuditWriter,
	logger *slog.Logger,
) *TaskTypeServiceImpl {
	return &TaskTypeServiceImpl{
		taskTypeRepo: taskTypeRepo,
		transactor:   transactor,
		auditWriter:  auditWriter,
		logger:       logger.With("service", "task_type"),
	}
}

// FindAllMatches lists a page of task types matching name or status.
func (s *TaskTypeServiceImpl) FindAllMatches(ctx context.Context, principal primary.Principal, q primary.MatchQuery) (*primary.Page[*primary.TaskType], error) {
	if err := authorize(principal, authz.ResourceTaskType, authz.ActionFindAllMatches); err != nil {
		return nil, err
	}

	filters := secondary.TaskTypeFilters{Search: strings.TrimSpace(q.Search)}
	if sort, ok := query.ParseOrderBy(q.OrderBy, tasktype.Columns); ok {
		filters.Sort = &sort
	}

	total, err := s.taskTypeRepo.Count(ctx, filters)
	if err != nil {
		return nil, surface(ctx, s.logger, "count task types", err)
	}

	page := query.NormalizePage(q.Page, q.PerPage, query.DefaultPerPage, query.MaxPerPage)
	filters.Limit = page.PerPage
	filters.Offset = page.Offset()

	records, err := s.taskTypeRepo.List(ctx, filters)
	if err != nil {
		return nil, surface(ctx, s.logger, "list task types", err)
	}

	items := make([]*primary.TaskType, len(records))
	for i, r := range records {
		items[i] = recordToTaskType(r)
	}
	return &primary.Page[*primary.TaskType]{Items: items, Meta: query.Paginate(total, page)}, nil
}

// FindAll lists every task type.
func (s *TaskTypeServiceImpl) FindAll(ctx context.Context, principal primary.Principal) ([]*primary.TaskType, error) {
	if err := authorize(principal, authz.ResourceTaskType, authz.ActionFindAll); err != nil {
		return nil, err
	}

	records, err := s.taskTypeRepo.List(ctx, secondary.TaskTypeFilters{})
	if err != nil {
		return nil, surface(ctx, s.logger, "list task types", err)
	}

	types := make([]*primary.TaskType, len(records))
	for i, r := range records {
		types[i] = recordToTaskType(r)
	}
	return types, nil
}

// FindOne retrieves a task type by ID.
func (s *TaskTypeServiceImpl) FindOne(ctx context.Context, principal primary.Principal, typeID string) (*primary.TaskType, error) {
	if err := authorize(principal, authz.ResourceTaskType, authz.ActionFindOne); err != nil {
		return nil, err
	}

	record, err := s.taskTypeRepo.GetByID(ctx, typeID)
	if err != nil {
		return nil, surface(ctx, s.logger, "get task type", err)
	}
	return recordToTaskType(record), nil
}

// Create creates a task type. Status defaults to visible.
func (s *TaskTypeServiceImpl) Create(ctx context.Context, principal primary.Principal, req primary.CreateTaskTypeRequest) (*primary.TaskType, error) {
	if err := authorize(principal, authz.ResourceTaskType, authz.ActionCreate); err != nil {
		return nil, err
	}

	fields := tasktype.Fields{Name: req.Name, Status: req.Status}
	if err := tasktype.ValidateCreate(fields); err != nil {
		return nil, err
	}

	record := &secondary.TaskTypeRecord{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(*fields.Name),
		Status: tasktype.StatusVisible,
	}
	if fields.Status != nil {
		record.Status = *fields.Status
	}

	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.taskTypeRepo.Create(ctx, record); err != nil {
			return err
		}
		return s.auditWriter.LogCreate(ctx, principal.ID, string(authz.ResourceTaskType), record.ID)
	})
	if err != nil {
		return nil, surface(ctx, s.logger, "create task type", err)
	}

	s.logger.InfoContext(ctx, "task type created", "task_type_id", record.ID, "actor_id", principal.ID)
	return recordToTaskType(record), nil
}

// Update applies the supplied fields.
func (s *TaskTypeServiceImpl) Update(ctx context.Context, principal primary.Principal, req primary.UpdateTaskTypeRequest) (*primary.TaskType, error) {
	if err := authorize(principal, authz.ResourceTaskType, authz.ActionUpdate); err != nil {
		return nil, err
	}

	record, err := s.taskTypeRepo.GetByID(ctx, req.TaskTypeID)
	if err != nil {
		return nil, surface(ctx, s.logger, "get task type", err)
	}

	fields := tasktype.Fields{Name: req.Name, Status: req.Status}
	if err := tasktype.ValidateUpdate(fields); err != nil {
		return nil, err
	}

	var changes []fieldChange
	if fields.Name != nil && strings.TrimSpace(*fields.Name) != record.Name {
		changes = append(changes, fieldChange{field: "name", old: record.Name, new: strings.TrimSpace(*fields.Name)})
		record.Name = strings.TrimSpace(*fields.Name)
	}
	if fields.Status != nil && *fields.Status != record.Status {
		changes = append(changes, fieldChange{field: "status", old: record.Status, new: *fields.Status})
		record.Status = *fields.Status
	}
	if len(changes) == 0 {
		return recordToTaskType(record), nil
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.taskTypeRepo.Update(ctx, record); err != nil {
			return err
		}
		for _, c := range changes {
			if err := s.auditWriter.LogUpdate(ctx, principal.ID, string(authz.ResourceTaskType), record.ID, c.field, c.old, c.new); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, surface(ctx, s.logger, "update task type", err)
	}

	return recordToTaskType(record), nil
}

// Delete deletes a task type that no task references.
func (s *TaskTypeServiceImpl) Delete(ctx context.Context, principal primary.Principal, typeID string) error {
	if err := authorize(principal, authz.ResourceTaskType, authz.ActionDelete); err != nil {
		return err
	}

	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.taskTypeRepo.GetByID(ctx, typeID); err != nil {
			return err
		}

		count, err := s.taskTypeRepo.CountTasks(ctx, typeID)
		if err != nil {
			return err
		}
		if err := tasktype.CanDeleteTaskType(tasktype.DeleteTaskTypeContext{
			TaskTypeID: typeID,
			TaskCount:  count,
		}).Error(); err != nil {
			return err
		}

		if err := s.taskTypeRepo.Delete(ctx, typeID); err != nil {
			return err
		}
		return s.auditWriter.LogDelete(ctx, principal.ID, string(authz.ResourceTaskType), typeID)
	})
	if err != nil {
		return surface(ctx, s.logger, "delete task type", err)
	}

	s.logger.InfoContext(ctx, "task type deleted", "task_type_id", typeID, "actor_id", principal.ID)
	return nil
}

func recordToTaskType(r *secondary.TaskTypeRecord) *primary.TaskType {
	return &primary.TaskType{
		ID:        r.ID,
		Name:      r.Name,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Ensure TaskTypeServiceImpl implements the interface
var _ primary.TaskTypeService = (*TaskTypeServiceImpl)(nil)
