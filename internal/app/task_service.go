package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/core/authz"
	"github.com/example/taskapi/internal/core/query"
	"github.com/example/taskapi/internal/core/schedule"
	"github.com/example/taskapi/internal/core/task"
	"github.com/example/taskapi/internal/ports/primary"
	"github.com/example/taskapi/internal/ports/secondary"
)

// TaskServiceImpl implements the TaskService interface.
// Create and Update run authorization, structural validation, the weekend
// rule and the conflict detector in that order, stopping at the first failure.
type TaskServiceImpl struct {
	taskRepo     secondary.TaskRepository
	taskTypeRepo secondary.TaskTypeRepository
	transactor   secondary.Transactor
	auditWriter  secondary.AuditWriter
	logger       *slog.Logger
	locks        *ownerLocks
}

// NewTaskService creates a new TaskService with injected dependencies.
func NewTaskService(
	taskRepo secondary.TaskRepository,
	taskTypeRepo secondary.TaskTypeRepository,
	transactor secondary.Transactor,
	auditWriter secondary.AuditWriter,
	logger *slog.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskRepo:     taskRepo,
		taskTypeRepo: taskTypeRepo,
		transactor:   transactor,
		auditWriter:  auditWriter,
		logger:       logger.With("service", "task"),
		locks:        newOwnerLocks(),
	}
}

// FindAllMatches lists a page of tasks. Non-administrators only see their own.
func (s *TaskServiceImpl) FindAllMatches(ctx context.Context, principal primary.Principal, q primary.TaskQuery) (*primary.Page[*primary.Task], error) {
	if err := authorize(principal, authz.ResourceTask, authz.ActionFindAllMatches); err != nil {
		return nil, err
	}

	filters := secondary.TaskFilters{Search: strings.TrimSpace(q.Search)}
	if !principal.IsAdministrator() {
		filters.OwnerID = principal.ID
	}
	if sort, ok := query.ParseOrderBy(q.OrderBy, task.Columns); ok {
		filters.Sort = &sort
	}

	errs := map[string]string{}
	if q.StartDate != "" {
		if d, err := schedule.ParseDate(q.StartDate); err != nil {
			errs["startDate"] = "The start date must be a valid date."
		} else {
			filters.StartFrom = schedule.FormatDate(d)
		}
	}
	if q.Deadline != "" {
		if d, err := schedule.ParseDate(q.Deadline); err != nil {
			errs["deadline"] = "The deadline must be a valid date."
		} else {
			filters.DeadlineTo = schedule.FormatDate(d)
		}
	}
	if err := apperr.Validation(errs); err != nil {
		return nil, err
	}

	total, err := s.taskRepo.Count(ctx, filters)
	if err != nil {
		return nil, surface(ctx, s.logger, "count tasks", err)
	}

	page := query.NormalizePage(q.Page, q.PerPage, query.DefaultPerPage, query.MaxPerPage)
	filters.Limit = page.PerPage
	filters.Offset = page.Offset()

	records, err := s.taskRepo.List(ctx, filters)
	if err != nil {
		return nil, surface(ctx, s.logger, "list tasks", err)
	}

	items := make([]*primary.Task, len(records))
	for i, r := range records {
		items[i] = s.recordToTask(r)
	}

	return &primary.Page[*primary.Task]{Items: items, Meta: query.Paginate(total, page)}, nil
}

// FindAll lists every task visible to the principal.
func (s *TaskServiceImpl) FindAll(ctx context.Context, principal primary.Principal) ([]*primary.Task, error) {
	if err := authorize(principal, authz.ResourceTask, authz.ActionFindAll); err != nil {
		return nil, err
	}

	filters := secondary.TaskFilters{}
	if !principal.IsAdministrator() {
		filters.OwnerID = principal.ID
	}

	records, err := s.taskRepo.List(ctx, filters)
	if err != nil {
		return nil, surface(ctx, s.logger, "list tasks", err)
	}

	tasks := make([]*primary.Task, len(records))
	for i, r := range records {
		tasks[i] = s.recordToTask(r)
	}
	return tasks, nil
}

// FindOne retrieves a task the principal may access.
func (s *TaskServiceImpl) FindOne(ctx context.Context, principal primary.Principal, taskID string) (*primary.Task, error) {
	record, err := s.loadOwned(ctx, principal, taskID, authz.ActionFindOne)
	if err != nil {
		return nil, err
	}
	return s.recordToTask(record), nil
}

// Create creates a task owned by the principal.
func (s *TaskServiceImpl) Create(ctx context.Context, principal primary.Principal, req primary.CreateTaskRequest) (*primary.Task, error) {
	// 1. Authorization
	if err := authorize(principal, authz.ResourceTask, authz.ActionCreate); err != nil {
		return nil, err
	}

	// 2. Structural validation
	fields := createFields(req)
	typeExists, err := s.taskTypeExists(ctx, fields.TaskTypeID)
	if err != nil {
		return nil, err
	}
	dates, err := task.ValidateCreate(task.CreateTaskContext{Fields: fields, TaskTypeExists: typeExists})
	if err != nil {
		return nil, err
	}

	// 3. Weekend rule
	if err := task.CanUseDates(task.WeekendContext{StartDate: dates.Start, Deadline: dates.Deadline}).Error(); err != nil {
		return nil, err
	}

	record := &secondary.TaskRecord{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(*fields.Title),
		Description: deref(fields.Description),
		StartDate:   schedule.FormatDate(*dates.Start),
		Deadline:    schedule.FormatDate(*dates.Deadline),
		EndDate:     formatOptional(dates.End),
		Status:      task.StatusPending,
		OwnerID:     principal.ID,
		TaskTypeID:  *fields.TaskTypeID,
	}
	if fields.Status != nil {
		record.Status = *fields.Status
	}

	// 4. Conflict detector and 5. persist, under the owner's lock
	unlock := s.locks.Lock(principal.ID)
	defer unlock()

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkConflict(ctx, principal.ID, "", dates); err != nil {
			return err
		}
		if err := s.taskRepo.Create(ctx, record); err != nil {
			return err
		}
		return s.auditWriter.LogCreate(ctx, principal.ID, string(authz.ResourceTask), record.ID)
	})
	if err != nil {
		return nil, surface(ctx, s.logger, "create task", err)
	}

	s.logger.InfoContext(ctx, "task created", "task_id", record.ID, "owner_id", principal.ID)
	return s.reload(ctx, record.ID)
}

// Update applies the supplied fields to a task the principal may access.
// The conflict detector only runs when the patch carries both start_date and deadline.
func (s *TaskServiceImpl) Update(ctx context.Context, principal primary.Principal, req primary.UpdateTaskRequest) (*primary.Task, error) {
	// 1. Authorization and ownership
	existing, err := s.loadOwned(ctx, principal, req.TaskID, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}

	// 2. Structural validation
	fields := updateFields(req)
	typeExists, err := s.taskTypeExists(ctx, fields.TaskTypeID)
	if err != nil {
		return nil, err
	}
	dates, err := task.ValidateUpdate(task.UpdateTaskContext{
		Fields:          fields,
		CurrentStart:    existing.StartDate,
		CurrentDeadline: existing.Deadline,
		CurrentEnd:      existing.EndDate,
		TaskTypeExists:  typeExists,
	})
	if err != nil {
		return nil, err
	}

	// 3. Weekend rule on the supplied dates
	if err := task.CanUseDates(task.WeekendContext{StartDate: dates.Start, Deadline: dates.Deadline}).Error(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(existing.OwnerID)
	defer unlock()

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		// 4. Conflict detector
		if task.NeedsConflictCheck(dates) {
			if err := s.checkConflict(ctx, existing.OwnerID, existing.ID, dates); err != nil {
				return err
			}
		}

		// 5. Persist
		current, err := s.taskRepo.GetByID(ctx, existing.ID)
		if err != nil {
			return err
		}
		changes := applyTaskPatch(current, fields, dates)
		if len(changes) == 0 {
			return nil
		}
		if err := s.taskRepo.Update(ctx, current); err != nil {
			return err
		}
		for _, c := range changes {
			if err := s.auditWriter.LogUpdate(ctx, principal.ID, string(authz.ResourceTask), current.ID, c.field, c.old, c.new); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, surface(ctx, s.logger, "update task", err)
	}

	s.logger.InfoContext(ctx, "task updated", "task_id", existing.ID, "actor_id", principal.ID)
	return s.reload(ctx, existing.ID)
}

// Delete deletes a task the principal may access. A missing task is NotFound.
func (s *TaskServiceImpl) Delete(ctx context.Context, principal primary.Principal, taskID string) error {
	existing, err := s.loadOwned(ctx, principal, taskID, authz.ActionDelete)
	if err != nil {
		return err
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.taskRepo.Delete(ctx, existing.ID); err != nil {
			return err
		}
		return s.auditWriter.LogDelete(ctx, principal.ID, string(authz.ResourceTask), existing.ID)
	})
	if err != nil {
		return surface(ctx, s.logger, "delete task", err)
	}

	s.logger.InfoContext(ctx, "task deleted", "task_id", existing.ID, "actor_id", principal.ID)
	return nil
}

// loadOwned authorizes action, loads the task and enforces ownership.
func (s *TaskServiceImpl) loadOwned(ctx context.Context, principal primary.Principal, taskID string, action authz.Action) (*secondary.TaskRecord, error) {
	if err := authorize(principal, authz.ResourceTask, action); err != nil {
		return nil, err
	}

	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, surface(ctx, s.logger, "get task", err)
	}

	if err := authz.CanAccessOwned(authz.OwnedContext{
		PrincipalID: principal.ID,
		Role:        principal.Role,
		OwnerID:     record.OwnerID,
	}).Error(); err != nil {
		return nil, err
	}

	return record, nil
}

// checkConflict runs the conflict detector against the owner's stored windows.
func (s *TaskServiceImpl) checkConflict(ctx context.Context, ownerID, excludeTaskID string, dates task.Dates) error {
	records, err := s.taskRepo.ListWindowsByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	existing := make([]schedule.TaskWindow, 0, len(records))
	for _, r := range records {
		w, err := toTaskWindow(r)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping task with unreadable dates", "task_id", r.ID, "error", err)
			continue
		}
		existing = append(existing, w)
	}

	return task.CanOccupyWindow(task.ScheduleContext{
		OwnerID:       ownerID,
		ExcludeTaskID: excludeTaskID,
		StartDate:     *dates.Start,
		Deadline:      *dates.Deadline,
		Existing:      existing,
	}).Error()
}

func (s *TaskServiceImpl) taskTypeExists(ctx context.Context, id *string) (bool, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return false, nil
	}
	exists, err := s.taskTypeRepo.Exists(ctx, *id)
	if err != nil {
		return false, surface(ctx, s.logger, "check task type", err)
	}
	return exists, nil
}

func (s *TaskServiceImpl) reload(ctx context.Context, id string) (*primary.Task, error) {
	record, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, surface(ctx, s.logger, "get task", err)
	}
	return s.recordToTask(record), nil
}

// toTaskWindow converts a stored row to a detector window.
// A task without a deadline occupies its start day only.
func toTaskWindow(r *secondary.TaskWindowRecord) (schedule.TaskWindow, error) {
	start, err := schedule.ParseDate(r.StartDate)
	if err != nil {
		return schedule.TaskWindow{}, err
	}
	end := start
	if r.Deadline != "" {
		if end, err = schedule.ParseDate(r.Deadline); err != nil {
			return schedule.TaskWindow{}, err
		}
	}
	return schedule.TaskWindow{
		TaskID:  r.ID,
		OwnerID: r.OwnerID,
		Window:  schedule.NewWindow(start, end),
	}, nil
}

type fieldChange struct {
	field, old, new string
}

// applyTaskPatch writes the supplied fields onto record and returns what changed.
func applyTaskPatch(record *secondary.TaskRecord, f task.Fields, d task.Dates) []fieldChange {
	var changes []fieldChange
	set := func(field string, dst *string, value string) {
		if *dst != value {
			changes = append(changes, fieldChange{field: field, old: *dst, new: value})
			*dst = value
		}
	}

	if f.Title != nil {
		set("title", &record.Title, strings.TrimSpace(*f.Title))
	}
	if f.Description != nil {
		set("description", &record.Description, *f.Description)
	}
	if f.StartDate != nil && d.Start != nil {
		set("start_date", &record.StartDate, schedule.FormatDate(*d.Start))
	}
	if f.Deadline != nil {
		set("deadline", &record.Deadline, formatOptional(d.Deadline))
	}
	if f.EndDate != nil {
		set("end_date", &record.EndDate, formatOptional(d.End))
	}
	if f.Status != nil {
		set("status", &record.Status, *f.Status)
	}
	if f.TaskTypeID != nil {
		set("task_type_id", &record.TaskTypeID, *f.TaskTypeID)
	}

	return changes
}

func createFields(req primary.CreateTaskRequest) task.Fields {
	return task.Fields{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
		EndDate:     req.EndDate,
		Status:      req.Status,
		TaskTypeID:  req.TaskTypeID,
	}
}

func updateFields(req primary.UpdateTaskRequest) task.Fields {
	return task.Fields{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
		EndDate:     req.EndDate,
		Status:      req.Status,
		TaskTypeID:  req.TaskTypeID,
	}
}

func (s *TaskServiceImpl) recordToTask(r *secondary.TaskRecord) *primary.Task {
	return &primary.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		Deadline:    r.Deadline,
		EndDate:     r.EndDate,
		Status:      r.Status,
		TaskTypeID:  r.TaskTypeID,
		TypeName:    r.TypeName,
		OwnerID:     r.OwnerID,
		OwnerName:   r.OwnerName,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Ensure TaskServiceImpl implements the interface
var _ primary.TaskService = (*TaskServiceImpl)(nil)
