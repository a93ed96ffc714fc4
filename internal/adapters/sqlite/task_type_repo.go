package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/ports/secondary"
)

// TaskTypeRepository implements secondary.TaskTypeRepository with SQLite.
type TaskTypeRepository struct {
	db *sql.DB
}

// NewTaskTypeRepository creates a new SQLite task type repository.
func NewTaskTypeRepository(db *sql.DB) *TaskTypeRepository {
	return &TaskTypeRepository{db: db}
}

const taskTypeSelectCols = "id, name, status, created_at, updated_at"

var taskTypeSortColumns = map[string]string{
	"name":   "name",
	"status": "status",
}

func scanTaskType(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskTypeRecord, error) {
	record := &secondary.TaskTypeRecord{}
	if err := scanner.Scan(&record.ID, &record.Name, &record.Status, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	return record, nil
}

// Create persists a new task type.
func (r *TaskTypeRepository) Create(ctx context.Context, taskType *secondary.TaskTypeRecord) error {
	now := time.Now().UTC()
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO task_types (id, name, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		taskType.ID, taskType.Name, taskType.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create task type: %w", err)
	}
	taskType.CreatedAt = now
	taskType.UpdatedAt = now
	return nil
}

// GetByID retrieves a task type by its ID.
func (r *TaskTypeRepository) GetByID(ctx context.Context, id string) (*secondary.TaskTypeRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+taskTypeSelectCols+" FROM task_types WHERE id = ?",
		id,
	)

	record, err := scanTaskType(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("task type %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task type: %w", err)
	}
	return record, nil
}

// Exists reports whether a task type exists.
func (r *TaskTypeRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM task_types WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check task type existence: %w", err)
	}
	return count > 0, nil
}

func taskTypeWhere(filters secondary.TaskTypeFilters) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	if filters.Search != "" {
		where += ` AND (name LIKE ? ESCAPE '\' OR status LIKE ? ESCAPE '\')`
		p := likePattern(filters.Search)
		args = append(args, p, p)
	}
	return where, args
}

// List retrieves task types matching the given filters.
func (r *TaskTypeRepository) List(ctx context.Context, filters secondary.TaskTypeFilters) ([]*secondary.TaskTypeRecord, error) {
	where, args := taskTypeWhere(filters)
	q := "SELECT " + taskTypeSelectCols + " FROM task_types" + where + orderClause(filters.Sort, taskTypeSortColumns, "created_at ASC, id ASC")
	limit, limitArgs := limitClause(filters.Limit, filters.Offset)
	q += limit
	args = append(args, limitArgs...)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	defer rows.Close()

	var types []*secondary.TaskTypeRecord
	for rows.Next() {
		record, err := scanTaskType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task type: %w", err)
		}
		types = append(types, record)
	}

	return types, rows.Err()
}

// Count counts task types matching the given filters.
func (r *TaskTypeRepository) Count(ctx context.Context, filters secondary.TaskTypeFilters) (int, error) {
	where, args := taskTypeWhere(filters)
	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM task_types"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count task types: %w", err)
	}
	return count, nil
}

// Update writes every column of an existing task type.
func (r *TaskTypeRepository) Update(ctx context.Context, taskType *secondary.TaskTypeRecord) error {
	now := time.Now().UTC()
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE task_types SET name = ?, status = ?, updated_at = ? WHERE id = ?",
		taskType.Name, taskType.Status, now, taskType.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task type: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("task type %s not found", taskType.ID)
	}

	taskType.UpdatedAt = now
	return nil
}

// Delete removes a task type.
func (r *TaskTypeRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM task_types WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task type: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("task type %s not found", id)
	}

	return nil
}

// CountTasks counts the tasks referencing a task type.
func (r *TaskTypeRepository) CountTasks(ctx context.Context, id string) (int, error) {
	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE task_type_id = ?", id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks for task type: %w", err)
	}
	return count, nil
}

// Ensure TaskTypeRepository implements the interface
var _ secondary.TaskTypeRepository = (*TaskTypeRepository)(nil)
