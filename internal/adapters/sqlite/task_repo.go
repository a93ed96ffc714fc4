package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// scanTask scans a joined task row into a TaskRecord.
func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskRecord, error) {
	var (
		desc      sql.NullString
		deadline  sql.NullString
		endDate   sql.NullString
		typeName  sql.NullString
		ownerName sql.NullString
	)

	record := &secondary.TaskRecord{}
	err := scanner.Scan(
		&record.ID, &record.Title, &desc, &record.StartDate, &deadline, &endDate,
		&record.Status, &record.OwnerID, &record.TaskTypeID,
		&record.CreatedAt, &record.UpdatedAt, &typeName, &ownerName,
	)
	if err != nil {
		return nil, err
	}

	record.Description = desc.String
	record.Deadline = deadline.String
	record.EndDate = endDate.String
	record.TypeName = typeName.String
	record.OwnerName = ownerName.String

	return record, nil
}

const taskSelect = `SELECT t.id, t.title, t.description, t.start_date, t.deadline, t.end_date,
	t.status, t.user_id, t.task_type_id, t.created_at, t.updated_at, tt.name, u.name
	FROM tasks t
	LEFT JOIN task_types tt ON tt.id = t.task_type_id
	LEFT JOIN users u ON u.id = t.user_id`

var taskSortColumns = map[string]string{
	"title":        "t.title",
	"description":  "t.description",
	"start_date":   "t.start_date",
	"deadline":     "t.deadline",
	"end_date":     "t.end_date",
	"status":       "t.status",
	"task_type_id": "t.task_type_id",
}

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	now := time.Now().UTC()
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, start_date, deadline, end_date, status, user_id, task_type_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, nullString(task.Description), task.StartDate, nullString(task.Deadline), nullString(task.EndDate),
		task.Status, task.OwnerID, task.TaskTypeID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, taskSelect+" WHERE t.id = ?", id)

	record, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("task %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return record, nil
}

func taskWhere(filters secondary.TaskFilters) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}

	if filters.OwnerID != "" {
		where += " AND t.user_id = ?"
		args = append(args, filters.OwnerID)
	}
	if filters.Search != "" {
		where += ` AND (t.title LIKE ? ESCAPE '\' OR t.status LIKE ? ESCAPE '\')`
		p := likePattern(filters.Search)
		args = append(args, p, p)
	}
	if filters.StartFrom != "" {
		where += " AND t.start_date >= ?"
		args = append(args, filters.StartFrom)
	}
	if filters.DeadlineTo != "" {
		where += " AND t.deadline IS NOT NULL AND t.deadline <= ?"
		args = append(args, filters.DeadlineTo)
	}

	return where, args
}

// List retrieves tasks matching the given filters.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	where, args := taskWhere(filters)
	q := taskSelect + where + orderClause(filters.Sort, taskSortColumns, "t.start_date ASC, t.id ASC")
	limit, limitArgs := limitClause(filters.Limit, filters.Offset)
	q += limit
	args = append(args, limitArgs...)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}

	return tasks, rows.Err()
}

// Count counts tasks matching the given filters.
func (r *TaskRepository) Count(ctx context.Context, filters secondary.TaskFilters) (int, error) {
	where, args := taskWhere(filters)
	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks t"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Update writes every column of an existing task.
func (r *TaskRepository) Update(ctx context.Context, task *secondary.TaskRecord) error {
	now := time.Now().UTC()
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, start_date = ?, deadline = ?, end_date = ?,
		status = ?, task_type_id = ?, updated_at = ? WHERE id = ?`,
		task.Title, nullString(task.Description), task.StartDate, nullString(task.Deadline), nullString(task.EndDate),
		task.Status, task.TaskTypeID, now, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("task %s not found", task.ID)
	}

	task.UpdatedAt = now
	return nil
}

// Delete removes a task from persistence.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("task %s not found", id)
	}

	return nil
}

// ListWindowsByOwner returns the scheduling windows of every task an owner holds.
func (r *TaskRepository) ListWindowsByOwner(ctx context.Context, ownerID string) ([]*secondary.TaskWindowRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, user_id, start_date, deadline FROM tasks WHERE user_id = ? ORDER BY start_date",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list task windows: %w", err)
	}
	defer rows.Close()

	var windows []*secondary.TaskWindowRecord
	for rows.Next() {
		var deadline sql.NullString
		w := &secondary.TaskWindowRecord{}
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.StartDate, &deadline); err != nil {
			return nil, fmt.Errorf("failed to scan task window: %w", err)
		}
		w.Deadline = deadline.String
		windows = append(windows, w)
	}

	return windows, rows.Err()
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
