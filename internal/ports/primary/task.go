package primary

import (
	"context"
	"time"
)

// TaskService defines the primary port for task operations.
// Every method takes the acting principal explicitly.
type TaskService interface {
	// FindAllMatches lists tasks matching the query, one page at a time.
	FindAllMatches(ctx context.Context, principal Principal, q TaskQuery) (*Page[*Task], error)

	// FindAll lists every task visible to the principal.
	FindAll(ctx context.Context, principal Principal) ([]*Task, error)

	// FindOne retrieves a task by ID.
	FindOne(ctx context.Context, principal Principal, taskID string) (*Task, error)

	// Create creates a task owned by the principal.
	Create(ctx context.Context, principal Principal, req CreateTaskRequest) (*Task, error)

	// Update applies the supplied fields to an existing task.
	Update(ctx context.Context, principal Principal, req UpdateTaskRequest) (*Task, error)

	// Delete deletes a task.
	Delete(ctx context.Context, principal Principal, taskID string) error
}

// TaskQuery extends MatchQuery with date filters.
type TaskQuery struct {
	MatchQuery
	StartDate string // start_date >= StartDate
	Deadline  string // deadline <= Deadline
}

// CreateTaskRequest contains parameters for creating a task.
// Nil fields were not supplied by the caller.
type CreateTaskRequest struct {
	Title       *string
	Description *string
	StartDate   *string
	Deadline    *string
	EndDate     *string
	Status      *string // Optional: pending (default), done
	TaskTypeID  *string
}

// UpdateTaskRequest contains parameters for updating a task.
// Only non-nil fields are applied. An empty date clears it.
type UpdateTaskRequest struct {
	TaskID      string
	Title       *string
	Description *string
	StartDate   *string
	Deadline    *string
	EndDate     *string
	Status      *string
	TaskTypeID  *string
}

// Task represents a task entity at the port boundary.
type Task struct {
	ID          string
	Title       string
	Description string
	StartDate   string
	Deadline    string
	EndDate     string
	Status      string
	TaskTypeID  string
	TypeName    string
	OwnerID     string
	OwnerName   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
