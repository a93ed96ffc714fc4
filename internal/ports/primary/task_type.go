package primary

import (
	"context"
	"time"
)

// TaskTypeService defines the primary port for task type administration.
type TaskTypeService interface {
	FindAllMatches(ctx context.Context, principal Principal, q MatchQuery) (*Page[*TaskType], error)
	FindAll(ctx context.Context, principal Principal) ([]*TaskType, error)
	FindOne(ctx context.Context, principal Principal, typeID string) (*TaskType, error)
	Create(ctx context.Context, principal Principal, req CreateTaskTypeRequest) (*TaskType, error)
	Update(ctx context.Context, principal Principal, req UpdateTaskTypeRequest) (*TaskType, error)

	// Delete deletes a task type. Types still referenced by tasks are refused.
	Delete(ctx context.Context, principal Principal, typeID string) error
}

// CreateTaskTypeRequest contains parameters for creating a task type.
type CreateTaskTypeRequest struct {
	Name   *string
	Status *string // Optional: visible (default), hidden
}

// UpdateTaskTypeRequest contains parameters for updating a task type.
type UpdateTaskTypeRequest struct {
	TaskTypeID string
	Name       *string
	Status     *string
}

// TaskType represents a task category.
type TaskType struct {
	ID        string
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
