// Package secondary defines the ports the application drives: persistence,
// transactions, credentials and the audit trail.
package secondary

import (
	"context"
	"time"

	"github.com/example/taskapi/internal/core/query"
)

// Transactor runs a unit of work in a single database transaction.
// Repositories called with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the secondary port for user persistence.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *UserRecord) error

	// GetByID retrieves a user by its ID.
	GetByID(ctx context.Context, id string) (*UserRecord, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)

	// EmailExists reports whether another user (not excludeID) holds email.
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)

	// List retrieves users matching the given filters.
	List(ctx context.Context, filters UserFilters) ([]*UserRecord, error)

	// Count counts users matching the given filters, ignoring sort and paging.
	Count(ctx context.Context, filters UserFilters) (int, error)

	// Update writes every column of an existing user.
	Update(ctx context.Context, user *UserRecord) error

	// Delete removes a user; tasks and tokens cascade.
	Delete(ctx context.Context, id string) error
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserFilters contains filter options for querying users.
type UserFilters struct {
	Search string // substring of name or email
	Sort   *query.Sort
	Limit  int
	Offset int
}

// TaskTypeRepository defines the secondary port for task type persistence.
type TaskTypeRepository interface {
	Create(ctx context.Context, taskType *TaskTypeRecord) error
	GetByID(ctx context.Context, id string) (*TaskTypeRecord, error)

	// Exists reports whether a task type with id exists.
	Exists(ctx context.Context, id string) (bool, error)

	List(ctx context.Context, filters TaskTypeFilters) ([]*TaskTypeRecord, error)
	Count(ctx context.Context, filters TaskTypeFilters) (int, error)
	Update(ctx context.Context, taskType *TaskTypeRecord) error
	Delete(ctx context.Context, id string) error

	// CountTasks counts the tasks referencing a task type.
	CountTasks(ctx context.Context, id string) (int, error)
}

// TaskTypeRecord represents a task type as stored in persistence.
type TaskTypeRecord struct {
	ID        string
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskTypeFilters contains filter options for querying task types.
type TaskTypeFilters struct {
	Search string // substring of name or status
	Sort   *query.Sort
	Limit  int
	Offset int
}

// TaskRepository defines the secondary port for task persistence.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *TaskRecord) error

	// GetByID retrieves a task by its ID, joined with its type and owner names.
	GetByID(ctx context.Context, id string) (*TaskRecord, error)

	// List retrieves tasks matching the given filters.
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)

	// Count counts tasks matching the given filters, ignoring sort and paging.
	Count(ctx context.Context, filters TaskFilters) (int, error)

	// Update writes every column of an existing task.
	Update(ctx context.Context, task *TaskRecord) error

	// Delete removes a task from persistence.
	Delete(ctx context.Context, id string) error

	// ListWindowsByOwner returns the id, start_date and deadline of every task
	// owned by ownerID, for the conflict detector.
	ListWindowsByOwner(ctx context.Context, ownerID string) ([]*TaskWindowRecord, error)
}

// TaskRecord represents a task as stored in persistence.
// Dates are YYYY-MM-DD; empty string means null.
type TaskRecord struct {
	ID          string
	Title       string
	Description string // Empty string means null
	StartDate   string
	Deadline    string // Empty string means null
	EndDate     string // Empty string means null
	Status      string
	OwnerID     string
	TaskTypeID  string
	TypeName    string // read-only, joined from task_types
	OwnerName   string // read-only, joined from users
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskWindowRecord is the slice of a task the conflict detector needs.
type TaskWindowRecord struct {
	ID        string
	OwnerID   string
	StartDate string
	Deadline  string // Empty string means null
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	OwnerID    string // empty for every owner
	Search     string // substring of title or status
	StartFrom  string // start_date >= StartFrom
	DeadlineTo string // deadline <= DeadlineTo
	Sort       *query.Sort
	Limit      int
	Offset     int
}

// TokenRepository defines the secondary port for bearer token persistence.
type TokenRepository interface {
	// Create persists a new token.
	Create(ctx context.Context, token *TokenRecord) error

	// GetByHash retrieves a token by the hash of its secret.
	GetByHash(ctx context.Context, hash string) (*TokenRecord, error)

	// Touch records that a token was used.
	Touch(ctx context.Context, id string, at time.Time) error

	// DeleteByUser revokes every token of a user, returning how many were removed.
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// TokenRecord represents an access token as stored in persistence.
type TokenRecord struct {
	ID         string
	UserID     string
	Name       string
	TokenHash  string
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

// AuditLogRepository defines the secondary port for audit log persistence.
// Entries are immutable.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *AuditLogRecord) error
	List(ctx context.Context, filters AuditLogFilters) ([]*AuditLogRecord, error)
}

// AuditLogRecord represents an audit log entry as stored in persistence.
type AuditLogRecord struct {
	ID         string
	ActorID    string // Empty string means null
	EntityType string
	EntityID   string
	Action     string // 'create', 'update', 'delete'
	FieldName  string // Empty string means null - for updates only
	OldValue   string // Empty string means null
	NewValue   string // Empty string means null
	CreatedAt  time.Time
}

// AuditLogFilters contains filter options for querying the audit log.
type AuditLogFilters struct {
	EntityType string
	EntityID   string
	ActorID    string
	Limit      int
}
