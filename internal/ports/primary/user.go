package primary

import (
	"context"
	"time"
)

// UserService defines the primary port for user administration.
type UserService interface {
	// FindAllMatches lists users matching the query, one page at a time.
	FindAllMatches(ctx context.Context, principal Principal, q MatchQuery) (*Page[*User], error)

	// FindAll lists every user.
	FindAll(ctx context.Context, principal Principal) ([]*User, error)

	// FindOne retrieves a user by ID.
	FindOne(ctx context.Context, principal Principal, userID string) (*User, error)

	// Create creates a user with the given role.
	Create(ctx context.Context, principal Principal, req CreateUserRequest) (*User, error)

	// Update applies the supplied fields to an existing user.
	Update(ctx context.Context, principal Principal, req UpdateUserRequest) (*User, error)

	// Delete deletes a user together with their tasks and tokens.
	Delete(ctx context.Context, principal Principal, userID string) error
}

// CreateUserRequest contains parameters for creating a user.
type CreateUserRequest struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// UpdateUserRequest contains parameters for updating a user.
type UpdateUserRequest struct {
	UserID   string
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// User represents a user at the port boundary. The password hash never leaves the service.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
