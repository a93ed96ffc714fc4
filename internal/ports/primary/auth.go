package primary

import "context"

// AuthService defines the primary port for account registration and bearer tokens.
type AuthService interface {
	// Register creates a user-role account and issues its first token.
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)

	// Login verifies credentials and issues a new token.
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)

	// Logout revokes every token held by the principal.
	Logout(ctx context.Context, principal Principal) error

	// Authenticate resolves a bearer token to its principal.
	Authenticate(ctx context.Context, bearer string) (*Principal, error)
}

// RegisterRequest contains parameters for self-registration.
type RegisterRequest struct {
	Name     *string
	Email    *string
	Password *string
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string
	Password string
}

// AuthResult is the user plus the plaintext bearer token, returned exactly once.
type AuthResult struct {
	User  *User
	Token string
}
