package primary

import "github.com/example/taskapi/internal/core/authz"

// Principal is the authenticated caller on whose behalf a service operation runs.
// The zero Principal is unauthenticated.
type Principal struct {
	ID   string
	Name string
	Role authz.Role
}

// IsAdministrator reports whether the principal holds the administrator role.
func (p Principal) IsAdministrator() bool {
	return p.Role == authz.RoleAdministrator
}

// Authenticated reports whether the principal identifies a user.
func (p Principal) Authenticated() bool {
	return p.ID != "" && p.Role.Valid()
}
