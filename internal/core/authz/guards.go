// Package authz contains the authorization gate.
// Decisions come from a single permission table; guards are pure functions
// that evaluate a principal against it without side effects.
package authz

import (
	"fmt"

	"github.com/example/taskapi/internal/apperr"
)

// Role is the role of an authenticated principal.
type Role string

const (
	RoleUser          Role = "user"
	RoleAdministrator Role = "administrator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdministrator
}

// Resource is the kind of entity an action targets.
type Resource string

const (
	ResourceUser     Resource = "user"
	ResourceTaskType Resource = "task_type"
	ResourceTask     Resource = "task"
	ResourceAuditLog Resource = "audit_log"
)

// Action is an operation on a resource.
type Action string

const (
	ActionFindAllMatches Action = "findAllMatches"
	ActionFindAll        Action = "findAll"
	ActionFindOne        Action = "findOne"
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
)

// Actions lists every action in the table.
var Actions = []Action{
	ActionFindAllMatches,
	ActionFindAll,
	ActionFindOne,
	ActionCreate,
	ActionUpdate,
	ActionDelete,
}

type rule map[Role]bool

var (
	adminOnly     = rule{RoleAdministrator: true}
	authenticated = rule{RoleUser: true, RoleAdministrator: true}
)

// permissions is the resource × action × role table.
// Task actions are open to any authenticated role; ownership is checked by CanAccessOwned.
var permissions = map[Resource]map[Action]rule{
	ResourceUser: {
		ActionFindAllMatches: adminOnly,
		ActionFindAll:        adminOnly,
		ActionFindOne:        adminOnly,
		ActionCreate:         adminOnly,
		ActionUpdate:         adminOnly,
		ActionDelete:         adminOnly,
	},
	ResourceTaskType: {
		ActionFindAllMatches: adminOnly,
		ActionFindAll:        adminOnly,
		ActionFindOne:        adminOnly,
		ActionCreate:         adminOnly,
		ActionUpdate:         adminOnly,
		ActionDelete:         adminOnly,
	},
	ResourceTask: {
		ActionFindAllMatches: authenticated,
		ActionFindAll:        authenticated,
		ActionFindOne:        authenticated,
		ActionCreate:         authenticated,
		ActionUpdate:         authenticated,
		ActionDelete:         authenticated,
	},
	// The audit trail is read-only.
	ResourceAuditLog: {
		ActionFindAll: adminOnly,
	},
}

// IsPermitted reports whether role may perform action on resource.
// Unknown roles, resources and actions are denied.
func IsPermitted(role Role, resource Resource, action Action) bool {
	actions, ok := permissions[resource]
	if !ok {
		return false
	}
	return actions[action][role]
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an Unauthorized error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return apperr.Unauthorized(r.Reason)
}

// AuthorizeContext provides context for the role check.
type AuthorizeContext struct {
	PrincipalID string // empty when unauthenticated
	Role        Role
	Resource    Resource
	Action      Action
}

// Authorize evaluates whether the principal may perform the action.
// Rules:
// - Principal must be authenticated
// - Permission table must allow role × resource × action
func Authorize(ctx AuthorizeContext) GuardResult {
	if ctx.PrincipalID == "" || !ctx.Role.Valid() {
		return GuardResult{
			Allowed: false,
			Reason:  "Unauthenticated.",
		}
	}

	if !IsPermitted(ctx.Role, ctx.Resource, ctx.Action) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("This action is unauthorized (%s %s).", ctx.Action, ctx.Resource),
		}
	}

	return GuardResult{Allowed: true}
}

// OwnedContext provides context for ownership checks on owned resources.
type OwnedContext struct {
	PrincipalID string
	Role        Role
	OwnerID     string
}

// CanAccessOwned evaluates whether the principal may act on a resource owned by OwnerID.
// Rules:
// - Administrators may act on any owner's resources
// - Everyone else only on their own
func CanAccessOwned(ctx OwnedContext) GuardResult {
	if ctx.Role == RoleAdministrator {
		return GuardResult{Allowed: true}
	}

	if ctx.PrincipalID == "" || ctx.PrincipalID != ctx.OwnerID {
		return GuardResult{
			Allowed: false,
			Reason:  "This action is unauthorized.",
		}
	}

	return GuardResult{Allowed: true}
}
