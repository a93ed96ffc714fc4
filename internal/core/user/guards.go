// Package user contains the pure validation rules for user accounts.
package user

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/core/authz"
)

const (
	MaxNameLength     = 255
	MaxEmailLength    = 255
	MinPasswordLength = 8
)

// MsgEmailTaken is reported when another account already holds the email.
const MsgEmailTaken = "This email is already in use. Try another."

// Columns is the writable field set usable for ordering. The password hash is excluded.
var Columns = []string{"name", "email", "role"}

// Fields holds user attributes as supplied by a caller. Nil means "not supplied".
type Fields struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// CreateUserContext provides context for validation on create and register.
type CreateUserContext struct {
	Fields      Fields
	EmailTaken  bool
	RequireRole bool // false for self-registration, where the role is fixed
}

// UpdateUserContext provides context for validation on partial update.
// EmailTaken must already exclude the user being updated.
type UpdateUserContext struct {
	Fields     Fields
	EmailTaken bool
}

// ValidateCreate checks a create or registration request.
func ValidateCreate(ctx CreateUserContext) error {
	f := ctx.Fields
	errs := map[string]string{}

	if f.Name == nil || strings.TrimSpace(*f.Name) == "" {
		errs["name"] = "Provide the name."
	}
	if f.Email == nil || strings.TrimSpace(*f.Email) == "" {
		errs["email"] = "Provide the email."
	}
	if f.Password == nil || *f.Password == "" {
		errs["password"] = "Provide your password."
	}
	if ctx.RequireRole && (f.Role == nil || *f.Role == "") {
		errs["role"] = "Provide the user role."
	}

	validateCommon(f, ctx.EmailTaken, errs)
	return apperr.Validation(errs)
}

// ValidateUpdate checks only the supplied fields of a partial update.
func ValidateUpdate(ctx UpdateUserContext) error {
	f := ctx.Fields
	errs := map[string]string{}

	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		errs["name"] = "Provide the name."
	}
	if f.Email != nil && strings.TrimSpace(*f.Email) == "" {
		errs["email"] = "Provide the email."
	}

	validateCommon(f, ctx.EmailTaken, errs)
	return apperr.Validation(errs)
}

func validateCommon(f Fields, emailTaken bool, errs map[string]string) {
	if f.Name != nil && utf8.RuneCountInString(*f.Name) > MaxNameLength {
		errs["name"] = "Name must have up to 255 characters."
	}

	if f.Email != nil && errs["email"] == "" {
		switch {
		case utf8.RuneCountInString(*f.Email) > MaxEmailLength:
			errs["email"] = "Email must have up to 255 characters."
		case !ValidEmail(*f.Email):
			errs["email"] = "Provide a valid email."
		case emailTaken:
			errs["email"] = MsgEmailTaken
		}
	}

	if f.Password != nil && *f.Password != "" && utf8.RuneCountInString(*f.Password) < MinPasswordLength {
		errs["password"] = "Your password must have 8 or more characters."
	}

	if f.Role != nil && *f.Role != "" && !authz.Role(*f.Role).Valid() {
		errs["role"] = "Invalid role."
	}
}

// ValidEmail reports whether s is a bare address such as "ana@example.com".
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && addr.Name == ""
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
