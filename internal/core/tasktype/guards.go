// Package tasktype contains the pure business logic for task type operations.
package tasktype

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/taskapi/internal/apperr"
)

// Task type visibility.
const (
	StatusVisible = "visible"
	StatusHidden  = "hidden"
)

const MaxNameLength = 255

// Columns is the writable field set usable for ordering.
var Columns = []string{"name", "status"}

// ValidStatus reports whether s is a known visibility status.
func ValidStatus(s string) bool {
	return s == StatusVisible || s == StatusHidden
}

// Fields holds task type attributes as supplied by a caller. Nil means "not supplied".
type Fields struct {
	Name   *string
	Status *string
}

// ValidateCreate checks a create request. Name is required.
func ValidateCreate(f Fields) error {
	errs := map[string]string{}
	if f.Name == nil || strings.TrimSpace(*f.Name) == "" {
		errs["name"] = "Provide the name."
	}
	validateCommon(f, errs)
	return apperr.Validation(errs)
}

// ValidateUpdate checks only the supplied fields.
func ValidateUpdate(f Fields) error {
	errs := map[string]string{}
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		errs["name"] = "Provide the name."
	}
	validateCommon(f, errs)
	return apperr.Validation(errs)
}

func validateCommon(f Fields, errs map[string]string) {
	if f.Name != nil && utf8.RuneCountInString(*f.Name) > MaxNameLength {
		errs["name"] = "Name must have up to 255 characters."
	}
	if f.Status != nil && !ValidStatus(*f.Status) {
		errs["status"] = "Invalid status."
	}
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to a validation error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return apperr.Validation(map[string]string{"id": r.Reason})
}

// DeleteTaskTypeContext provides context for deletion guards.
type DeleteTaskTypeContext struct {
	TaskTypeID string
	TaskCount  int
}

// CanDeleteTaskType evaluates whether a task type can be deleted.
// Rules:
// - No task may still reference the type
func CanDeleteTaskType(ctx DeleteTaskTypeContext) GuardResult {
	if ctx.TaskCount > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Task type %s is in use by %d task(s).", ctx.TaskTypeID, ctx.TaskCount),
		}
	}

	return GuardResult{Allowed: true}
}
