// Package apperr defines the error taxonomy shared by the core, the application
// services and the adapters. Every failure that crosses the service boundary is
// an *Error whose Kind decides how it is reported to the caller.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("validation failed")
	ErrSchedulingConflict = errors.New("scheduling conflict")
	ErrWeekendDate        = errors.New("weekend date")
	ErrOverlappingWindow  = errors.New("overlapping window")
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInternal           = errors.New("internal error")
)

// Error carries a kind, a caller-facing message and optional per-field messages.
type Error struct {
	Kind   error
	Msg    string
	Fields map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

// Unwrap exposes the kind, plus ErrSchedulingConflict for its two subtypes.
func (e *Error) Unwrap() []error {
	if e.Kind == ErrWeekendDate || e.Kind == ErrOverlappingWindow {
		return []error{e.Kind, ErrSchedulingConflict}
	}
	return []error{e.Kind}
}

// Message returns the caller-facing message without the kind prefix.
func (e *Error) Message() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Msg: msg} }

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func WeekendDate(msg string) error { return &Error{Kind: ErrWeekendDate, Msg: msg} }

func OverlappingWindow(msg string) error { return &Error{Kind: ErrOverlappingWindow, Msg: msg} }

// Internal hides the underlying cause. Callers log the cause before returning this.
func Internal() error {
	return &Error{Kind: ErrInternal, Msg: "An error occurred while executing the request."}
}

// Validation builds a validation error from field messages. Returns nil when
// fields is empty so callers can return it unconditionally.
func Validation(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{Kind: ErrValidation, Msg: summarize(fields), Fields: fields}
}

func summarize(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fields[k])
	}
	return strings.Join(msgs, " ")
}

// As returns the *Error inside err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusCode maps an error to the HTTP status used to report it.
// Errors outside the taxonomy are reported as 500.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOverlappingWindow):
		return http.StatusConflict
	case errors.Is(err, ErrWeekendDate),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidArgument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
