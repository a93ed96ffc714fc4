// Package task contains the pure business logic for task operations.
// Guards are pure functions that evaluate preconditions without side effects.
package task

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/core/schedule"
)

// Task statuses.
const (
	StatusPending = "pending"
	StatusDone    = "done"
)

// MaxTitleLength is the longest accepted title, in characters.
const MaxTitleLength = 255

// Columns is the writable field set; only these may be used for ordering.
var Columns = []string{"title", "description", "start_date", "deadline", "end_date", "status", "task_type_id"}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusDone
}

// Fields holds task attributes as supplied by a caller. Nil means "not supplied".
type Fields struct {
	Title       *string
	Description *string
	StartDate   *string
	Deadline    *string
	EndDate     *string
	Status      *string
	TaskTypeID  *string
}

// Dates holds the parsed calendar dates of a request. Nil means "not supplied".
type Dates struct {
	Start    *time.Time
	Deadline *time.Time
	End      *time.Time
}

// CreateTaskContext provides context for structural validation on create.
type CreateTaskContext struct {
	Fields         Fields
	TaskTypeExists bool
}

// UpdateTaskContext provides context for structural validation on update.
// The Current* values are the stored dates, used for any date the patch omits.
type UpdateTaskContext struct {
	Fields          Fields
	CurrentStart    string
	CurrentDeadline string
	CurrentEnd      string
	TaskTypeExists  bool // only checked if Fields.TaskTypeID != nil
}

// ValidateCreate checks the structure of a create request and returns its parsed dates.
// Rules:
// - title, start_date, deadline and task_type_id are required
// - title is at most 255 characters
// - dates parse; deadline and end_date are on or after start_date
// - status, when given, is pending or done
// - task_type_id is a UUID naming an existing task type
func ValidateCreate(ctx CreateTaskContext) (Dates, error) {
	f := ctx.Fields
	errs := map[string]string{}

	if f.Title == nil || strings.TrimSpace(*f.Title) == "" {
		errs["title"] = "The title field is required."
	}
	if f.StartDate == nil || strings.TrimSpace(*f.StartDate) == "" {
		errs["start_date"] = "The start date field is required."
	}
	if f.Deadline == nil || strings.TrimSpace(*f.Deadline) == "" {
		errs["deadline"] = "The deadline is required."
	}
	if f.TaskTypeID == nil || strings.TrimSpace(*f.TaskTypeID) == "" {
		errs["task_type_id"] = "The task type ID field is required."
	}

	dates := validateCommon(f, Dates{}, ctx.TaskTypeExists, errs)
	if err := apperr.Validation(errs); err != nil {
		return Dates{}, err
	}
	return dates, nil
}

// ValidateUpdate checks the structure of a partial update and returns its parsed dates.
// Only supplied fields are validated; a supplied title may not be blank.
func ValidateUpdate(ctx UpdateTaskContext) (Dates, error) {
	f := ctx.Fields
	errs := map[string]string{}

	if f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		errs["title"] = "The title field is required."
	}
	if f.StartDate != nil && strings.TrimSpace(*f.StartDate) == "" {
		errs["start_date"] = "The start date must be a valid date."
	}
	if f.TaskTypeID != nil && strings.TrimSpace(*f.TaskTypeID) == "" {
		errs["task_type_id"] = "The task type ID field is required."
	}

	stored := Dates{
		Start:    parseStored(ctx.CurrentStart),
		Deadline: parseStored(ctx.CurrentDeadline),
		End:      parseStored(ctx.CurrentEnd),
	}

	dates := validateCommon(f, stored, ctx.TaskTypeExists, errs)
	if err := apperr.Validation(errs); err != nil {
		return Dates{}, err
	}
	return dates, nil
}

// validateCommon checks the supplied fields. The date order is checked on the
// effective window: a supplied date wins, an omitted one falls back to stored.
func validateCommon(f Fields, stored Dates, typeExists bool, errs map[string]string) Dates {
	var dates Dates

	if f.Title != nil && utf8.RuneCountInString(*f.Title) > MaxTitleLength {
		errs["title"] = "The title may not be greater than 255 characters."
	}

	dates.Start = parseOptional(f.StartDate, "start_date", "The start date must be a valid date.", errs)
	dates.Deadline = parseOptional(f.Deadline, "deadline", "The deadline must be a valid date.", errs)
	dates.End = parseOptional(f.EndDate, "end_date", "The end date must be a valid date.", errs)

	start := effective(f.StartDate, dates.Start, stored.Start)
	deadline := effective(f.Deadline, dates.Deadline, stored.Deadline)
	end := effective(f.EndDate, dates.End, stored.End)
	if start != nil {
		if deadline != nil && deadline.Before(*start) {
			if f.Deadline != nil {
				errs["deadline"] = "The deadline must be a date equal to or after the start date."
			} else {
				errs["start_date"] = "The start date must be a date equal to or before the deadline."
			}
		}
		if end != nil && end.Before(*start) {
			if f.EndDate != nil {
				errs["end_date"] = "The end date must be a date equal to or after the start date."
			} else if _, set := errs["start_date"]; !set {
				errs["start_date"] = "The start date must be a date equal to or before the end date."
			}
		}
	}

	if f.Status != nil && !ValidStatus(*f.Status) {
		errs["status"] = fmt.Sprintf("The status must be either %s or %s.", StatusPending, StatusDone)
	}

	if f.TaskTypeID != nil && strings.TrimSpace(*f.TaskTypeID) != "" {
		if _, err := uuid.Parse(*f.TaskTypeID); err != nil {
			errs["task_type_id"] = "The task type ID must be a valid UUID."
		} else if !typeExists {
			errs["task_type_id"] = "The specified task type ID does not exist."
		}
	}

	return dates
}

// effective returns the supplied date when the field was supplied, otherwise the
// stored one. A supplied date that is empty or unparseable yields nil.
func effective(supplied *string, parsed, stored *time.Time) *time.Time {
	if supplied != nil {
		return parsed
	}
	return stored
}

func parseStored(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := schedule.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

// parseOptional parses a supplied, non-empty date. Empty strings are treated as
// "clear the value" and yield nil without an error.
func parseOptional(s *string, field, msg string, errs map[string]string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := schedule.ParseDate(*s)
	if err != nil {
		errs[field] = msg
		return nil
	}
	return &d
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Kind    error
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &apperr.Error{Kind: r.Kind, Msg: r.Reason}
}

// WeekendContext provides context for the weekend guard.
type WeekendContext struct {
	StartDate *time.Time
	Deadline  *time.Time
}

// CanUseDates evaluates the weekend rule on the supplied dates.
// Rules:
// - Neither start_date nor deadline may fall on a weekend
func CanUseDates(ctx WeekendContext) GuardResult {
	for _, d := range []*time.Time{ctx.StartDate, ctx.Deadline} {
		if d != nil && schedule.IsWeekend(*d) {
			return GuardResult{
				Allowed: false,
				Reason:  "Dates cannot be weekends.",
				Kind:    apperr.ErrWeekendDate,
			}
		}
	}

	return GuardResult{Allowed: true}
}

// ScheduleContext provides context for the overlap guard.
type ScheduleContext struct {
	OwnerID       string
	ExcludeTaskID string
	StartDate     time.Time
	Deadline      time.Time
	Existing      []schedule.TaskWindow
}

// CanOccupyWindow evaluates whether the owner is free for the whole window.
// Rules:
// - The window may not overlap any other task of the same owner
func CanOccupyWindow(ctx ScheduleContext) GuardResult {
	_, found := schedule.FindConflict(schedule.ConflictContext{
		OwnerID:       ctx.OwnerID,
		ExcludeTaskID: ctx.ExcludeTaskID,
		Window:        schedule.NewWindow(ctx.StartDate, ctx.Deadline),
		Existing:      ctx.Existing,
	})
	if found {
		return GuardResult{
			Allowed: false,
			Reason:  "There are already tasks on the dates informed. Enter different dates.",
			Kind:    apperr.ErrOverlappingWindow,
		}
	}

	return GuardResult{Allowed: true}
}

// NeedsConflictCheck reports whether an update must re-run the conflict detector:
// only when the patch carries both start_date and deadline.
func NeedsConflictCheck(d Dates) bool {
	return d.Start != nil && d.Deadline != nil
}
