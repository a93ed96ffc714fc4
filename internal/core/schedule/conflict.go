package schedule

import "time"

// Window is the inclusive date interval [Start, End] a task occupies.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window. A zero end collapses the window to its start day.
func NewWindow(start, end time.Time) Window {
	if end.IsZero() {
		end = start
	}
	return Window{Start: DateOf(start), End: DateOf(end)}
}

// Overlaps reports whether two closed windows share at least one day.
func Overlaps(a, b Window) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

// TaskWindow is an existing task's window together with its identity.
type TaskWindow struct {
	TaskID  string
	OwnerID string
	Window  Window
}

// ConflictContext provides context for a conflict check.
type ConflictContext struct {
	OwnerID       string
	ExcludeTaskID string // the task being updated, empty on create
	Window        Window
	Existing      []TaskWindow
}

// FindConflict returns the first existing task of the same owner whose window
// overlaps the proposed one. Tasks of other owners never conflict.
func FindConflict(ctx ConflictContext) (TaskWindow, bool) {
	for _, tw := range ctx.Existing {
		if tw.OwnerID != ctx.OwnerID {
			continue
		}
		if ctx.ExcludeTaskID != "" && tw.TaskID == ctx.ExcludeTaskID {
			continue
		}
		if Overlaps(ctx.Window, tw.Window) {
			return tw, true
		}
	}
	return TaskWindow{}, false
}

// HasConflict reports whether the proposed window overlaps any of the owner's tasks.
func HasConflict(ctx ConflictContext) bool {
	_, found := FindConflict(ctx)
	return found
}
