package app

import (
	"time"

	"github.com/example/taskapi/internal/core/schedule"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return schedule.FormatDate(*t)
}
