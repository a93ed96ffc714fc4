// Package schedule contains the pure date rules applied to tasks: the weekend
// rule and the per-owner conflict detector.
package schedule

import (
	"strings"
	"time"

	"github.com/example/taskapi/internal/apperr"
)

// Weekend days. Everything else is a working day.
const (
	FirstWeekendDay  = time.Saturday
	SecondWeekendDay = time.Sunday
)

// DateLayout is the canonical calendar-date format used in storage and responses.
const DateLayout = "2006-01-02"

// IsWeekend reports whether d falls on a weekend. Only the calendar date of d
// in its own location is considered.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == FirstWeekendDay || wd == SecondWeekendDay
}

// ParseDate parses a calendar date ("2006-01-02") or an RFC 3339 timestamp and
// returns the date at midnight UTC. Timestamps keep the calendar date they carry
// in their own offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.InvalidArgument("empty date")
	}

	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}

	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperr.InvalidArgument("malformed date %q", s)
	}
	return DateOf(ts), nil
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders d as "2006-01-02".
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}
