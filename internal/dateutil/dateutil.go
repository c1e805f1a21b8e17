// Package dateutil holds the day-granularity calendar arithmetic used by the
// chart layout. Nothing in here knows about pixels.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Sentinel years mark a date as "unset" in imported data. Exports store
// them as years since 1900 (1901 and 8099), so the calendar years are 3801
// and 9999. A real 1901 date is a valid date.
const (
	SentinelLowYear  = 3801
	SentinelHighYear = 9999
)

// Day is the length of one whole-day column.
const Day = 24 * time.Hour

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"20060102",
}

// IsUnset reports whether t is missing or carries a sentinel year.
func IsUnset(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	y := t.Year()
	return y == SentinelLowYear || y == SentinelHighYear
}

// DaysBetween counts whole days from a to b by stepping one calendar day at a
// time while the cursor is before b. It returns 0 for unset dates and when b
// is not after a.
func DaysBetween(a, b time.Time) int {
	if IsUnset(a) || IsUnset(b) {
		return 0
	}
	count := 0
	for d := a; d.Before(b); d = d.AddDate(0, 0, 1) {
		count++
	}
	return count
}

// IsWeekend uses the Sunday=0 weekday numbering: 0 and 6 are weekend days.
func IsWeekend(t time.Time) bool {
	return int(t.Weekday())%6 == 0
}

// AddDays steps n calendar days, keeping the wall-clock time.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ChunkDuration is the span of one sub-day column. dateChunks below 1 is
// treated as whole days.
func ChunkDuration(dateChunks int) time.Duration {
	if dateChunks < 1 {
		dateChunks = 1
	}
	return Day / time.Duration(dateChunks)
}

// Parse is ParseInLocation in UTC.
func Parse(s string) (time.Time, error) {
	return ParseInLocation(s, time.UTC)
}

// ParseInLocation accepts the date shapes commonly found in schedule exports.
// An empty string yields the zero time, which callers treat as missing.
func ParseInLocation(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("dateutil: unrecognized date " + `"` + s + `"`)
}
