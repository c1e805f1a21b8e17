// Package gantt computes the date grid and block geometry of a Gantt chart
// and maps pointer gestures on blocks back onto schedule dates.
//
// A Chart is not safe for concurrent use; callers that share one across
// goroutines serialize access themselves.
package gantt

import (
	"errors"
	"fmt"
	"math"
	"time"

	"ganttview/internal/dateutil"
	"ganttview/internal/model"
)

var (
	// ErrInvalidInput reports a dataset or option set that cannot be laid out.
	ErrInvalidInput = errors.New("gantt: invalid input")
	// ErrNotFound reports a block reference outside the dataset.
	ErrNotFound = errors.New("gantt: block not found")
	// ErrInvalidState reports a gesture call that does not fit its state.
	ErrInvalidState = errors.New("gantt: invalid gesture state")
	// ErrBehaviorDisabled reports a gesture whose behavior is switched off.
	ErrBehaviorDisabled = errors.New("gantt: behavior disabled")
)

// MinDays is the day count needed to fill a viewport of slideWidth pixels,
// plus a few days of slack.
func MinDays(slideWidth, cellWidth int) int {
	if cellWidth <= 0 {
		return 5
	}
	return int(math.Floor(float64(slideWidth)/float64(cellWidth) + 5))
}

// BoundaryDates returns the earliest start and latest end across all series.
// The end is pushed out so the span covers at least minDays days.
func BoundaryDates(groups []model.Group, minDays int) (time.Time, time.Time, error) {
	var (
		minStart, maxEnd time.Time
		seeded           bool
	)
	for _, g := range groups {
		for _, s := range g.Series {
			if !s.HasDates() {
				continue
			}
			if !seeded {
				minStart, maxEnd = s.Start, s.End
				seeded = true
				continue
			}
			if s.Start.Before(minStart) {
				minStart = s.Start
			}
			if s.End.After(maxEnd) {
				maxEnd = s.End
			}
		}
	}
	if !seeded {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: dataset has no dated series", ErrInvalidInput)
	}

	if dateutil.DaysBetween(minStart, maxEnd) < minDays {
		maxEnd = dateutil.AddDays(minStart, minDays)
	}
	return minStart, maxEnd, nil
}
