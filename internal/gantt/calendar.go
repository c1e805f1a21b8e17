package gantt

import (
	"iter"
	"time"

	"ganttview/internal/dateutil"
)

// DateCell is one calendar day of the grid.
type DateCell struct {
	Date    time.Time
	Ordinal int // position within the whole range, from 0
	Weekend bool
}

type CalendarMonth struct {
	Month time.Month
	Days  []DateCell
}

type CalendarYear struct {
	Year   int
	Months []CalendarMonth
}

// Calendar groups every day of a range by year, then by month.
type Calendar struct {
	Years []CalendarYear
}

// Dates yields start, then each following day until it reaches end. A day
// that lands past a non-midnight end is still yielded, so the sequence always
// covers end.
func Dates(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if start.IsZero() || end.IsZero() {
			return
		}
		if !yield(start) {
			return
		}
		for last := start; last.Before(end); {
			last = dateutil.AddDays(last, 1)
			if !yield(last) {
				return
			}
		}
	}
}

// ExpandCalendar materializes Dates(start, end) into year and month buckets.
func ExpandCalendar(start, end time.Time) Calendar {
	var cal Calendar
	ord := 0
	for d := range Dates(start, end) {
		n := len(cal.Years)
		if n == 0 || cal.Years[n-1].Year != d.Year() {
			cal.Years = append(cal.Years, CalendarYear{Year: d.Year()})
			n++
		}
		y := &cal.Years[n-1]

		m := len(y.Months)
		if m == 0 || y.Months[m-1].Month != d.Month() {
			y.Months = append(y.Months, CalendarMonth{Month: d.Month()})
			m++
		}
		y.Months[m-1].Days = append(y.Months[m-1].Days, DateCell{
			Date:    d,
			Ordinal: ord,
			Weekend: dateutil.IsWeekend(d),
		})
		ord++
	}
	return cal
}

// Cells walks every day in calendar order.
func (c Calendar) Cells() iter.Seq[DateCell] {
	return func(yield func(DateCell) bool) {
		for _, y := range c.Years {
			for _, m := range y.Months {
				for _, d := range m.Days {
					if !yield(d) {
						return
					}
				}
			}
		}
	}
}

// Len is the number of days in the calendar.
func (c Calendar) Len() int {
	n := 0
	for _, y := range c.Years {
		for _, m := range y.Months {
			n += len(m.Days)
		}
	}
	return n
}
