package gantt

import (
	"fmt"
	"strconv"
	"time"
)

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// GridOptions controls column geometry.
type GridOptions struct {
	DateChunks   int // sub-day columns per day, 1 = whole days
	CellWidth    int // pixels per column
	ShowWeekends bool
}

// ChunkColumn is a sub-day column. Label is empty for unlabeled chunks.
type ChunkColumn struct {
	Index  int
	Offset int
	Width  int
	Label  string
}

// DayColumn is one day of the grid with its pixel span.
type DayColumn struct {
	Date    time.Time
	Ordinal int
	Label   string // day of month
	Offset  int
	Width   int
	Weekend bool
	Chunks  []ChunkColumn // only when DateChunks > 1
}

// MonthHeader spans the days of one month bucket.
type MonthHeader struct {
	Year   int
	Month  time.Month
	Label  string
	Offset int
	Width  int
}

// Grid is the horizontal layout of the chart.
type Grid struct {
	Start      time.Time
	End        time.Time
	DateChunks int
	CellWidth  int
	Months     []MonthHeader
	Days       []DayColumn
	Width      int
}

// Columns is the number of cell-wide columns (days × chunks).
func (g Grid) Columns() int {
	return len(g.Days) * g.DateChunks
}

// BuildGrid turns a calendar into pixel columns.
func BuildGrid(cal Calendar, opts GridOptions) (Grid, error) {
	if opts.DateChunks < 1 {
		return Grid{}, fmt.Errorf("%w: dateChunks %d < 1", ErrInvalidInput, opts.DateChunks)
	}
	if opts.CellWidth < 1 {
		return Grid{}, fmt.Errorf("%w: cellWidth %d < 1", ErrInvalidInput, opts.CellWidth)
	}
	if cal.Len() == 0 {
		return Grid{}, fmt.Errorf("%w: empty calendar", ErrInvalidInput)
	}

	dayWidth := opts.DateChunks * opts.CellWidth
	g := Grid{
		DateChunks: opts.DateChunks,
		CellWidth:  opts.CellWidth,
		Days:       make([]DayColumn, 0, cal.Len()),
	}

	for _, y := range cal.Years {
		for _, m := range y.Months {
			g.Months = append(g.Months, MonthHeader{
				Year:   y.Year,
				Month:  m.Month,
				Label:  monthNames[m.Month-1] + "/" + strconv.Itoa(y.Year),
				Offset: m.Days[0].Ordinal * dayWidth,
				Width:  len(m.Days) * dayWidth,
			})
			for _, d := range m.Days {
				col := DayColumn{
					Date:    d.Date,
					Ordinal: d.Ordinal,
					Label:   strconv.Itoa(d.Date.Day()),
					Offset:  d.Ordinal * dayWidth,
					Width:   dayWidth,
					Weekend: opts.ShowWeekends && d.Weekend,
				}
				if opts.DateChunks > 1 {
					col.Chunks = chunkColumns(col.Offset, opts)
				}
				g.Days = append(g.Days, col)
			}
		}
	}

	g.Start = g.Days[0].Date
	g.End = g.Days[len(g.Days)-1].Date
	g.Width = len(g.Days) * dayWidth
	return g, nil
}

// chunkColumns labels every hourMark-th chunk with its index, where
// hourMark is 24/DateChunks.
func chunkColumns(dayOffset int, opts GridOptions) []ChunkColumn {
	hourMark := 24 / opts.DateChunks
	if hourMark < 1 {
		hourMark = 1
	}
	out := make([]ChunkColumn, opts.DateChunks)
	for c := range out {
		out[c] = ChunkColumn{
			Index:  c,
			Offset: dayOffset + c*opts.CellWidth,
			Width:  opts.CellWidth,
		}
		if c%hourMark == 0 {
			out[c].Label = strconv.Itoa(c)
		}
	}
	return out
}
