package gantt

import (
	"math"
	"time"

	"ganttview/internal/dateutil"
)

// Geometry is a block's horizontal pixel span inside the slide container.
type Geometry struct {
	Left  int `json:"left"`
	Width int `json:"width"`
}

// ChunksFromPixels is the inverse of block placement: the left edge snaps to
// the nearest column, the width is truncated to whole columns.
func ChunksFromPixels(geom Geometry, cellWidth int) (offset, width int) {
	if cellWidth < 1 {
		cellWidth = 1
	}
	offset = int(math.Round(float64(geom.Left) / float64(cellWidth)))
	width = geom.Width / cellWidth
	if geom.Width < 0 {
		width = 0
	}
	return offset, width
}

// AddChunks advances t by n sub-day columns. Whole days step by calendar day
// so the result agrees with dateutil.DaysBetween.
func AddChunks(t time.Time, n, dateChunks int) time.Time {
	if dateChunks < 1 {
		dateChunks = 1
	}
	days, rem := n/dateChunks, n%dateChunks
	return dateutil.AddDays(t, days).Add(time.Duration(rem) * dateutil.ChunkDuration(dateChunks))
}

// Remap converts a block geometry on grid back into a start/end pair. The
// start is clamped to the grid's columns; the width only to zero, so a block
// keeps its length when dropped near the last column.
func Remap(grid Grid, geom Geometry) (time.Time, time.Time) {
	offset, width := ChunksFromPixels(geom, grid.CellWidth)

	last := grid.Columns() - 1
	if last < 0 {
		last = 0
	}
	offset = max(0, min(offset, last))
	width = max(0, width)

	start := AddChunks(grid.Start, offset, grid.DateChunks)
	end := AddChunks(start, width, grid.DateChunks)
	return start, end
}
