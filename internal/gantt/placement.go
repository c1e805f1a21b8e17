package gantt

import (
	"strconv"
	"time"

	"ganttview/internal/dateutil"
	"ganttview/internal/model"
)

// Insets keep a small margin between a block and its cell borders.
const (
	BlockLeftInset   = 3
	BlockWidthInset  = 9
	BlockHeightInset = 4
)

// BlockRef addresses a series inside the dataset.
type BlockRef struct {
	Group  int `json:"group"`
	Series int `json:"series"`
}

// Block is the rendered rectangle of one series.
type Block struct {
	Ref          BlockRef
	Row          int
	OffsetChunks int
	WidthChunks  int
	Days         int
	Left         int
	Width        int
	Height       int
	Title        string
	Color        string
	Data         model.BlockData
}

// PlacementOptions carries the column geometry needed to place blocks.
type PlacementOptions struct {
	DateChunks int
	CellWidth  int
}

// PlaceSeries maps a series onto the grid starting at gridStart. The block
// is always at least one day wide and never left of the grid.
func PlaceSeries(gridStart time.Time, s model.Series, opts PlacementOptions) Block {
	chunks := opts.DateChunks
	if chunks < 1 {
		chunks = 1
	}
	days := dateutil.DaysBetween(s.Start, s.End) + 1
	offsetDays := dateutil.DaysBetween(gridStart, s.Start)

	b := Block{
		OffsetChunks: offsetDays * chunks,
		WidthChunks:  days * chunks,
		Days:         days,
		Color:        s.Color,
		Title:        s.Name + ", " + strconv.Itoa(days) + " days",
	}
	b.Left = b.OffsetChunks*opts.CellWidth + BlockLeftInset
	b.Width = b.WidthChunks*opts.CellWidth - BlockWidthInset
	return b
}

// placeRows fills every row with the blocks of the series assigned to it.
func placeRows(grid Grid, groups []model.Group, rows []Row) {
	opts := PlacementOptions{DateChunks: grid.DateChunks, CellWidth: grid.CellWidth}
	for ri := range rows {
		r := &rows[ri]
		r.Blocks = r.Blocks[:0]
		for _, ref := range r.Refs {
			g := groups[ref.Group]
			s := g.Series[ref.Series]
			b := PlaceSeries(grid.Start, s, opts)
			b.Ref = ref
			b.Row = ri
			b.Height = r.Height - BlockHeightInset
			b.Data = g.BlockData(s)
			r.Blocks = append(r.Blocks, b)
		}
	}
}
