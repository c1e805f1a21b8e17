package gantt

import (
	"fmt"
	"time"

	"ganttview/internal/model"
)

// Behavior switches interactions on and registers their callbacks. Each
// callback receives the BlockData of the affected series after the change.
type Behavior struct {
	Clickable bool
	Draggable bool
	Resizable bool

	OnClick  func(model.BlockData)
	OnDrag   func(model.BlockData)
	OnResize func(model.BlockData)
}

// Options configures a chart. Start from DefaultOptions; zero numeric fields
// are replaced by their defaults in New.
type Options struct {
	ShowWeekends bool
	DateChunks   int
	CellWidth    int
	CellHeight   int
	SlideWidth   int
	VHeaderWidth int

	GroupBySeries          bool
	GroupByID              bool
	GroupByIDDrawAllTitles bool

	Behavior Behavior

	// Cascade moves every following series of the same group so that it
	// starts where its predecessor now ends.
	Cascade bool
}

const (
	DefaultDateChunks   = 1
	DefaultCellWidth    = 21
	DefaultCellHeight   = 31
	DefaultSlideWidth   = 400
	DefaultVHeaderWidth = 100
)

// DefaultOptions returns the stock layout: whole-day columns, weekends
// shaded, every interaction enabled and cascading commits.
func DefaultOptions() Options {
	return Options{
		ShowWeekends: true,
		DateChunks:   DefaultDateChunks,
		CellWidth:    DefaultCellWidth,
		CellHeight:   DefaultCellHeight,
		SlideWidth:   DefaultSlideWidth,
		VHeaderWidth: DefaultVHeaderWidth,
		Behavior: Behavior{
			Clickable: true,
			Draggable: true,
			Resizable: true,
		},
		Cascade: true,
	}
}

// WithDefaults fills zero numeric fields.
func (o Options) WithDefaults() Options {
	if o.DateChunks <= 0 {
		o.DateChunks = DefaultDateChunks
	}
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = DefaultCellHeight
	}
	if o.SlideWidth <= 0 {
		o.SlideWidth = DefaultSlideWidth
	}
	if o.VHeaderWidth <= 0 {
		o.VHeaderWidth = DefaultVHeaderWidth
	}
	return o
}

// Chart is a laid-out schedule. It keeps the caller's groups slice and edits
// series dates in place when gestures commit.
type Chart struct {
	opts   Options
	groups []model.Group

	Start    time.Time
	End      time.Time
	Calendar Calendar
	Grid     Grid
	Header   []HeaderItem
	Rows     []Row

	// Adjusted counts series moved by overlap resolution in New.
	Adjusted int
}

// New resolves overlaps in groups and lays the chart out.
func New(groups []model.Group, opts Options) (*Chart, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", ErrInvalidInput)
	}
	opts = opts.WithDefaults()

	c := &Chart{opts: opts, groups: groups}
	c.Adjusted = ResolveOverlaps(groups)

	start, end, err := BoundaryDates(groups, MinDays(opts.SlideWidth, opts.CellWidth))
	if err != nil {
		return nil, err
	}
	c.Start, c.End = start, end
	c.Calendar = ExpandCalendar(start, end)

	c.Grid, err = BuildGrid(c.Calendar, GridOptions{
		DateChunks:   opts.DateChunks,
		CellWidth:    opts.CellWidth,
		ShowWeekends: opts.ShowWeekends,
	})
	if err != nil {
		return nil, err
	}

	c.Layout()
	return c, nil
}

// Layout recomputes rows and blocks from the current series dates against
// the existing grid.
func (c *Chart) Layout() {
	c.Header, c.Rows = LayoutRows(c.groups, RowOptions{
		CellHeight:             c.opts.CellHeight,
		GroupBySeries:          c.opts.GroupBySeries,
		GroupByID:              c.opts.GroupByID,
		GroupByIDDrawAllTitles: c.opts.GroupByIDDrawAllTitles,
	})
	placeRows(c.Grid, c.groups, c.Rows)
}

// Options returns the options the chart was built with, defaults applied.
func (c *Chart) Options() Options {
	return c.opts
}

// Groups returns the chart's groups. Commits edit their series in place.
func (c *Chart) Groups() []model.Group {
	return c.groups
}

// SetBehavior replaces interaction switches and callbacks.
func (c *Chart) SetBehavior(b Behavior) {
	c.opts.Behavior = b
}

// SetSlideWidth resizes the visible viewport. Dates and blocks are left as
// they are.
func (c *Chart) SetSlideWidth(w int) error {
	if w < 1 {
		return fmt.Errorf("%w: slide width %d", ErrInvalidInput, w)
	}
	c.opts.SlideWidth = w
	return nil
}

// SlideWidth is the visible viewport width in pixels.
func (c *Chart) SlideWidth() int {
	return c.opts.SlideWidth
}

// Width is the outer width of header plus viewport.
func (c *Chart) Width() int {
	return c.opts.VHeaderWidth + c.opts.SlideWidth + 1
}

// Blocks lists every block in row order.
func (c *Chart) Blocks() []Block {
	var out []Block
	for _, r := range c.Rows {
		out = append(out, r.Blocks...)
	}
	return out
}

// Block finds the block of a series.
func (c *Chart) Block(ref BlockRef) (Block, error) {
	if err := c.checkRef(ref); err != nil {
		return Block{}, err
	}
	for _, r := range c.Rows {
		for _, b := range r.Blocks {
			if b.Ref == ref {
				return b, nil
			}
		}
	}
	return Block{}, fmt.Errorf("%w: %d/%d", ErrNotFound, ref.Group, ref.Series)
}

// Click reports a click on a block and returns its data.
func (c *Chart) Click(ref BlockRef) (model.BlockData, error) {
	if !c.opts.Behavior.Clickable {
		return nil, fmt.Errorf("%w: click", ErrBehaviorDisabled)
	}
	if err := c.checkRef(ref); err != nil {
		return nil, err
	}
	data := c.blockData(ref)
	if c.opts.Behavior.OnClick != nil {
		c.opts.Behavior.OnClick(data)
	}
	return data, nil
}

func (c *Chart) checkRef(ref BlockRef) error {
	if ref.Group < 0 || ref.Group >= len(c.groups) {
		return fmt.Errorf("%w: group %d", ErrNotFound, ref.Group)
	}
	if ref.Series < 0 || ref.Series >= len(c.groups[ref.Group].Series) {
		return fmt.Errorf("%w: series %d/%d", ErrNotFound, ref.Group, ref.Series)
	}
	return nil
}

func (c *Chart) blockData(ref BlockRef) model.BlockData {
	g := c.groups[ref.Group]
	return g.BlockData(g.Series[ref.Series])
}
