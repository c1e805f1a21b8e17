package gantt

import (
	"errors"
	"testing"
	"time"

	"ganttview/internal/model"
)

func newTestChart(t *testing.T, opts Options, s ...model.Series) *Chart {
	t.Helper()
	groups := []model.Group{{ID: "g1", Name: "Group", Series: s}}
	c, err := New(groups, opts)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func chartOpts() Options {
	opts := DefaultOptions()
	opts.CellWidth = 20
	return opts
}

func TestRemapRoundTrip(t *testing.T) {
	c := newTestChart(t, chartOpts(),
		series("a", d(2024, 1, 1), d(2024, 1, 3)),
		series("b", d(2024, 1, 5), d(2024, 1, 9)),
		series("c", d(2024, 1, 9), d(2024, 1, 9)),
	)
	for _, b := range c.Blocks() {
		s := c.Groups()[0].Series[b.Ref.Series]
		start, end := Remap(c.Grid, Geometry{Left: b.Left, Width: b.Width})
		if !start.Equal(s.Start) || !end.Equal(s.End) {
			t.Errorf("%s: remapped %v..%v, want %v..%v", s.Name, start, end, s.Start, s.End)
		}
	}
}

func TestRemapDragScenario(t *testing.T) {
	c := newTestChart(t, chartOpts(), series("a", d(2024, 1, 1), d(2024, 1, 3)))
	start, _ := Remap(c.Grid, Geometry{Left: 40, Width: 51})
	if !start.Equal(d(2024, 1, 3)) {
		t.Fatalf("start = %v, want grid start + 2 days", start)
	}
}

func TestRemapClamps(t *testing.T) {
	c := newTestChart(t, chartOpts(), series("a", d(2024, 1, 1), d(2024, 1, 3)))

	start, _ := Remap(c.Grid, Geometry{Left: -100, Width: 51})
	if !start.Equal(c.Grid.Start) {
		t.Errorf("left of grid: start = %v, want grid start", start)
	}

	start, end := Remap(c.Grid, Geometry{Left: 100000, Width: 51})
	if !start.Equal(c.Grid.End) || !end.Equal(c.Grid.End.AddDate(0, 0, 2)) {
		t.Errorf("right of grid: %v..%v, want last column %v plus 2 days", start, end, c.Grid.End)
	}
}

func TestDragNearGridEndKeepsDuration(t *testing.T) {
	c := newTestChart(t, chartOpts(),
		series("a", d(2024, 1, 1), d(2024, 1, 3)),
		series("b", d(2024, 1, 10), d(2024, 1, 12)),
		series("c", d(2024, 1, 14), d(2024, 1, 15)),
	)
	last := c.Grid.Columns() - 1

	g, err := c.Begin(GestureDrag, BlockRef{Series: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Update(Geometry{Left: (last - 1) * 20}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Commit(); err != nil {
		t.Fatal(err)
	}

	s := c.Groups()[0].Series
	if want := c.Grid.Start.AddDate(0, 0, last-1); !s[1].Start.Equal(want) {
		t.Errorf("b start = %v, want %v", s[1].Start, want)
	}
	if got := s[1].Duration(); got != 48*time.Hour {
		t.Errorf("b duration = %v, want 48h", got)
	}
	if !s[2].Start.Equal(s[1].End) || s[2].Duration() != 24*time.Hour {
		t.Errorf("c = %v..%v, want to follow b and keep 24h", s[2].Start, s[2].End)
	}
}

func TestRemapChunks(t *testing.T) {
	opts := chartOpts()
	opts.DateChunks = 4
	opts.CellWidth = 10
	c := newTestChart(t, opts, series("a", d(2024, 1, 1), d(2024, 1, 3)))
	// 6 chunks in = 1.5 days; 3 chunks wide = 18h.
	start, end := Remap(c.Grid, Geometry{Left: 60, Width: 35})
	if want := d(2024, 1, 2).Add(12 * time.Hour); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := start.Add(18 * time.Hour); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func TestDragCommitCascades(t *testing.T) {
	var got model.BlockData
	opts := chartOpts()
	opts.Behavior.OnDrag = func(bd model.BlockData) { got = bd }

	c := newTestChart(t, opts,
		series("a", d(2024, 1, 1), d(2024, 1, 3)),
		series("b", d(2024, 1, 4), d(2024, 1, 6)),
		series("c", d(2024, 1, 10), d(2024, 1, 11)),
	)

	g, err := c.Begin(GestureDrag, BlockRef{Group: 0, Series: 0})
	if err != nil {
		t.Fatal(err)
	}
	if g.State() != StateDragging {
		t.Fatalf("state = %v", g.State())
	}
	if err := g.Update(Geometry{Left: 40, Width: 999}); err != nil {
		t.Fatal(err)
	}
	data, err := g.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if g.State() != StateIdle {
		t.Errorf("state after commit = %v", g.State())
	}

	s := c.Groups()[0].Series
	if !s[0].Start.Equal(d(2024, 1, 3)) || !s[0].End.Equal(d(2024, 1, 5)) {
		t.Errorf("a = %v..%v, want 01-03..01-05", s[0].Start, s[0].End)
	}
	if !s[1].Start.Equal(d(2024, 1, 5)) || !s[1].End.Equal(d(2024, 1, 7)) {
		t.Errorf("b = %v..%v, want 01-05..01-07", s[1].Start, s[1].End)
	}
	if !s[2].Start.Equal(d(2024, 1, 7)) || !s[2].End.Equal(d(2024, 1, 8)) {
		t.Errorf("c = %v..%v, want 01-07..01-08", s[2].Start, s[2].End)
	}

	if got == nil || got["name"] != "a" || got["id"] != "g1" {
		t.Errorf("OnDrag data = %v", got)
	}
	if data["start"] != s[0].Start {
		t.Errorf("returned data start = %v", data["start"])
	}

	b, err := c.Block(BlockRef{Series: 0})
	if err != nil {
		t.Fatal(err)
	}
	if b.OffsetChunks != 2 {
		t.Errorf("block not re-laid out: offset = %d", b.OffsetChunks)
	}
}

func TestCommitWithoutCascade(t *testing.T) {
	opts := chartOpts()
	opts.Cascade = false
	c := newTestChart(t, opts,
		series("a", d(2024, 1, 1), d(2024, 1, 3)),
		series("b", d(2024, 1, 4), d(2024, 1, 6)),
	)
	g, err := c.Begin(GestureDrag, BlockRef{Series: 0})
	if err != nil {
		t.Fatal(err)
	}
	_ = g.Update(Geometry{Left: 40})
	if _, err := g.Commit(); err != nil {
		t.Fatal(err)
	}
	if s := c.Groups()[0].Series[1]; !s.Start.Equal(d(2024, 1, 4)) {
		t.Errorf("b moved without cascade: %v", s.Start)
	}
}

func TestResizeCommit(t *testing.T) {
	var resized bool
	opts := chartOpts()
	opts.Behavior.OnResize = func(model.BlockData) { resized = true }
	c := newTestChart(t, opts, series("a", d(2024, 1, 2), d(2024, 1, 3)))

	g, err := c.Begin(GestureResize, BlockRef{Series: 0})
	if err != nil {
		t.Fatal(err)
	}
	// Drag the right edge out to five cells; left must stay put.
	_ = g.Update(Geometry{Left: 500, Width: 5*20 - BlockWidthInset})
	if _, err := g.Commit(); err != nil {
		t.Fatal(err)
	}
	s := c.Groups()[0].Series[0]
	if !s.Start.Equal(d(2024, 1, 2)) || !s.End.Equal(d(2024, 1, 6)) {
		t.Errorf("a = %v..%v, want 01-02..01-06", s.Start, s.End)
	}
	if !resized {
		t.Error("OnResize not called")
	}
}

func TestAbortLeavesSeriesUntouched(t *testing.T) {
	c := newTestChart(t, chartOpts(), series("a", d(2024, 1, 1), d(2024, 1, 3)))
	before := c.Groups()[0].Series[0]

	g, err := c.Begin(GestureDrag, BlockRef{Series: 0})
	if err != nil {
		t.Fatal(err)
	}
	_ = g.Update(Geometry{Left: 200})
	if err := g.Abort(); err != nil {
		t.Fatal(err)
	}
	after := c.Groups()[0].Series[0]
	if !after.Start.Equal(before.Start) || !after.End.Equal(before.End) {
		t.Fatalf("abort modified series: %v..%v", after.Start, after.End)
	}

	if _, err := g.Commit(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("commit after abort: err = %v", err)
	}
	if err := g.Update(Geometry{}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("update after abort: err = %v", err)
	}
}

func TestBeginErrors(t *testing.T) {
	opts := chartOpts()
	opts.Behavior.Draggable = false
	c := newTestChart(t, opts, series("a", d(2024, 1, 1), d(2024, 1, 3)))

	if _, err := c.Begin(GestureDrag, BlockRef{}); !errors.Is(err, ErrBehaviorDisabled) {
		t.Errorf("disabled drag: err = %v", err)
	}
	if _, err := c.Begin(GestureResize, BlockRef{Series: 5}); !errors.Is(err, ErrNotFound) {
		t.Errorf("bad ref: err = %v", err)
	}
	if _, err := c.Begin(GestureKind(9), BlockRef{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad kind: err = %v", err)
	}
}

func TestClick(t *testing.T) {
	var clicked model.BlockData
	opts := chartOpts()
	opts.Behavior.OnClick = func(bd model.BlockData) { clicked = bd }
	s := series("a", d(2024, 1, 1), d(2024, 1, 3))
	s.Extra = map[string]any{"owner": "lee"}
	c := newTestChart(t, opts, s)

	if _, err := c.Click(BlockRef{}); err != nil {
		t.Fatal(err)
	}
	if clicked["owner"] != "lee" {
		t.Errorf("click data = %v", clicked)
	}

	opts.Behavior.Clickable = false
	c.SetBehavior(opts.Behavior)
	if _, err := c.Click(BlockRef{}); !errors.Is(err, ErrBehaviorDisabled) {
		t.Errorf("err = %v", err)
	}
}

func TestParseGestureKind(t *testing.T) {
	if k, err := ParseGestureKind("resize"); err != nil || k != GestureResize {
		t.Errorf("resize = %v, %v", k, err)
	}
	if _, err := ParseGestureKind("fling"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
}
