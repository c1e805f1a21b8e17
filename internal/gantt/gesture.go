package gantt

import (
	"fmt"

	"ganttview/internal/model"
)

type GestureKind int

const (
	GestureDrag GestureKind = iota
	GestureResize
)

func (k GestureKind) String() string {
	if k == GestureResize {
		return "resize"
	}
	return "drag"
}

// ParseGestureKind accepts "drag" and "resize".
func ParseGestureKind(s string) (GestureKind, error) {
	switch s {
	case "drag":
		return GestureDrag, nil
	case "resize":
		return GestureResize, nil
	}
	return 0, fmt.Errorf("%w: gesture kind %q", ErrInvalidInput, s)
}

type GestureState int

const (
	StateIdle GestureState = iota
	StateDragging
	StateResizing
	StateCommitting
)

func (s GestureState) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	case StateCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// Gesture tracks one drag or resize of a block from pointer-down to
// pointer-up. Series data is only touched by Commit.
type Gesture struct {
	chart   *Chart
	kind    GestureKind
	ref     BlockRef
	state   GestureState
	origin  Geometry
	current Geometry
}

// Begin starts a gesture on the block of ref.
func (c *Chart) Begin(kind GestureKind, ref BlockRef) (*Gesture, error) {
	switch kind {
	case GestureDrag:
		if !c.opts.Behavior.Draggable {
			return nil, fmt.Errorf("%w: drag", ErrBehaviorDisabled)
		}
	case GestureResize:
		if !c.opts.Behavior.Resizable {
			return nil, fmt.Errorf("%w: resize", ErrBehaviorDisabled)
		}
	default:
		return nil, fmt.Errorf("%w: gesture kind %d", ErrInvalidInput, kind)
	}

	b, err := c.Block(ref)
	if err != nil {
		return nil, err
	}

	g := &Gesture{
		chart:   c,
		kind:    kind,
		ref:     ref,
		origin:  Geometry{Left: b.Left, Width: b.Width},
		current: Geometry{Left: b.Left, Width: b.Width},
		state:   StateDragging,
	}
	if kind == GestureResize {
		g.state = StateResizing
	}
	return g, nil
}

func (g *Gesture) Kind() GestureKind { return g.kind }
func (g *Gesture) Ref() BlockRef { return g.ref }
func (g *Gesture) State() GestureState { return g.state }
func (g *Gesture) Geometry() Geometry { return g.current }
func (g *Gesture) Origin() Geometry { return g.origin }
func (g *Gesture) active() bool { return g.state == StateDragging || g.state == StateResizing }

// Update records the pointer's latest block geometry. A drag only moves the
// left edge and a resize only moves the right edge.
func (g *Gesture) Update(geom Geometry) error {
	if !g.active() {
		return fmt.Errorf("%w: update while %s", ErrInvalidState, g.state)
	}
	if g.kind == GestureDrag {
		g.current.Left = geom.Left
	} else {
		g.current.Width = geom.Width
	}
	return nil
}

// Abort drops the gesture without touching series data.
func (g *Gesture) Abort() error {
	if !g.active() {
		return fmt.Errorf("%w: abort while %s", ErrInvalidState, g.state)
	}
	g.current = g.origin
	g.state = StateIdle
	return nil
}

// Commit writes the remapped dates into the series, cascades to the
// following series of the group when enabled, re-lays out the chart and
// fires the drag/resize callback.
func (g *Gesture) Commit() (model.BlockData, error) {
	if !g.active() {
		return nil, fmt.Errorf("%w: commit while %s", ErrInvalidState, g.state)
	}
	c := g.chart
	if err := c.checkRef(g.ref); err != nil {
		g.state = StateIdle
		return nil, err
	}
	g.state = StateCommitting

	start, end := Remap(c.Grid, g.current)
	series := c.groups[g.ref.Group].Series
	s := &series[g.ref.Series]
	s.Start, s.End = start, end

	if c.opts.Cascade {
		cascade(series, g.ref.Series)
	}

	c.Layout()
	data := c.blockData(g.ref)

	cb := c.opts.Behavior.OnDrag
	if g.kind == GestureResize {
		cb = c.opts.Behavior.OnResize
	}
	if cb != nil {
		cb(data)
	}

	g.state = StateIdle
	return data, nil
}

// cascade makes each series after from start where the previous dated one
// ends, keeping its own duration.
func cascade(series []model.Series, from int) {
	prevEnd := series[from].End
	for i := from + 1; i < len(series); i++ {
		s := &series[i]
		if !s.HasDates() {
			continue
		}
		d := s.Duration()
		s.Start = prevEnd
		s.End = prevEnd.Add(d)
		prevEnd = s.End
	}
}
