package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"ganttview/internal/gantt"
	appLog "ganttview/internal/log"
	"ganttview/internal/model"
	"ganttview/internal/render"
)

// chartResponse is the JSON shape of GET /api/chart.
type chartResponse struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Width        int       `json:"width"`
	SlideWidth   int       `json:"slide_width"`
	VHeaderWidth int       `json:"vheader_width"`
	CellWidth    int       `json:"cell_width"`
	CellHeight   int       `json:"cell_height"`
	DateChunks   int       `json:"date_chunks"`
	GridWidth    int       `json:"grid_width"`
	Adjusted     int       `json:"adjusted"`

	Months []monthDTO  `json:"months"`
	Days   []dayDTO    `json:"days"`
	Header []headerDTO `json:"header"`
	Rows   []rowDTO    `json:"rows"`
}

type monthDTO struct {
	Label  string `json:"label"`
	Offset int    `json:"offset"`
	Width  int    `json:"width"`
}

type dayDTO struct {
	Date    time.Time `json:"date"`
	Label   string    `json:"label"`
	Offset  int       `json:"offset"`
	Width   int       `json:"width"`
	Weekend bool      `json:"weekend,omitempty"`
}

type headerDTO struct {
	Names       []string `json:"names"`
	SeriesLines []string `json:"series"`
	Height      int      `json:"height"`
}

type rowDTO struct {
	Key    string     `json:"key,omitempty"`
	Height int        `json:"height"`
	Blocks []blockDTO `json:"blocks"`
}

type blockDTO struct {
	gantt.BlockRef
	Left         int             `json:"left"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	OffsetChunks int             `json:"offset_chunks"`
	WidthChunks  int             `json:"width_chunks"`
	Days         int             `json:"days"`
	Title        string          `json:"title"`
	Color        string          `json:"color,omitempty"`
	Data         model.BlockData `json:"data"`
}

type gestureRequest struct {
	Kind   string `json:"kind"`
	Group  int    `json:"group"`
	Series int    `json:"series"`
}

type gestureResponse struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	State    string         `json:"state"`
	Ref      gantt.BlockRef `json:"ref"`
	Origin   gantt.Geometry `json:"origin"`
	Geometry gantt.Geometry `json:"geometry"`
}

type commitResponse struct {
	Data  model.BlockData `json:"data"`
	Chart chartResponse   `json:"chart"`
}

type slideWidthRequest struct {
	Width int `json:"width"`
}

func newChartResponse(c *gantt.Chart) chartResponse {
	opts := c.Options()
	resp := chartResponse{
		Start:        c.Grid.Start,
		End:          c.Grid.End,
		Width:        c.Width(),
		SlideWidth:   opts.SlideWidth,
		VHeaderWidth: opts.VHeaderWidth,
		CellWidth:    opts.CellWidth,
		CellHeight:   opts.CellHeight,
		DateChunks:   c.Grid.DateChunks,
		GridWidth:    c.Grid.Width,
		Adjusted:     c.Adjusted,
		Months:       make([]monthDTO, 0, len(c.Grid.Months)),
		Days:         make([]dayDTO, 0, len(c.Grid.Days)),
		Header:       make([]headerDTO, 0, len(c.Header)),
		Rows:         make([]rowDTO, 0, len(c.Rows)),
	}
	for _, m := range c.Grid.Months {
		resp.Months = append(resp.Months, monthDTO{Label: m.Label, Offset: m.Offset, Width: m.Width})
	}
	for _, d := range c.Grid.Days {
		resp.Days = append(resp.Days, dayDTO{Date: d.Date, Label: d.Label, Offset: d.Offset, Width: d.Width, Weekend: d.Weekend})
	}
	for _, h := range c.Header {
		resp.Header = append(resp.Header, headerDTO{Names: h.Names, SeriesLines: h.SeriesLines, Height: h.Height})
	}
	for _, r := range c.Rows {
		row := rowDTO{Key: r.Key, Height: r.Height, Blocks: make([]blockDTO, 0, len(r.Blocks))}
		for _, b := range r.Blocks {
			row.Blocks = append(row.Blocks, blockDTO{
				BlockRef:     b.Ref,
				Left:         b.Left,
				Width:        b.Width,
				Height:       b.Height,
				OffsetChunks: b.OffsetChunks,
				WidthChunks:  b.WidthChunks,
				Days:         b.Days,
				Title:        b.Title,
				Color:        b.Color,
				Data:         b.Data,
			})
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp
}

func newGestureResponse(id string, g *gantt.Gesture) gestureResponse {
	return gestureResponse{
		ID:       id,
		Kind:     g.Kind().String(),
		State:    g.State().String(),
		Ref:      g.Ref(),
		Origin:   g.Origin(),
		Geometry: g.Geometry(),
	}
}

// handlePage renders the interactive chart page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer

	s.mu.Lock()
	err := render.Page(&buf, s.chart, render.PageOptions{StaticPrefix: "/static", Interactive: true})
	s.mu.Unlock()

	if err != nil {
		appLog.Error("render page failed", err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleChart(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	resp := newChartResponse(s.chart)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// handleClick reports a block click.
//
// POST /api/blocks/click {"group": 0, "series": 1}
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var ref gantt.BlockRef
	if err := readJSON(w, r, &ref); err != nil {
		writeChartError(w, err)
		return
	}

	s.mu.Lock()
	data, err := s.chart.Click(ref)
	s.mu.Unlock()

	if err != nil {
		writeChartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleGestureBegin opens a drag or resize on a block.
//
// POST /api/gestures {"kind": "drag", "group": 0, "series": 1}
func (s *Server) handleGestureBegin(w http.ResponseWriter, r *http.Request) {
	var req gestureRequest
	if err := readJSON(w, r, &req); err != nil {
		writeChartError(w, err)
		return
	}
	kind, err := gantt.ParseGestureKind(req.Kind)
	if err != nil {
		writeChartError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneGesturesLocked()
	g, err := s.chart.Begin(kind, gantt.BlockRef{Group: req.Group, Series: req.Series})
	if err != nil {
		writeChartError(w, err)
		return
	}
	id := uuid.New().String()
	s.gestures[id] = &gestureEntry{g: g, started: s.now()}

	appLog.Debug("gesture started", "id", id, "kind", kind, "group", req.Group, "series", req.Series)
	writeJSON(w, http.StatusCreated, newGestureResponse(id, g))
}

// handleGestureUpdate records the pointer's latest block geometry.
//
// PATCH /api/gestures/{id} {"left": 40, "width": 51}
func (s *Server) handleGestureUpdate(w http.ResponseWriter, r *http.Request) {
	var geom gantt.Geometry
	if err := readJSON(w, r, &geom); err != nil {
		writeChartError(w, err)
		return
	}
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.gestures[id]
	if !ok {
		writeChartError(w, fmt.Errorf("%w: gesture %s", gantt.ErrNotFound, id))
		return
	}
	if err := e.g.Update(geom); err != nil {
		writeChartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGestureResponse(id, e.g))
}

// handleGestureCommit applies the gesture to the series and returns the
// updated block data together with the new layout.
func (s *Server) handleGestureCommit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.gestures[id]
	if !ok {
		writeChartError(w, fmt.Errorf("%w: gesture %s", gantt.ErrNotFound, id))
		return
	}
	delete(s.gestures, id)

	data, err := e.g.Commit()
	if err != nil {
		writeChartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commitResponse{Data: data, Chart: newChartResponse(s.chart)})
}

// handleGestureAbort drops a gesture without touching the series.
func (s *Server) handleGestureAbort(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.gestures[id]
	if !ok {
		writeChartError(w, fmt.Errorf("%w: gesture %s", gantt.ErrNotFound, id))
		return
	}
	delete(s.gestures, id)

	if err := e.g.Abort(); err != nil {
		writeChartError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSlideWidth resizes the visible viewport.
//
// PUT /api/slide-width {"width": 600}
func (s *Server) handleSlideWidth(w http.ResponseWriter, r *http.Request) {
	var req slideWidthRequest
	if err := readJSON(w, r, &req); err != nil {
		writeChartError(w, err)
		return
	}

	s.mu.Lock()
	err := s.chart.SetSlideWidth(req.Width)
	var resp chartResponse
	if err == nil {
		resp = newChartResponse(s.chart)
	}
	s.mu.Unlock()

	if err != nil {
		writeChartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// pruneGesturesLocked drops gestures older than gestureTTL. s.mu must be
// held.
func (s *Server) pruneGesturesLocked() {
	now := s.now()
	for id, e := range s.gestures {
		if now.Sub(e.started) > gestureTTL {
			_ = e.g.Abort()
			delete(s.gestures, id)
			appLog.Debug("gesture expired", "id", id)
		}
	}
}
