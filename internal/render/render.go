// Package render turns a laid-out chart into ganttview HTML.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"ganttview/internal/gantt"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"px":    func(n int) string { return fmt.Sprintf("%dpx", n) },
	"minus": func(a, b int) int { return a - b },
}).ParseFS(templateFS, "templates/*.html"))

// PageOptions controls the standalone page wrapper.
type PageOptions struct {
	Title string
	// StaticPrefix is where ganttview.css/ganttview.js are served from.
	StaticPrefix string
	// Interactive includes the gesture script.
	Interactive bool
}

// View is the template model of one chart.
type View struct {
	Width        int
	SlideWidth   int
	VHeaderWidth int
	CellWidth    int
	GridWidth    int
	Chunked      bool

	Clickable bool
	Draggable bool
	Resizable bool

	Header []HeaderView
	Months []gantt.MonthHeader
	Days   []gantt.DayColumn
	Rows   []RowView
}

type HeaderView struct {
	Height     int
	LineHeight int
	Lines      []HeaderLine
}

// HeaderLine is a group title followed by its series label(s).
type HeaderLine struct {
	Name   string
	Series []string
}

type RowView struct {
	Height int
	Cells  []CellView
	Blocks []BlockView
}

type CellView struct {
	Width   int
	Weekend bool
}

type BlockView struct {
	Group  int
	Series int
	Left   int
	Width  int
	Height int
	Title  string
	Text   string
	Color  string
	Data   string
}

// NewView snapshots c into a template model.
func NewView(c *gantt.Chart) (View, error) {
	opts := c.Options()
	v := View{
		Width:        c.Width(),
		SlideWidth:   opts.SlideWidth,
		VHeaderWidth: opts.VHeaderWidth,
		CellWidth:    opts.CellWidth,
		GridWidth:    c.Grid.Width,
		Chunked:      c.Grid.DateChunks > 1,
		Clickable:    opts.Behavior.Clickable,
		Draggable:    opts.Behavior.Draggable,
		Resizable:    opts.Behavior.Resizable,
		Months:       c.Grid.Months,
		Days:         c.Grid.Days,
	}

	for _, h := range c.Header {
		hv := HeaderView{Height: h.Height, LineHeight: h.LineHeight}
		if len(h.Names) == 1 {
			hv.Lines = []HeaderLine{{Name: h.Names[0], Series: h.SeriesLines}}
		} else {
			// Merged titles: one series label per group name.
			for i, n := range h.Names {
				line := HeaderLine{Name: n}
				if i < len(h.SeriesLines) {
					line.Series = []string{h.SeriesLines[i]}
				}
				hv.Lines = append(hv.Lines, line)
			}
		}
		v.Header = append(v.Header, hv)
	}

	cells := gridCells(c.Grid)
	for _, r := range c.Rows {
		rv := RowView{Height: r.Height, Cells: cells}
		for _, b := range r.Blocks {
			data, err := json.Marshal(b.Data)
			if err != nil {
				return View{}, fmt.Errorf("render: block %d/%d data: %w", b.Ref.Group, b.Ref.Series, err)
			}
			rv.Blocks = append(rv.Blocks, BlockView{
				Group:  b.Ref.Group,
				Series: b.Ref.Series,
				Left:   b.Left,
				Width:  b.Width,
				Height: b.Height,
				Title:  b.Title,
				Text:   fmt.Sprint(b.Days),
				Color:  b.Color,
				Data:   string(data),
			})
		}
		v.Rows = append(v.Rows, rv)
	}
	return v, nil
}

func gridCells(g gantt.Grid) []CellView {
	out := make([]CellView, 0, g.Columns())
	for _, d := range g.Days {
		if len(d.Chunks) == 0 {
			out = append(out, CellView{Width: d.Width, Weekend: d.Weekend})
			continue
		}
		for _, ch := range d.Chunks {
			out = append(out, CellView{Width: ch.Width, Weekend: d.Weekend})
		}
	}
	return out
}

// Chart writes the chart markup fragment.
func Chart(w io.Writer, c *gantt.Chart) error {
	v, err := NewView(c)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "chart.html", v)
}

// Page writes a full HTML document around the chart.
func Page(w io.Writer, c *gantt.Chart, opts PageOptions) error {
	v, err := NewView(c)
	if err != nil {
		return err
	}
	if opts.Title == "" {
		opts.Title = "ganttview"
	}
	return tmpl.ExecuteTemplate(w, "page.html", struct {
		PageOptions
		Chart View
	}{opts, v})
}
