// Package textview draws a chart as terminal text, one character per grid
// column.
package textview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ganttview/internal/gantt"
)

const (
	blockRune   = '█'
	weekendRune = '·'
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true)
	monthStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	weekendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	defaultBlock = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

// Options tweaks the text layout.
type Options struct {
	// LabelWidth is the width of the row title column. Defaults to 20.
	LabelWidth int
}

// Render returns the chart as a multi-line string: a month line, a day line
// and one line per row.
func Render(c *gantt.Chart, opts Options) string {
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = 20
	}
	pad := strings.Repeat(" ", opts.LabelWidth)
	cols := c.Grid.Columns()

	var b strings.Builder
	b.WriteString(pad)
	b.WriteString(monthStyle.Render(monthLine(c.Grid, cols)))
	b.WriteByte('\n')
	b.WriteString(pad)
	b.WriteString(dayLine(c.Grid, cols))
	b.WriteByte('\n')

	labels := rowLabels(c)
	for i, r := range c.Rows {
		b.WriteString(labelStyle.Render(fit(labels[i], opts.LabelWidth)))
		b.WriteString(rowLine(c.Grid, r, cols))
		b.WriteByte('\n')
	}
	return b.String()
}

func monthLine(g gantt.Grid, cols int) string {
	line := []rune(strings.Repeat(" ", cols))
	for _, m := range g.Months {
		at := m.Offset / g.CellWidth
		span := m.Width / g.CellWidth
		for i, r := range []rune(m.Label) {
			if i >= span || at+i >= cols {
				break
			}
			line[at+i] = r
		}
	}
	return string(line)
}

// dayLine marks the first column of each day with the last digit of the day
// of month.
func dayLine(g gantt.Grid, cols int) string {
	line := []rune(strings.Repeat(" ", cols))
	for _, d := range g.Days {
		at := d.Offset / g.CellWidth
		if at < cols {
			line[at] = rune('0' + d.Date.Day()%10)
		}
	}
	return string(line)
}

func rowLine(g gantt.Grid, r gantt.Row, cols int) string {
	cells := make([]string, cols)
	for _, d := range g.Days {
		first := d.Offset / g.CellWidth
		for i := 0; i < g.DateChunks && first+i < cols; i++ {
			if d.Weekend {
				cells[first+i] = weekendStyle.Render(string(weekendRune))
			} else {
				cells[first+i] = " "
			}
		}
	}
	for _, bl := range r.Blocks {
		st := defaultBlock
		if bl.Color != "" {
			st = lipgloss.NewStyle().Foreground(lipgloss.Color(bl.Color))
		}
		mark := st.Render(string(blockRune))
		for i := bl.OffsetChunks; i < bl.OffsetChunks+bl.WidthChunks && i < cols; i++ {
			if i >= 0 {
				cells[i] = mark
			}
		}
	}
	return strings.Join(cells, "")
}

// rowLabels names each row after its header entry: "group: series" per
// series row, or the joined group names for grouped rows.
func rowLabels(c *gantt.Chart) []string {
	out := make([]string, 0, len(c.Rows))
	grouped := c.Options().GroupBySeries
	for _, h := range c.Header {
		if grouped {
			out = append(out, strings.Join(h.Names, " + "))
			continue
		}
		for i, s := range h.SeriesLines {
			if i == 0 {
				out = append(out, h.Names[0]+": "+s)
			} else {
				out = append(out, "  "+s)
			}
		}
	}
	for len(out) < len(c.Rows) {
		out = append(out, "")
	}
	return out
}

// fit cuts or pads s to exactly n runes, keeping one trailing space.
func fit(s string, n int) string {
	r := []rune(s)
	if len(r) > n-1 {
		r = r[:max(n-1, 0)]
	}
	return string(r) + strings.Repeat(" ", n-len(r))
}
