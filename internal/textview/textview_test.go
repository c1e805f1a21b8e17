package textview

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"ganttview/internal/gantt"
	"ganttview/internal/model"
)

func TestRender(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	groups := []model.Group{{ID: "1", Name: "Feature", Series: []model.Series{
		{Name: "Planned", Start: day(1), End: day(3)},
		{Name: "Actual", Start: day(5), End: day(5)},
	}}}
	c, err := gantt.New(groups, gantt.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	out := Render(c, Options{LabelWidth: 12})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Jan/2024") {
		t.Errorf("month line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "Feature: Pl ") {
		t.Errorf("row label = %q", lines[2])
	}

	row := []rune(lines[2])[12:]
	if string(row[:3]) != "███" || row[3] == blockRune {
		t.Errorf("planned row = %q", string(row))
	}
	row = []rune(lines[3])[12:]
	if row[4] != blockRune || row[3] == blockRune || row[5] == blockRune {
		t.Errorf("actual row = %q", string(row))
	}
	// 2024-01-06 is a Saturday.
	if row[5] != weekendRune {
		t.Errorf("weekend cell = %q", row[5])
	}
}
