package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const jsonData = `[
  {"id": 1, "name": "Feature 1", "series": [
    {"name": "Planned", "start": "2024-01-01", "end": "2024-01-03", "color": "#f0f0f0"},
    {"name": "Actual", "start": "2024-01-02", "end": "2024-01-05", "owner": "kim"}
  ]},
  {"id": "f2", "name": "Feature 2", "series": []}
]`

const yamlData = `
- id: 1
  name: Feature 1
  series:
    - name: Planned
      start: 2024-01-01
      end: "2024-01-03"
      owner: kim
`

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFileSourceJSON(t *testing.T) {
	p := write(t, t.TempDir(), "data.json", jsonData)
	groups, err := FileSource{Path: p}.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 || groups[0].ID != "1" || groups[1].ID != "f2" {
		t.Fatalf("groups = %+v", groups)
	}
	s := groups[0].Series[1]
	if s.Extra["owner"] != "kim" {
		t.Errorf("extra = %v", s.Extra)
	}
	if !s.End.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", s.End)
	}
}

func TestFileSourceYAML(t *testing.T) {
	p := write(t, t.TempDir(), "data.yaml", yamlData)
	groups, err := FileSource{Path: p}.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || len(groups[0].Series) != 1 {
		t.Fatalf("groups = %+v", groups)
	}
	s := groups[0].Series[0]
	if s.Name != "Planned" || s.Extra["owner"] != "kim" {
		t.Errorf("series = %+v", s)
	}
	if !s.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", s.Start)
	}
}

func TestFileSourceLocation(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	p := write(t, t.TempDir(), "data.json", jsonData)
	groups, err := FileSource{Path: p, Location: loc}.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := groups[0].Series[0].Start; got.Location() != loc || got.Hour() != 0 {
		t.Errorf("start = %v", got)
	}
}

func TestFileSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.json", jsonData)
	write(t, dir, "b.yml", yamlData)
	write(t, dir, "notes.txt", "ignored")

	groups, err := FileSource{Path: dir}.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := (FileSource{}).Load(context.Background()); err == nil {
		t.Error("expected error for empty path")
	}
	p := write(t, dir, "data.csv", "a,b")
	if _, err := (FileSource{Path: p}).Load(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v", err)
	}
	p = write(t, dir, "bad.json", `{"id": 1}`)
	if _, err := (FileSource{Path: p}).Load(context.Background()); err == nil {
		t.Error("expected decode error for non-array JSON")
	}
}

func TestStaticCopies(t *testing.T) {
	src, err := DecodeJSON([]byte(jsonData), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	st := Static(src)
	a, _ := st.Load(context.Background())
	a[0].Series[0].Name = "changed"
	a[0].Series[1].Extra["owner"] = "lee"

	b, _ := st.Load(context.Background())
	if b[0].Series[0].Name != "Planned" {
		t.Fatal("Static.Load returned shared series")
	}
	if got := b[0].Series[1].Extra["owner"]; got != "kim" {
		t.Errorf("Static.Load shared Extra: owner = %v", got)
	}
}
