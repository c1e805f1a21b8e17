package ics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//ganttview//test//EN
X-WR-CALNAME:Release plan
BEGIN:VEVENT
UID:kickoff@example
DTSTAMP:20240101T000000Z
DTSTART:20240102T090000Z
DTEND:20240102T100000Z
SUMMARY:Kickoff
LOCATION:Room 1
END:VEVENT
BEGIN:VEVENT
UID:standup@example
DTSTAMP:20240101T000000Z
DTSTART:20240101T080000Z
DTEND:20240101T081500Z
RRULE:FREQ=DAILY;COUNT=5
EXDATE:20240103T080000Z
SUMMARY:Standup
END:VEVENT
BEGIN:VEVENT
UID:standup@example
DTSTAMP:20240101T000000Z
RECURRENCE-ID:20240104T080000Z
DTSTART:20240104T110000Z
DTEND:20240104T111500Z
SUMMARY:Standup (moved)
END:VEVENT
BEGIN:VEVENT
UID:freeze@example
DTSTAMP:20240101T000000Z
DTSTART;VALUE=DATE:20240108
DTEND;VALUE=DATE:20240111
SUMMARY:Code freeze
END:VEVENT
END:VCALENDAR
`

func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func window() ExpandConfig {
	return ExpandConfig{
		DisplayLocation: time.UTC,
		RangeStart:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestParseICS(t *testing.T) {
	cal, err := ParseICS(Source{ID: "plan"}, crlf(sampleICS))
	if err != nil {
		t.Fatal(err)
	}
	if cal.Name != "Release plan" {
		t.Errorf("name = %q", cal.Name)
	}
	if len(cal.Events) != 4 {
		t.Fatalf("events = %d, want 4", len(cal.Events))
	}

	var overrides, allDay int
	for _, ev := range cal.Events {
		if ev.IsOverride {
			overrides++
		}
		if ev.AllDay {
			allDay++
		}
	}
	if overrides != 1 || allDay != 1 {
		t.Errorf("overrides = %d, all-day = %d", overrides, allDay)
	}
}

func TestParseICSEmpty(t *testing.T) {
	if _, err := ParseICS(Source{}, nil); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestExpandOccurrences(t *testing.T) {
	cal, err := ParseICS(Source{ID: "plan"}, crlf(sampleICS))
	if err != nil {
		t.Fatal(err)
	}
	res, err := ExpandOccurrences(cal.Events, window())
	if err != nil {
		t.Fatal(err)
	}

	var standups []Occurrence
	for _, o := range res.Occurrences {
		if o.UID == "standup@example" {
			standups = append(standups, o)
		}
	}
	// 5 daily instances minus one EXDATE.
	if len(standups) != 4 {
		t.Fatalf("standups = %d, want 4", len(standups))
	}
	for _, o := range standups {
		if o.Start.Day() == 3 {
			t.Errorf("excluded date expanded: %v", o.Start)
		}
		if o.Start.Day() == 4 && (o.Start.Hour() != 11 || o.Summary != "Standup (moved)") {
			t.Errorf("override not applied: %+v", o)
		}
	}

	for i := 1; i < len(res.Occurrences); i++ {
		if res.Occurrences[i].Start.Before(res.Occurrences[i-1].Start) {
			t.Fatalf("occurrences not sorted at %d", i)
		}
	}
}

func TestExpandWindowFilters(t *testing.T) {
	cal, err := ParseICS(Source{ID: "plan"}, crlf(sampleICS))
	if err != nil {
		t.Fatal(err)
	}
	cfg := window()
	cfg.RangeStart = time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	res, err := ExpandOccurrences(cal.Events, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Occurrences) != 1 || res.Occurrences[0].UID != "freeze@example" {
		t.Fatalf("occurrences = %+v", res.Occurrences)
	}

	bad := window()
	bad.RangeEnd = bad.RangeStart.Add(-time.Hour)
	if _, err := ExpandOccurrences(cal.Events, bad); err == nil {
		t.Error("expected error for inverted window")
	}
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.ics")
	if err := os.WriteFile(path, crlf(sampleICS), 0o600); err != nil {
		t.Fatal(err)
	}

	g, err := ImportFile(path, window())
	if err != nil {
		t.Fatal(err)
	}
	if g.ID != "plan" || g.Name != "Release plan" {
		t.Errorf("group = %q/%q", g.ID, g.Name)
	}
	if len(g.Series) != 6 {
		t.Fatalf("series = %d, want 6", len(g.Series))
	}

	last := g.Series[len(g.Series)-1]
	if last.Name != "Code freeze" {
		t.Fatalf("last series = %q", last.Name)
	}
	want := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if !last.End.Equal(want) {
		t.Errorf("all-day end = %v, want inclusive %v", last.End, want)
	}
	if last.Extra["uid"] != "freeze@example" || last.Extra["all_day"] != true {
		t.Errorf("extra = %v", last.Extra)
	}

	// standup 01-01, standup 01-02, kickoff 01-02 09:00, ...
	kickoff := g.Series[2]
	if kickoff.Name != "Kickoff" || kickoff.Extra["location"] != "Room 1" {
		t.Errorf("kickoff = %+v", kickoff)
	}
}
