package dateutil

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", day(2024, 1, 1), day(2024, 1, 1), 0},
		{"two days", day(2024, 1, 1), day(2024, 1, 3), 2},
		{"leap february", day(2024, 2, 28), day(2024, 3, 1), 2},
		{"year boundary", day(2023, 12, 31), day(2024, 1, 1), 1},
		{"reverse is zero", day(2024, 1, 3), day(2024, 1, 1), 0},
		{"missing start", time.Time{}, day(2024, 1, 1), 0},
		{"missing end", day(2024, 1, 1), time.Time{}, 0},
		{"sentinel low year", day(3801, 1, 1), day(2024, 1, 1), 0},
		{"sentinel high year", day(2024, 1, 1), day(9999, 12, 31), 0},
		{"real 1901 date", day(1901, 1, 1), day(1901, 1, 3), 2},
		{"partial day rounds up", day(2024, 1, 1), day(2024, 1, 2).Add(time.Hour), 2},
	}
	for _, tc := range cases {
		if got := DaysBetween(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: DaysBetween = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	a := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	b := time.Date(2024, 3, 12, 0, 0, 0, 0, loc)
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("DaysBetween across spring-forward = %d, want 3", got)
	}
}

func TestIsWeekend(t *testing.T) {
	// 2024-01-06 is a Saturday.
	want := map[int]bool{1: false, 2: false, 3: false, 4: false, 5: false, 6: true, 7: true}
	for d, w := range want {
		if got := IsWeekend(day(2024, 1, d)); got != w {
			t.Errorf("IsWeekend(2024-01-%02d) = %v, want %v", d, got, w)
		}
	}
}

func TestChunkDuration(t *testing.T) {
	if got := ChunkDuration(4); got != 6*time.Hour {
		t.Fatalf("ChunkDuration(4) = %v", got)
	}
	if got := ChunkDuration(0); got != Day {
		t.Fatalf("ChunkDuration(0) = %v", got)
	}
}

func TestParse(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-03":           day(2024, 1, 3),
		"2024/01/03":           day(2024, 1, 3),
		"01/03/2024":           day(2024, 1, 3),
		"2024-01-03T10:30:00Z": time.Date(2024, 1, 3, 10, 30, 0, 0, time.UTC),
		"2024-01-03 10:30":     time.Date(2024, 1, 3, 10, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Errorf("Parse(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Parse(%q) = %v, want %v", in, got, want)
		}
	}

	if got, err := Parse("  "); err != nil || !got.IsZero() {
		t.Errorf("Parse(blank) = %v, %v; want zero, nil", got, err)
	}
	if _, err := Parse("not a date"); err == nil {
		t.Error("Parse(garbage) should fail")
	}
}
