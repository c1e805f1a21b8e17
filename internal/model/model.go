package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ganttview/internal/dateutil"
)

// Group is one labeled entry of the schedule dataset. Series order matters:
// overlap resolution and drag cascades walk it front to back.
type Group struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Series []Series `json:"series"`
}

// Series is a single dated bar. A zero Start or End means the date is
// missing; layout treats such a series as zero offset / one day wide.
type Series struct {
	Name  string
	Start time.Time
	End   time.Time
	Color string

	// Extra keeps caller-defined fields so they can be handed back in
	// interaction callbacks.
	Extra map[string]any
}

// BlockData is the payload handed to click/drag/resize callbacks: the
// parent group's id and name merged with the series fields.
type BlockData map[string]any

// Duration is End-Start, or 0 when either date is missing.
func (s Series) Duration() time.Duration {
	if s.Start.IsZero() || s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// HasDates reports whether both dates are usable for layout.
func (s Series) HasDates() bool {
	return !dateutil.IsUnset(s.Start) && !dateutil.IsUnset(s.End)
}

// BlockData merges g and s the same way the chart exposes them to callbacks:
// group id/name first, then series fields on top.
func (g Group) BlockData(s Series) BlockData {
	out := BlockData{"id": g.ID, "name": g.Name}
	for k, v := range s.Extra {
		out[k] = v
	}
	if s.Name != "" {
		out["name"] = s.Name
	}
	if !s.Start.IsZero() {
		out["start"] = s.Start
	}
	if !s.End.IsZero() {
		out["end"] = s.End
	}
	if s.Color != "" {
		out["color"] = s.Color
	}
	return out
}

// MarshalJSON flattens Extra next to the known fields.
func (s Series) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(s.Extra)+4)
	for k, v := range s.Extra {
		m[k] = v
	}
	m["name"] = s.Name
	if !s.Start.IsZero() {
		m["start"] = s.Start.Format(time.RFC3339)
	}
	if !s.End.IsZero() {
		m["end"] = s.End.Format(time.RFC3339)
	}
	if s.Color != "" {
		m["color"] = s.Color
	}
	return json.Marshal(m)
}

// UnmarshalJSON parses dates leniently (in UTC) and keeps unknown fields in
// Extra. Use DecodeSeries for a different location.
func (s *Series) UnmarshalJSON(data []byte) error {
	return s.decode(data, time.UTC)
}

// DecodeSeries is UnmarshalJSON with dates interpreted in loc.
func DecodeSeries(data []byte, loc *time.Location) (Series, error) {
	var s Series
	err := s.decode(data, loc)
	return s, err
}

func (s *Series) decode(data []byte, loc *time.Location) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Series{}
	for k, v := range raw {
		switch k {
		case "name":
			s.Name = stringValue(v)
		case "color":
			s.Color = stringValue(v)
		case "start", "end":
			t, err := dateutil.ParseInLocation(stringValue(v), loc)
			if err != nil {
				return fmt.Errorf("series %q: %s: %w", s.Name, k, err)
			}
			if k == "start" {
				s.Start = t
			} else {
				s.End = t
			}
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]any)
			}
			s.Extra[k] = v
		}
	}
	return nil
}

// rawGroup is a group as it appears in input files, before ids are
// normalized and series dates parsed.
type rawGroup struct {
	ID     json.RawMessage   `json:"id"`
	Name   any               `json:"name"`
	Series []json.RawMessage `json:"series"`
}

// UnmarshalJSON accepts numeric or string ids.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw rawGroup
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return g.fill(raw, time.UTC)
}

// DecodeGroups parses a JSON array of groups with dates interpreted in loc.
func DecodeGroups(data []byte, loc *time.Location) ([]Group, error) {
	var raws []rawGroup
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	out := make([]Group, len(raws))
	for i, r := range raws {
		if err := out[i].fill(r, loc); err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
	}
	return out, nil
}

func (g *Group) fill(raw rawGroup, loc *time.Location) error {
	g.ID = rawID(raw.ID)
	g.Name = stringValue(raw.Name)
	g.Series = make([]Series, 0, len(raw.Series))
	for _, rs := range raw.Series {
		s, err := DecodeSeries(rs, loc)
		if err != nil {
			return err
		}
		g.Series = append(g.Series, s)
	}
	return nil
}

func rawID(id json.RawMessage) string {
	v := strings.TrimSpace(string(id))
	if v == "" || v == "null" {
		return ""
	}
	if unq, err := strconv.Unquote(v); err == nil {
		return unq
	}
	return v
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
