package ics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ganttview/internal/dateutil"
	"ganttview/internal/model"
)

// ToGroup turns the occurrences of one calendar into a chart group, one
// series per occurrence in start order. All-day occurrences end on their
// last day (inclusive) instead of the exclusive midnight after it.
func ToGroup(src Source, calName string, occ []Occurrence) model.Group {
	g := model.Group{ID: src.ID, Name: src.Name, Series: make([]model.Series, 0, len(occ))}
	if calName != "" {
		g.Name = calName
	}
	if g.Name == "" {
		g.Name = g.ID
	}

	for _, o := range occ {
		end := o.End
		if o.AllDay && end.After(o.Start) {
			end = dateutil.AddDays(end, -1)
		}
		extra := map[string]any{
			"uid":      o.UID,
			"instance": o.InstanceKey,
			"all_day":  o.AllDay,
		}
		if o.Location != "" {
			extra["location"] = o.Location
		}
		if o.Description != "" {
			extra["description"] = o.Description
		}
		g.Series = append(g.Series, model.Series{
			Name:  o.Summary,
			Start: o.Start,
			End:   end,
			Extra: extra,
		})
	}
	return g
}

// ImportFile reads an .ics file and returns its occurrences within cfg's
// window as a single group.
func ImportFile(path string, cfg ExpandConfig) (model.Group, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return model.Group{}, err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Import(Source{ID: base, Name: base, Path: path}, body, cfg)
}

// Import parses and expands body as one calendar group.
func Import(src Source, body []byte, cfg ExpandConfig) (model.Group, error) {
	cal, err := ParseICS(src, body)
	if err != nil {
		return model.Group{}, fmt.Errorf("ics %s: %w", src.ID, err)
	}
	res, err := ExpandOccurrences(cal.Events, cfg)
	if err != nil {
		return model.Group{}, fmt.Errorf("ics %s: %w", src.ID, err)
	}
	return ToGroup(src, cal.Name, res.Occurrences), nil
}
