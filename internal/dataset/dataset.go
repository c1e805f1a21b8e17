// Package dataset loads chart groups from local files.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ganttview/internal/ics"
	appLog "ganttview/internal/log"
	"ganttview/internal/model"
)

// ErrUnsupported is returned for files whose extension has no decoder.
var ErrUnsupported = errors.New("unsupported dataset format")

// Source produces a fresh copy of the dataset on every call.
type Source interface {
	Load(ctx context.Context) ([]model.Group, error)
}

// FileSource reads a .json, .yaml/.yml or .ics file, or every such file in
// a directory (in name order).
type FileSource struct {
	Path string

	// Location interprets dates without an offset. Nil means UTC.
	Location *time.Location

	// ICSWindow bounds recurrence expansion to [now-ICSWindow, now+ICSWindow].
	ICSWindow time.Duration

	// Now is used for the .ics window; nil means time.Now.
	Now func() time.Time
}

func (s FileSource) Load(ctx context.Context) ([]model.Group, error) {
	if s.Path == "" {
		return nil, errors.New("dataset path is empty")
	}
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return s.loadFile(s.Path)
	}

	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, err
	}
	var out []model.Group
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		groups, err := s.loadFile(filepath.Join(s.Path, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, groups...)
	}
	appLog.Debug("dataset directory loaded", "path", s.Path, "groups", len(out))
	return out, nil
}

// Supported reports whether name has a known dataset extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml", ".ics":
		return true
	}
	return false
}

func (s FileSource) loadFile(path string) ([]model.Group, error) {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".ics" {
		g, err := ics.ImportFile(path, s.icsWindow(loc))
		if err != nil {
			return nil, err
		}
		return []model.Group{g}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext {
	case ".json":
		return DecodeJSON(data, loc)
	case ".yaml", ".yml":
		return DecodeYAML(data, loc)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

func (s FileSource) icsWindow(loc *time.Location) ics.ExpandConfig {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	w := s.ICSWindow
	if w <= 0 {
		w = 90 * 24 * time.Hour
	}
	t := now()
	return ics.ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      t.Add(-w),
		RangeEnd:        t.Add(w),
	}
}

// DecodeJSON parses a JSON array of groups.
func DecodeJSON(data []byte, loc *time.Location) ([]model.Group, error) {
	groups, err := model.DecodeGroups(data, loc)
	if err != nil {
		return nil, fmt.Errorf("decode json dataset: %w", err)
	}
	return groups, nil
}

// DecodeYAML parses a YAML sequence of groups with the same shape as the
// JSON form.
func DecodeYAML(data []byte, loc *time.Location) ([]model.Group, error) {
	var raw []any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml dataset: %w", err)
	}
	// Re-encode through JSON so both formats share one decoder.
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("decode yaml dataset: %w", err)
	}
	return DecodeJSON(js, loc)
}

// Static serves a fixed dataset, handing out a deep copy on every Load so
// callers can mutate series freely.
type Static []model.Group

func (s Static) Load(context.Context) ([]model.Group, error) {
	return Clone(s), nil
}

// Clone deep-copies groups, their series slices and each series' Extra map.
// Extra values themselves are shared.
func Clone(groups []model.Group) []model.Group {
	out := make([]model.Group, len(groups))
	for i, g := range groups {
		g.Series = slices.Clone(g.Series)
		for j := range g.Series {
			g.Series[j].Extra = maps.Clone(g.Series[j].Extra)
		}
		out[i] = g
	}
	return out
}
