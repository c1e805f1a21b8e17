package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ganttview/internal/gantt"
)

// NOTE: Config is persisted as YAML. Load creates a default file on first
// run; Save writes atomically with 0600 permissions.

// BasicAuthConfig holds HTTP Basic Auth credentials for the chart UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// BehaviorConfig toggles block interactions.
type BehaviorConfig struct {
	Clickable bool `yaml:"clickable" json:"clickable"`
	Draggable bool `yaml:"draggable" json:"draggable"`
	Resizable bool `yaml:"resizable" json:"resizable"`
}

// ChartConfig mirrors gantt.Options for the YAML file.
type ChartConfig struct {
	ShowWeekends bool `yaml:"show_weekends" json:"show_weekends"`

	// DateChunks splits each day into N columns (1 = whole days).
	DateChunks int `yaml:"date_chunks" json:"date_chunks"`

	CellWidth    int `yaml:"cell_width" json:"cell_width"`
	CellHeight   int `yaml:"cell_height" json:"cell_height"`
	SlideWidth   int `yaml:"slide_width" json:"slide_width"`
	VHeaderWidth int `yaml:"vheader_width" json:"vheader_width"`

	GroupBySeries          bool `yaml:"group_by_series" json:"group_by_series"`
	GroupByID              bool `yaml:"group_by_id" json:"group_by_id"`
	GroupByIDDrawAllTitles bool `yaml:"group_by_id_draw_all_titles" json:"group_by_id_draw_all_titles"`

	// Cascade shifts the following series of a group after a drag/resize.
	Cascade bool `yaml:"cascade" json:"cascade"`

	Behavior BehaviorConfig `yaml:"behavior" json:"behavior"`
}

// RateLimitConfig bounds API requests per client.
type RateLimitConfig struct {
	// PerMinute is the sustained request rate; 0 disables limiting.
	PerMinute int `yaml:"per_minute" json:"per_minute"`
	Burst     int `yaml:"burst" json:"burst"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the chart UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone used to interpret dates without an offset.
	Timezone string `yaml:"timezone" json:"timezone"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// Data is the local schedule file (.json, .yaml/.yml or .ics).
	Data string `yaml:"data" json:"data"`

	// RefreshCron re-reads Data on a cron schedule (e.g. "*/15 * * * *").
	// Empty disables reloading.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// ICSWindowDays bounds recurrence expansion for .ics data, counted
	// from today in both directions.
	ICSWindowDays int `yaml:"ics_window_days" json:"ics_window_days"`

	Chart ChartConfig `yaml:"chart" json:"chart"`

	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultChartConfig matches gantt.DefaultOptions.
func DefaultChartConfig() ChartConfig {
	d := gantt.DefaultOptions()
	return ChartConfig{
		ShowWeekends: d.ShowWeekends,
		DateChunks:   d.DateChunks,
		CellWidth:    d.CellWidth,
		CellHeight:   d.CellHeight,
		SlideWidth:   d.SlideWidth,
		VHeaderWidth: d.VHeaderWidth,
		Cascade:      d.Cascade,
		Behavior: BehaviorConfig{
			Clickable: d.Behavior.Clickable,
			Draggable: d.Behavior.Draggable,
			Resizable: d.Behavior.Resizable,
		},
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        "127.0.0.1:8080",
		Timezone:      "UTC",
		LogLevel:      "info",
		LogFormat:     "console",
		Data:          "./schedule.json",
		RefreshCron:   "",
		ICSWindowDays: 90,
		Chart:         DefaultChartConfig(),
		RateLimit:     RateLimitConfig{PerMinute: 600, Burst: 60},
		BasicAuth:     nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly. Booleans are taken as
// written.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		c.LogFormat = "console"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ICSWindowDays <= 0 {
		c.ICSWindowDays = 90
	}
	if c.RateLimit.PerMinute < 0 {
		c.RateLimit.PerMinute = 0
	}
	if c.RateLimit.PerMinute > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 1
	}

	d := gantt.DefaultOptions()
	ch := &c.Chart
	if ch.DateChunks <= 0 {
		ch.DateChunks = d.DateChunks
	}
	if ch.CellWidth <= 0 {
		ch.CellWidth = d.CellWidth
	}
	if ch.CellHeight <= 0 {
		ch.CellHeight = d.CellHeight
	}
	if ch.SlideWidth <= 0 {
		ch.SlideWidth = d.SlideWidth
	}
	if ch.VHeaderWidth <= 0 {
		ch.VHeaderWidth = d.VHeaderWidth
	}
}

// Options converts the chart section into layout options. Callbacks are
// left for the caller to attach.
func (c ChartConfig) Options() gantt.Options {
	return gantt.Options{
		ShowWeekends:           c.ShowWeekends,
		DateChunks:             c.DateChunks,
		CellWidth:              c.CellWidth,
		CellHeight:             c.CellHeight,
		SlideWidth:             c.SlideWidth,
		VHeaderWidth:           c.VHeaderWidth,
		GroupBySeries:          c.GroupBySeries,
		GroupByID:              c.GroupByID,
		GroupByIDDrawAllTitles: c.GroupByIDDrawAllTitles,
		Cascade:                c.Cascade,
		Behavior: gantt.Behavior{
			Clickable: c.Behavior.Clickable,
			Draggable: c.Behavior.Draggable,
			Resizable: c.Behavior.Resizable,
		},
	}.WithDefaults()
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there with
//     0600 perms and returned.
//   - Otherwise the YAML is read on top of the defaults and normalized, so
//     keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the given configuration to the specified path through a temp
// file in the same directory, then renames it into place with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".ganttview-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
