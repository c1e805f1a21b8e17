package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chart.CellWidth != 21 || !cfg.Chart.ShowWeekends {
		t.Errorf("defaults not applied: %+v", cfg.Chart)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
listen: ":9000"
chart:
  date_chunks: 4
  group_by_series: true
  behavior:
    clickable: true
    draggable: false
    resizable: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.Chart.DateChunks != 4 || !cfg.Chart.GroupBySeries {
		t.Errorf("chart = %+v", cfg.Chart)
	}
	if cfg.Chart.CellHeight != 31 || cfg.Timezone != "UTC" {
		t.Errorf("missing keys lost their defaults: %+v", cfg)
	}

	opts := cfg.Chart.Options()
	if opts.Behavior.Draggable || !opts.Behavior.Resizable {
		t.Errorf("behavior = %+v", opts.Behavior)
	}
}

func TestNormalizeFixesBadValues(t *testing.T) {
	cfg := &Config{LogFormat: "xml", RateLimit: RateLimitConfig{PerMinute: 10}}
	cfg.Chart.DateChunks = -2
	cfg.Normalize()

	if cfg.Chart.DateChunks != 1 {
		t.Errorf("date_chunks = %d", cfg.Chart.DateChunks)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("log_format = %q", cfg.LogFormat)
	}
	if cfg.RateLimit.Burst != 1 {
		t.Errorf("burst = %d", cfg.RateLimit.Burst)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.BasicAuth = &BasicAuthConfig{Username: "u", Password: "p"}
	cfg.Chart.GroupByID = true

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.BasicAuth == nil || back.BasicAuth.Username != "u" || !back.Chart.GroupByID {
		t.Fatalf("round trip lost fields: %+v", back)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("expected error")
	}
}
