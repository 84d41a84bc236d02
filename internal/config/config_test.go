package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Parse(defaultSnakeYAML)
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded YAML and Default() disagree:\n%+v\n%+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadCustomPathMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("board:\n  rows: 10\n  cols: 14\ntiming:\n  tick_ms: 80\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Board.Rows != 10 || cfg.Board.Cols != 14 {
		t.Errorf("expected 10x14 board, got %dx%d", cfg.Board.Rows, cfg.Board.Cols)
	}
	if cfg.Timing.TickInterval() != 80*time.Millisecond {
		t.Errorf("expected 80ms ticks, got %v", cfg.Timing.TickInterval())
	}
	// Untouched sections keep their defaults.
	if cfg.Server.WebAddr != ":8080" {
		t.Errorf("expected default web address, got %q", cfg.Server.WebAddr)
	}
	if len(cfg.Presets) != 3 {
		t.Errorf("expected default presets, got %d", len(cfg.Presets))
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("board:\n  rows: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"tiny board", func(c *Config) { c.Board.Rows = 2 }, false},
		{"zero tick", func(c *Config) { c.Timing.TickMS = 0 }, false},
		{"start on wall", func(c *Config) { c.Board.StartRow, c.Board.StartCol = 0, 5 }, false},
		{"start interior", func(c *Config) { c.Board.StartRow, c.Board.StartCol = 5, 5 }, true},
		{"start past edge", func(c *Config) { c.Board.StartRow, c.Board.StartCol = 29, 5 }, false},
		{"bad preset", func(c *Config) { c.Presets["bad"] = Preset{Rows: 1, Cols: 9} }, false},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, false},
	}

	for _, tc := range testCases {
		cfg := Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tc.name, err)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyPreset("wide"); err != nil {
		t.Fatalf("ApplyPreset() failed: %v", err)
	}
	if cfg.Board.Rows != 20 || cfg.Board.Cols != 48 {
		t.Errorf("expected 20x48, got %dx%d", cfg.Board.Rows, cfg.Board.Cols)
	}
	if err := cfg.ApplyPreset("huge"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown preset, got %v", err)
	}

	names := cfg.PresetNames()
	if !reflect.DeepEqual(names, []string{"classic", "small", "wide"}) {
		t.Errorf("unexpected preset order %v", names)
	}
}

func TestParsedLevel(t *testing.T) {
	if got := (LogConfig{Level: "debug"}).ParsedLevel(); got != log.DebugLevel {
		t.Errorf("expected debug, got %v", got)
	}
	if got := (LogConfig{}).ParsedLevel(); got != log.InfoLevel {
		t.Errorf("expected info default, got %v", got)
	}
}
