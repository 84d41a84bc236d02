// Package config provides YAML-based configuration loading for the snake
// front-ends: board size, tick cadence, presets, servers and storage.
package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/grid"
)

// ErrInvalid is wrapped by Validate and ApplyPreset failures.
var ErrInvalid = errors.New("config: invalid")

// Config is the full application configuration.
type Config struct {
	Board   BoardConfig       `yaml:"board"`
	Timing  TimingConfig      `yaml:"timing"`
	Presets map[string]Preset `yaml:"presets"`
	Server  ServerConfig      `yaml:"server"`
	Storage StorageConfig     `yaml:"storage"`
	Log     LogConfig         `yaml:"log"`
}

// BoardConfig defines the board dimensions, walls included.
type BoardConfig struct {
	Rows     int `yaml:"rows"`
	Cols     int `yaml:"cols"`
	StartRow int `yaml:"start_row"` // 0 = engine default
	StartCol int `yaml:"start_col"` // 0 = engine default
}

// Start returns the configured start cell, or nil for the engine default.
func (b BoardConfig) Start() *grid.Coord {
	if b.StartRow == 0 && b.StartCol == 0 {
		return nil
	}
	c := grid.C(b.StartRow, b.StartCol)
	return &c
}

// TimingConfig defines the fixed tick cadence.
type TimingConfig struct {
	TickMS int `yaml:"tick_ms"`
}

// TickInterval returns the tick period.
func (t TimingConfig) TickInterval() time.Duration {
	return time.Duration(t.TickMS) * time.Millisecond
}

// Preset is a named rectangular board size.
type Preset struct {
	Rows        int    `yaml:"rows"`
	Cols        int    `yaml:"cols"`
	Description string `yaml:"description"`
}

// ServerConfig holds listen addresses for the SSH and web front-ends.
type ServerConfig struct {
	SSHAddr        string `yaml:"ssh_addr"`
	HostKey        string `yaml:"host_key"`
	IdleTimeoutMin int    `yaml:"idle_timeout_min"`
	WebAddr        string `yaml:"web_addr"`
}

// IdleTimeout returns the SSH idle timeout.
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMin) * time.Minute
}

// StorageConfig controls replay persistence.
type StorageConfig struct {
	DBPath        string `yaml:"db_path"`
	RecordReplays bool   `yaml:"record_replays"`
}

// LogConfig controls logging verbosity.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ParsedLevel returns the charmbracelet/log level, defaulting to info.
func (l LogConfig) ParsedLevel() log.Level {
	if l.Level == "" {
		return log.InfoLevel
	}
	lvl, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// ApplyPreset replaces the board size with the named preset.
func (c *Config) ApplyPreset(name string) error {
	p, ok := c.Presets[name]
	if !ok {
		return fmt.Errorf("%w: unknown preset %q", ErrInvalid, name)
	}
	c.Board.Rows = p.Rows
	c.Board.Cols = p.Cols
	return nil
}

// PresetNames returns the preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the values the front-ends depend on.
func (c *Config) Validate() error {
	if c.Board.Rows < grid.MinSize || c.Board.Cols < grid.MinSize {
		return fmt.Errorf("%w: board %dx%d smaller than %dx%d", ErrInvalid, c.Board.Rows, c.Board.Cols, grid.MinSize, grid.MinSize)
	}
	if start := c.Board.Start(); start != nil {
		if start.Row < 1 || start.Row > c.Board.Rows-2 || start.Col < 1 || start.Col > c.Board.Cols-2 {
			return fmt.Errorf("%w: start %v outside the board interior", ErrInvalid, *start)
		}
	}
	if c.Timing.TickMS <= 0 {
		return fmt.Errorf("%w: timing.tick_ms must be positive, got %d", ErrInvalid, c.Timing.TickMS)
	}
	for name, p := range c.Presets {
		if p.Rows < grid.MinSize || p.Cols < grid.MinSize {
			return fmt.Errorf("%w: preset %q is %dx%d", ErrInvalid, name, p.Rows, p.Cols)
		}
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
		}
	}
	return nil
}
