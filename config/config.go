// Package config loads the engine's guard configuration. Recurrence
// expansion itself imposes no internal cap, so the embedding system
// applies these limits at its boundary.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/televent/core/recurrence"
)

// Limits bounds recurrence expansion at the embedding boundary.
type Limits struct {
	// MaxWindowDays caps how many days an expansion window may reach
	// past its start. Zero disables the cap.
	MaxWindowDays int `yaml:"max_window_days"`
	// MaxOccurrences caps how many occurrences a collaborator should
	// collect per expansion. Zero disables the cap. The iterator stays
	// lazy; this is advisory for callers that materialize results.
	MaxOccurrences int `yaml:"max_occurrences"`
}

// Config is the engine configuration.
type Config struct {
	// DefaultTimezone is used when neither event nor calendar names one.
	DefaultTimezone string `yaml:"timezone"`
	Recurrence      Limits `yaml:"recurrence"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultTimezone: "UTC",
		Recurrence: Limits{
			MaxWindowDays:  730,
			MaxOccurrences: 1000,
		},
	}
}

// Load reads a YAML configuration file, filling unset fields from
// Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "UTC"
	}
	return cfg, nil
}

// Clamp bounds a window by MaxWindowDays. An unbounded or oversized
// window is cut to start plus the cap; a window without a start is
// measured from now.
func (l Limits) Clamp(w recurrence.Window) recurrence.Window {
	if l.MaxWindowDays <= 0 {
		return w
	}
	base := w.Start
	if base.IsZero() {
		base = time.Now().UTC()
	}
	limit := base.AddDate(0, 0, l.MaxWindowDays)
	if w.End.IsZero() || w.End.After(limit) {
		w.End = limit
	}
	return w
}
