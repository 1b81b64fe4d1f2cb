package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/televent/core/recurrence"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	data := []byte("timezone: Europe/Berlin\nrecurrence:\n  max_window_days: 30\n  max_occurrences: 250\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", cfg.DefaultTimezone)
	assert.Equal(t, 30, cfg.Recurrence.MaxWindowDays)
	assert.Equal(t, 250, cfg.Recurrence.MaxOccurrences)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: Asia/Singapore\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Singapore", cfg.DefaultTimezone)
	assert.Equal(t, Default().Recurrence, cfg.Recurrence)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: [\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLimits_Clamp(t *testing.T) {
	limits := Limits{MaxWindowDays: 30}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("unbounded window gets an end", func(t *testing.T) {
		w := limits.Clamp(recurrence.Window{Start: start})
		assert.True(t, w.End.Equal(start.AddDate(0, 0, 30)))
	})

	t.Run("oversized window is cut", func(t *testing.T) {
		w := limits.Clamp(recurrence.Window{Start: start, End: start.AddDate(1, 0, 0)})
		assert.True(t, w.End.Equal(start.AddDate(0, 0, 30)))
	})

	t.Run("window inside the cap is untouched", func(t *testing.T) {
		end := start.Add(24 * time.Hour)
		w := limits.Clamp(recurrence.Window{Start: start, End: end})
		assert.True(t, w.End.Equal(end))
	})

	t.Run("zero cap disables clamping", func(t *testing.T) {
		w := Limits{}.Clamp(recurrence.Window{Start: start})
		assert.True(t, w.Unbounded())
	})
}
