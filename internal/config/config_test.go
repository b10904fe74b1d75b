package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ParseEnv()

		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, PresetCorrelation, cfg.Preset)
		assert.Equal(t, "*", cfg.CORSOrigin)
		assert.Equal(t, 30*time.Second, cfg.LoadTimeout)
		assert.Equal(t, time.Hour, cfg.SessionTTL)
		assert.False(t, cfg.Watch)
		assert.False(t, cfg.StrictFocus)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("STOCKGRAPH_ADDR", ":9090")
		t.Setenv("STOCKGRAPH_PRESET", "beta")
		t.Setenv("STOCKGRAPH_WATCH", "true")
		t.Setenv("STOCKGRAPH_LOAD_TIMEOUT", "5s")

		cfg, err := ParseEnv()

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, PresetBeta, cfg.Preset)
		assert.True(t, cfg.Watch)
		assert.Equal(t, 5*time.Second, cfg.LoadTimeout)
	})

	t.Run("invalid duration fails", func(t *testing.T) {
		t.Setenv("STOCKGRAPH_LOAD_TIMEOUT", "soon")

		_, err := ParseEnv()

		assert.ErrorContains(t, err, "parse env")
	})
}

func TestResolvePreset(t *testing.T) {
	t.Run("fills data path from the preset", func(t *testing.T) {
		cfg := Config{Preset: PresetBeta}

		preset, err := cfg.ResolvePreset()

		require.NoError(t, err)
		assert.Equal(t, PresetBeta, preset.Name)
		assert.Equal(t, "data/beta_stock_graph_fair.json", cfg.DataPath)
	})

	t.Run("keeps an explicit data path", func(t *testing.T) {
		cfg := Config{Preset: PresetCorrelation, DataPath: "graph.json"}

		_, err := cfg.ResolvePreset()

		require.NoError(t, err)
		assert.Equal(t, "graph.json", cfg.DataPath)
	})

	t.Run("unknown preset", func(t *testing.T) {
		cfg := Config{Preset: "gamma"}

		_, err := cfg.ResolvePreset()

		assert.ErrorIs(t, err, ErrUnknownPreset)
	})
}

func TestPresets(t *testing.T) {
	t.Run("built-in variants disagree on missing values", func(t *testing.T) {
		assert.Equal(t, 1.0, Correlation().DefaultLinkValue)
		assert.Equal(t, 0.0, Beta().DefaultLinkValue)
	})

	t.Run("names are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"beta", "correlation"}, DefaultPresets().Names())
	})

	t.Run("empty path returns built-ins", func(t *testing.T) {
		presets, err := LoadPresetsFile("")

		require.NoError(t, err)
		assert.Len(t, presets, 2)
	})

	t.Run("file overrides fields of a built-in preset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.yaml")
		content := `presets:
  - name: correlation
    default_link_value: 0.25
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		presets, err := LoadPresetsFile(path)

		require.NoError(t, err)
		p, err := presets.Get(PresetCorrelation)
		require.NoError(t, err)
		assert.Equal(t, 0.25, p.DefaultLinkValue)
		assert.Equal(t, 40.0, p.DistanceSpan)
	})

	t.Run("file adds a new preset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.yaml")
		content := `presets:
  - name: sparse
    default_link_value: 0.5
    base_distance: 30
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		presets, err := LoadPresetsFile(path)

		require.NoError(t, err)
		p, err := presets.Get("sparse")
		require.NoError(t, err)
		assert.Equal(t, 30.0, p.BaseDistance)
	})

	t.Run("preset without a name is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.yaml")
		require.NoError(t, os.WriteFile(path, []byte("presets:\n  - base_distance: 1\n"), 0o644))

		_, err := LoadPresetsFile(path)

		assert.ErrorContains(t, err, "missing name")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPresetsFile(filepath.Join(t.TempDir(), "nope.yaml"))

		assert.ErrorContains(t, err, "read presets file")
	})

	t.Run("write then load keeps values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.yaml")

		require.NoError(t, WritePresetsFile(path, DefaultPresets()))
		presets, err := LoadPresetsFile(path)

		require.NoError(t, err)
		assert.Equal(t, Beta(), presets[PresetBeta])
	})
}
