// Package config loads service configuration from the environment and dataset
// presets from an optional YAML file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the API server configuration. Command-line flags override the
// environment.
type Config struct {
	Addr        string        `env:"STOCKGRAPH_ADDR"                envDefault:":8080"`
	DataPath    string        `env:"STOCKGRAPH_DATA_PATH"`
	Preset      string        `env:"STOCKGRAPH_PRESET"              envDefault:"correlation"`
	PresetsFile string        `env:"STOCKGRAPH_PRESETS_FILE"`
	CORSOrigin  string        `env:"STOCKGRAPH_CORS_ALLOWED_ORIGIN" envDefault:"*"`
	Watch       bool          `env:"STOCKGRAPH_WATCH"`
	StrictFocus bool          `env:"STOCKGRAPH_STRICT_FOCUS"`
	Verbose     bool          `env:"STOCKGRAPH_VERBOSE"`
	LoadTimeout time.Duration `env:"STOCKGRAPH_LOAD_TIMEOUT"        envDefault:"30s"`
	SessionTTL  time.Duration `env:"STOCKGRAPH_SESSION_TTL"         envDefault:"1h"`
	OTelEnabled bool          `env:"STOCKGRAPH_OTEL_ENABLED"        envDefault:"true"`
	OTelURL     string        `env:"STOCKGRAPH_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ResolvePreset returns the configured preset, loading the presets file when one
// is set. An empty DataPath falls back to the preset's data path.
func (c *Config) ResolvePreset() (Preset, error) {
	presets, err := LoadPresetsFile(c.PresetsFile)
	if err != nil {
		return Preset{}, err
	}

	preset, err := presets.Get(c.Preset)
	if err != nil {
		return Preset{}, err
	}

	if c.DataPath == "" {
		c.DataPath = preset.DataPath
	}
	return preset, nil
}
