// Package main starts the stock graph HTTP server. It loads the graph named by
// the configured preset, serves views, forces, sessions and snapshots over it,
// and optionally reloads the graph when the data file changes.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stockgraph/core/internal/config"
	"github.com/stockgraph/core/internal/logging"
)

var (
	cfg    config.Config
	logger *zap.Logger

	// Flag values, applied over the environment only when set.
	addr        string
	dataPath    string
	preset      string
	presetsFile string
	corsOrigin  string
	watch       bool
	strictFocus bool
	verbose     bool
	loadTimeout time.Duration
	sessionTTL  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "stockgraph-api",
	Short: "Serve the stock sector graph over HTTP",
	Long: `stockgraph-api loads a stock graph document and serves filtered views,
force configuration, viewing sessions and rendered snapshots as JSON and images.

Every flag can also be set through its STOCKGRAPH_* environment variable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.ParseEnv()
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg)

		logger, err = logging.New(cfg.Verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := run(cmd.Context(), cfg, logger); err != nil {
			logger.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&addr, "addr", ":8080", "Listen address")
	flags.StringVar(&dataPath, "data", "", "Graph document path or URL (default: the preset's data path)")
	flags.StringVarP(&preset, "preset", "p", config.PresetCorrelation, "Dataset preset")
	flags.StringVar(&presetsFile, "presets-file", "", "YAML file with extra dataset presets")
	flags.StringVar(&corsOrigin, "cors-origin", "*", "Allowed CORS origin")
	flags.BoolVar(&watch, "watch", false, "Reload the graph when the data file changes")
	flags.BoolVar(&strictFocus, "strict-focus", false, "Answer 404 for unknown node or sector focus")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.DurationVar(&loadTimeout, "load-timeout", 30*time.Second, "Graph load timeout")
	flags.DurationVar(&sessionTTL, "session-ttl", time.Hour, "Drop sessions older than this")
}

// applyFlags overrides cfg with every flag the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("addr") {
		cfg.Addr = addr
	}
	if changed("data") {
		cfg.DataPath = dataPath
	}
	if changed("preset") {
		cfg.Preset = preset
	}
	if changed("presets-file") {
		cfg.PresetsFile = presetsFile
	}
	if changed("cors-origin") {
		cfg.CORSOrigin = corsOrigin
	}
	if changed("watch") {
		cfg.Watch = watch
	}
	if changed("strict-focus") {
		cfg.StrictFocus = strictFocus
	}
	if changed("verbose") {
		cfg.Verbose = verbose
	}
	if changed("load-timeout") {
		cfg.LoadTimeout = loadTimeout
	}
	if changed("session-ttl") {
		cfg.SessionTTL = sessionTTL
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
