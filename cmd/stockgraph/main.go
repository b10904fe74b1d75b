// Package main is the stockgraph command line tool. It inspects graph documents,
// renders snapshots and charts, builds documents from price histories and
// exports graphs to SQLite.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stockgraph/core/internal/config"
	"github.com/stockgraph/core/internal/loader"
	"github.com/stockgraph/core/internal/logging"
	"github.com/stockgraph/core/internal/models"
)

// app carries the state shared by every subcommand.
type app struct {
	dataPath    string
	presetName  string
	presetsFile string
	verbose     bool

	logger  *zap.Logger
	presets config.Presets
	preset  config.Preset
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "stockgraph",
		Short: "Inspect, render and build stock sector graphs",
		Long: `stockgraph works with stock graph documents: nodes are tickers grouped by
sector, links carry a correlation or beta value.

Flags default to the STOCKGRAPH_* environment variables used by stockgraph-api.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.dataPath, "data", "d", "", "Graph document path or URL (default: the preset's data path)")
	flags.StringVarP(&a.presetName, "preset", "p", config.PresetCorrelation, "Dataset preset")
	flags.StringVar(&a.presetsFile, "presets-file", "", "YAML file with extra dataset presets")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(
		newViewCmd(a),
		newStatsCmd(a),
		newForcesCmd(a),
		newTooltipCmd(a),
		newSnapshotCmd(a),
		newChartCmd(a),
		newCorrelateCmd(a),
		newExportCmd(a),
		newPresetsCmd(a),
	)
	return cmd
}

// init fills unset flags from the environment, then resolves the preset.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.ParseEnv()
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if !changed("data") {
		a.dataPath = cfg.DataPath
	}
	if !changed("preset") {
		a.presetName = cfg.Preset
	}
	if !changed("presets-file") {
		a.presetsFile = cfg.PresetsFile
	}
	if !changed("verbose") {
		a.verbose = cfg.Verbose
	}

	a.logger, err = logging.New(a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.presets, err = config.LoadPresetsFile(a.presetsFile)
	if err != nil {
		return err
	}
	a.preset, err = a.presets.Get(a.presetName)
	if err != nil {
		return err
	}
	if a.dataPath == "" {
		a.dataPath = a.preset.DataPath
	}
	return nil
}

// graph loads the configured graph document.
func (a *app) graph(ctx context.Context) (*models.Graph, error) {
	ld := loader.New(
		loader.WithLogger(a.logger),
		loader.WithDefaultLinkValue(a.preset.DefaultLinkValue),
	)
	return ld.Load(ctx, a.dataPath)
}

// focusFlags registers --node and --sector on cmd.
func focusFlags(cmd *cobra.Command, node, sector *string) {
	cmd.Flags().StringVar(node, "node", "", "Focus on a node and its direct neighbors")
	cmd.Flags().StringVar(sector, "sector", "", "Focus on a sector and its direct neighbors")
	cmd.MarkFlagsMutuallyExclusive("node", "sector")
}

func focusOf(node, sector string) models.Focus {
	switch {
	case node != "":
		return models.NodeFocus(node)
	case sector != "":
		return models.SectorFocus(sector)
	default:
		return models.Focus{}
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
