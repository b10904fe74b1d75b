package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stockgraph/core/internal/correlation"
)

func newCorrelateCmd(a *app) *cobra.Command {
	var input, output string
	opts := correlation.DefaultBuildOptions()

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Build a graph document from price histories",
		Long: `Build a graph document from a YAML or JSON price history file.

The correlation preset links tickers by the Pearson correlation of their daily
returns. The beta preset links them by the correlation of their rolling betas
against the file's market series.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := correlation.ReadInput(input)
			if err != nil {
				return err
			}

			opts.Preset = a.preset.Name
			opts.Market = in.Market
			doc, err := correlation.BuildDocument(cmd.Context(), in.Series, opts)
			if err != nil {
				return err
			}
			a.logger.Info("document built",
				zap.Int("nodes", len(doc.Nodes)),
				zap.Int("links", len(doc.Links)),
				zap.String("preset", opts.Preset),
			)

			if output == "" {
				return writeJSON(cmd.OutOrStdout(), doc)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create document: %w", err)
			}
			if err := writeJSON(f, doc); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "", "Price history file (.yaml, .yml or .json)")
	flags.StringVarP(&output, "output", "o", "", "Output document (default: stdout)")
	flags.IntVar(&opts.Window, "window", opts.Window, "Rolling beta window")
	flags.Float64Var(&opts.Threshold, "threshold", opts.Threshold, "Drop links with |value| below this")
	flags.Float64Var(&opts.OutlierZ, "outlier-z", opts.OutlierZ, "Drop return pairs beyond this z-score (0 keeps all)")
	flags.IntVar(&opts.Workers, "workers", 0, "Pairs computed at once (default: GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
