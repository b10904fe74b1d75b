package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stockgraph/core/internal/charts"
	"github.com/stockgraph/core/internal/filter"
	"github.com/stockgraph/core/internal/forces"
	"github.com/stockgraph/core/internal/render"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var node, sector, highlight, output string
	opts := render.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render a view of the graph to an SVG or PNG file",
		Example: `  stockgraph snapshot -o graph.svg
  stockgraph snapshot --sector Technology --labels -o tech.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.graph(cmd.Context())
			if err != nil {
				return err
			}

			model := forces.New(g, a.preset)
			view := filter.Apply(g, focusOf(node, sector))
			if highlight != "" {
				h := filter.HighlightSector(g, highlight, model.HighlightOpacity)
				opts.Highlight = &h
			}

			if err := render.Save(output, view, model, opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(fmt.Sprintf("wrote %s (%d nodes, %d links)",
				output, len(view.Nodes), len(view.Links))))
			return nil
		},
	}
	focusFlags(cmd, &node, &sector)
	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Output file (.svg or .png)")
	flags.StringVar(&highlight, "highlight", "", "Dim every sector but this one")
	flags.StringVar(&opts.Title, "title", "", "Snapshot title")
	flags.BoolVar(&opts.Labels, "labels", false, "Draw node and link labels")
	flags.Float64Var(&opts.Layout.Width, "width", opts.Layout.Width, "Canvas width")
	flags.Float64Var(&opts.Layout.Height, "height", opts.Layout.Height, "Canvas height")
	flags.IntVar(&opts.Layout.Iterations, "iterations", opts.Layout.Iterations, "Layout iterations")
	flags.Uint64Var(&opts.Layout.Seed, "seed", opts.Layout.Seed, "Layout seed")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newChartCmd(a *app) *cobra.Command {
	var input, output string
	opts := charts.DefaultOptions()

	cmd := &cobra.Command{
		Use:       "chart KIND",
		Short:     "Render a scatter, bar or line chart",
		Long:      "Render a chart of a JSON point list, or of the sample dataset when no input is given.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(charts.KindScatter), string(charts.KindBar), string(charts.KindLine)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := charts.ParseKind(args[0])
			if err != nil {
				return err
			}
			if opts.Format, err = render.FormatFromPath(output); err != nil {
				return err
			}

			data := charts.SampleDataset()
			if input != "" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("open chart data: %w", err)
				}
				defer f.Close()
				if data, err = charts.ReadDataset(f); err != nil {
					return err
				}
			}

			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create chart file: %w", err)
			}
			if err := charts.Render(f, kind, data, opts); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close chart file: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(fmt.Sprintf("wrote %s %s chart to %s", kind, opts.Format, output)))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Output file (.svg or .png)")
	flags.StringVarP(&input, "input", "i", "", "JSON file with a list of points")
	flags.StringVar(&opts.Title, "title", "", "Chart title")
	flags.IntVar(&opts.Width, "width", opts.Width, "Chart width")
	flags.IntVar(&opts.Height, "height", opts.Height, "Chart height")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
