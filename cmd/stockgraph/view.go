package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/stockgraph/core/internal/filter"
	"github.com/stockgraph/core/internal/forces"
	"github.com/stockgraph/core/internal/models"
	"github.com/stockgraph/core/internal/tooltip"
)

var nodeColumns = []int{10, 22, 14, 10, 8}

func newViewCmd(a *app) *cobra.Command {
	var node, sector string
	var asJSON, strict bool

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the full graph or the one-hop view of a node or sector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.graph(cmd.Context())
			if err != nil {
				return err
			}

			focus := focusOf(node, sector)
			var view models.View
			if strict {
				if view, err = filter.ApplyStrict(g, focus); err != nil {
					return err
				}
			} else {
				view = filter.Apply(g, focus)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			printView(cmd.OutOrStdout(), view, forces.New(g, a.preset))
			return nil
		},
	}
	focusFlags(cmd, &node, &sector)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the view as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on an unknown node or sector")
	return cmd
}

func printView(w io.Writer, view models.View, model *forces.Model) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("View %s", view.Focus)),
		mutedStyle.Render(fmt.Sprintf("(%d nodes, %d links)", len(view.Nodes), len(view.Links))))

	if view.Empty() {
		fmt.Fprintln(w, mutedStyle.Render("No nodes match "+view.Focus.String()))
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(row(nodeColumns, "NODE", "SECTOR", "MARKET CAP", "PRICE", "DEGREE")))
	for _, n := range view.Nodes {
		fmt.Fprintln(w, row(nodeColumns,
			n.ID,
			swatch(model.Color(n.Sector))+" "+n.Sector,
			humanize.CommafWithDigits(n.MarketCap, 2),
			n.Price.String(),
			strconv.Itoa(model.Degree(n.ID)),
		))
	}

	if len(view.Links) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(row([]int{24, 8}, "LINK", "VALUE")))
	for _, l := range view.Links {
		fmt.Fprintln(w, row([]int{24, 8}, l.Source+" <-> "+l.Target, valueStyle.Render(tooltip.LinkLabel(l))))
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.graph(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), g.Stats)
			}

			w := cmd.OutOrStdout()
			model := forces.New(g, a.preset)
			fmt.Fprintln(w, titleStyle.Render("Graph "+a.dataPath), mutedStyle.Render("preset "+a.preset.Name))
			fmt.Fprintf(w, "Nodes:   %s\n", humanize.Comma(int64(g.Stats.TotalNodes)))
			fmt.Fprintf(w, "Links:   %s\n", humanize.Comma(int64(g.Stats.TotalLinks)))
			fmt.Fprintf(w, "Dropped: %s\n", humanize.Comma(int64(g.Stats.DroppedLinks)))
			fmt.Fprintln(w)
			fmt.Fprintln(w, headerStyle.Render(row([]int{24, 8}, "SECTOR", "NODES")))
			for _, c := range model.Colors() {
				fmt.Fprintln(w, row([]int{24, 8},
					swatch(c.Color)+" "+c.Sector,
					strconv.Itoa(g.Stats.NodesBySector[c.Sector]),
				))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stats as JSON")
	return cmd
}

func newForcesCmd(a *app) *cobra.Command {
	var node, sector, mode string
	arrangement := forces.DefaultArrangement(forces.ModeDefault)

	cmd := &cobra.Command{
		Use:   "forces",
		Short: "Print the force layout configuration of a view as JSON",
		Example: `  stockgraph forces --mode untangle
  stockgraph forces -p beta --mode sector --width 1200 --height 800`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if arrangement.Mode, err = forces.ParseMode(mode); err != nil {
				return err
			}
			g, err := a.graph(cmd.Context())
			if err != nil {
				return err
			}
			view := filter.Apply(g, focusOf(node, sector))
			return writeJSON(cmd.OutOrStdout(), forces.New(g, a.preset).Arrange(view, arrangement))
		},
	}
	focusFlags(cmd, &node, &sector)
	flags := cmd.Flags()
	flags.StringVar(&mode, "mode", string(forces.ModeDefault), "Force mode: default, untangle or sector")
	flags.Float64Var(&arrangement.Width, "width", arrangement.Width, "Canvas width for sector anchors")
	flags.Float64Var(&arrangement.Height, "height", arrangement.Height, "Canvas height for sector anchors")
	flags.Uint64Var(&arrangement.Seed, "seed", arrangement.Seed, "Seed for the sector grid order")
	return cmd
}

func newTooltipCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tooltip ID",
		Short: "Print the hover tooltip of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.graph(cmd.Context())
			if err != nil {
				return err
			}
			n, ok := g.Node(args[0])
			if !ok {
				return fmt.Errorf("%w: node %q", filter.ErrNotFound, args[0])
			}

			data := tooltip.NodeData(n, forces.New(g, a.preset).Degree(n.ID), a.preset.ShowDegree)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), data)
			}
			if err := tooltip.Write(cmd.OutOrStdout(), data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tooltip data as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
