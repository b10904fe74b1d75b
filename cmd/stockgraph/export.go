package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockgraph/core/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the graph to a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.graph(cmd.Context())
			if err != nil {
				return err
			}
			if err := export.SQLite(cmd.Context(), output, g); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(fmt.Sprintf("exported %d nodes and %d links to %s",
				len(g.Nodes), len(g.Links), output)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "SQLite database file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
