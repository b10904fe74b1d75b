package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockgraph/core/internal/config"
)

var presetColumns = []int{14, 34, 10, 10}

func newPresetsCmd(a *app) *cobra.Command {
	var write string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List dataset presets or write them to a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write != "" {
				if err := config.WritePresetsFile(write, a.presets); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("wrote "+write))
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, headerStyle.Render(row(presetColumns, "NAME", "DATA", "DEFAULT", "SIGNED")))
			for _, name := range a.presets.Names() {
				p := a.presets[name]
				marker := " "
				if name == a.preset.Name {
					marker = "*"
				}
				fmt.Fprintln(w, row(presetColumns,
					marker+name,
					p.DataPath,
					fmt.Sprintf("%g", p.DefaultLinkValue),
					fmt.Sprintf("%t", p.AbsoluteValues),
				))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&write, "write", "", "Write the presets to this YAML file")
	return cmd
}
