package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genreshift/internal/genres"
)

func newGenresCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "genres",
		Short:       "List the available genre effects",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(ctx.registry.IDs()))
			for _, id := range ctx.registry.IDs() {
				rows = append(rows, []string{id, genres.DisplayName(id)})
			}
			rows = append(rows, []string{genres.DefaultID, "Default enhancement (fallback)"})

			table := renderTable([]tableColumn{{Title: "ID"}, {Title: "Name"}}, rows)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
