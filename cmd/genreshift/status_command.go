package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genreshift/internal/config"
	"genreshift/internal/deps"
	"genreshift/internal/ledger"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ledger totals and external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Ledger: %s\n", store.Path())
				fmt.Fprintf(out, "Uploads: %s\n", cfg.Paths.UploadDir)
				fmt.Fprintf(out, "Outputs: %s\n\n", cfg.Paths.OutputDir)

				rows := [][]string{
					{"Pending", fmt.Sprintf("%d", health.Pending)},
					{"Processing", fmt.Sprintf("%d", health.Processing)},
					{"Completed", fmt.Sprintf("%d", health.Completed)},
					{"Failed", fmt.Sprintf("%d", health.Failed)},
					{"Fallback copies", fmt.Sprintf("%d", health.Fallbacks)},
					{"Total", fmt.Sprintf("%d", health.Total)},
				}
				fmt.Fprintln(out, renderTable([]tableColumn{{Title: "Requests"}, {Title: "Count", Right: true}}, rows))

				depRows := make([][]string, 0, 2)
				for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
					available := "missing"
					if status.Available {
						available = "ok"
					}
					detail := status.Detail
					if detail == "" && status.Available {
						detail = status.Command
					}
					depRows = append(depRows, []string{status.Name, available, detail})
				}
				fmt.Fprintln(out, renderTable([]tableColumn{{Title: "Dependency"}, {Title: "State"}, {Title: "Detail"}}, depRows))
				return nil
			})
		},
	}
}
