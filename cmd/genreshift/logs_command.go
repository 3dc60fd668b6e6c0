package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"genreshift/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the service log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, "genreshift.log")
			out := cmd.OutOrStdout()
			err = logs.Tail(cmd.Context(), path, logs.TailOptions{Limit: limit, Follow: follow}, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing appended log lines")
	cmd.Flags().IntVarP(&limit, "lines", "n", 100, "Number of trailing lines to print")
	return cmd
}
