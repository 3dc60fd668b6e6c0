package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"genreshift/internal/config"
	"genreshift/internal/genres"
	"genreshift/internal/ledger"
	"genreshift/internal/logging"
)

func newTransformCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transform <artifact-id> [genre]",
		Short: "Transform an uploaded artifact into a target genre",
		Long: "Transform an uploaded artifact into a target genre. When the genre is " +
			"omitted, the default enhancement chain is applied. Completed " +
			"transformations are reused instead of re-running ffmpeg.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				artifactID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid artifact id %q", args[0])
				}
				genre := genres.DefaultID
				if len(args) > 1 {
					genre = args[1]
				}

				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("configure logging: %w", err)
				}
				orchestrator := ctx.newOrchestrator(cfg, store, logger)

				out := cmd.OutOrStdout()
				if isTerminal(out) {
					fmt.Fprintf(out, "Transforming artifact %d...\n", artifactID)
				}

				result, err := orchestrator.EnsureTransformed(cmd.Context(), artifactID, genre)
				if err != nil {
					return err
				}

				if result.CacheHit {
					fmt.Fprintln(out, "Reused existing transformation")
				}
				if result.Request.Outcome == ledger.OutcomeFallbackCopy {
					fmt.Fprintln(out, "Transformation degraded; delivered verbatim copy")
				}
				fmt.Fprintf(out, "Request %d (%s) %s\n", result.Request.ID, result.Request.Genre, result.Request.Status)
				fmt.Fprintf(out, "Output: %s\n", result.Request.OutputPath)
				return nil
			})
		},
	}
}
