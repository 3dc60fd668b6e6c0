package main

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"

	"genreshift/internal/config"
	"genreshift/internal/ledger"
	"genreshift/internal/media/ffprobe"
)

// probeDuration reports a clip's duration via ffprobe, or 0 when the
// binary is unavailable or the file cannot be inspected.
func probeDuration(ctx context.Context, cfg *config.Config, path string) float64 {
	binary := cfg.FFprobeBinary()
	if _, err := exec.LookPath(binary); err != nil {
		return 0
	}
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		return 0
	}
	return result.DurationSeconds()
}

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and manage the transformation ledger",
	}

	ledgerCmd.AddCommand(newLedgerListCommand(ctx))
	ledgerCmd.AddCommand(newLedgerShowCommand(ctx))
	ledgerCmd.AddCommand(newLedgerClearCommand(ctx))
	ledgerCmd.AddCommand(newLedgerClearCompletedCommand(ctx))
	ledgerCmd.AddCommand(newLedgerClearFailedCommand(ctx))

	return ledgerCmd
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transformation requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				var statuses []ledger.Status
				for _, raw := range listStatuses {
					status, ok := ledger.ParseStatus(raw)
					if !ok {
						return fmt.Errorf("unknown status %q", raw)
					}
					statuses = append(statuses, status)
				}

				requests, err := store.ListRequests(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(requests) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Ledger is empty")
					return nil
				}

				rows := make([][]string, 0, len(requests))
				for _, request := range requests {
					rows = append(rows, []string{
						strconv.FormatInt(request.ID, 10),
						strconv.FormatInt(request.ArtifactID, 10),
						request.Genre,
						string(request.Status),
						string(request.Outcome),
						formatTime(request.CreatedAt),
					})
				}
				table := renderTable(
					[]tableColumn{
						{Title: "ID", Right: true},
						{Title: "Artifact", Right: true},
						{Title: "Genre"},
						{Title: "Status"},
						{Title: "Outcome"},
						{Title: "Created"},
					},
					rows,
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Filter by status (pending, processing, completed, failed)")
	return cmd
}

func newLedgerShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <request-id>",
		Short: "Show a transformation request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid request id %q", args[0])
				}
				request, err := store.GetRequest(cmd.Context(), id)
				if err != nil {
					return err
				}
				if request == nil {
					return fmt.Errorf("transform request %d not found", id)
				}

				artifact, err := store.GetArtifact(cmd.Context(), request.ArtifactID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Request:  %d\n", request.ID)
				if artifact != nil {
					fmt.Fprintf(out, "Artifact: %d (%s)\n", artifact.ID, artifact.OriginalName)
					if duration := probeDuration(cmd.Context(), cfg, artifact.Path); duration > 0 {
						fmt.Fprintf(out, "Duration: %.1fs\n", duration)
					}
				} else {
					fmt.Fprintf(out, "Artifact: %d\n", request.ArtifactID)
				}
				fmt.Fprintf(out, "Genre:    %s\n", request.Genre)
				fmt.Fprintf(out, "Status:   %s\n", request.Status)
				if request.Outcome != "" {
					fmt.Fprintf(out, "Outcome:  %s\n", request.Outcome)
				}
				if request.OutputPath != "" {
					fmt.Fprintf(out, "Output:   %s\n", request.OutputPath)
				}
				if request.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:    %s\n", request.ErrorMessage)
				}
				fmt.Fprintf(out, "Created:  %s\n", formatTime(request.CreatedAt))
				if request.FinishedAt != nil {
					fmt.Fprintf(out, "Finished: %s\n", formatTime(*request.FinishedAt))
				}
				return nil
			})
		},
	}
}

func newLedgerClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all transformation requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d request(s)\n", removed)
				return nil
			})
		},
	}
}

func newLedgerClearCompletedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove completed transformation requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				removed, err := store.ClearCompleted(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed request(s)\n", removed)
				return nil
			})
		},
	}
}

func newLedgerClearFailedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-failed",
		Short: "Remove failed transformation requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				removed, err := store.ClearFailed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d failed request(s)\n", removed)
				return nil
			})
		},
	}
}
