package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"genreshift/internal/artifacts"
	"genreshift/internal/config"
	"genreshift/internal/ledger"
	"genreshift/internal/logging"
	"genreshift/internal/notifications"
	"genreshift/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("configure logging: %w", err)
				}

				lockPath := filepath.Join(cfg.Paths.LogDir, "genreshift.lock")
				lock := flock.New(lockPath)
				locked, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire lock: %w", err)
				}
				if !locked {
					return errors.New("another genreshift instance is already running")
				}
				defer func() {
					if err := lock.Unlock(); err != nil {
						logger.Warn("failed to release lock", logging.Error(err))
					}
				}()

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				// Requests stranded mid-processing by a previous crash
				// go back to pending so they can run again.
				reset, err := store.ResetStuckProcessing(runCtx)
				if err != nil {
					return fmt.Errorf("reset stuck requests: %w", err)
				}
				if reset > 0 {
					logger.Info("reset stuck transform requests", logging.Int64("count", reset))
				}

				notifier := notifications.NewService(cfg)
				artifactSvc := artifacts.NewService(cfg, store, ctx.registry, logger)
				orchestrator := ctx.newOrchestrator(cfg, store, logger)

				srv := server.New(cfg, store, ctx.registry, artifactSvc, orchestrator, notifier, logger)
				if err := srv.Start(runCtx); err != nil {
					return err
				}
				defer srv.Stop()

				fmt.Fprintf(cmd.OutOrStdout(), "Genreshift listening on %s\n", srv.Addr())
				<-runCtx.Done()
				logger.Info("shutting down")
				return nil
			})
		},
	}
}
