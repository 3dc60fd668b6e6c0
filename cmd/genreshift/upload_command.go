package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"genreshift/internal/artifacts"
	"genreshift/internal/config"
	"genreshift/internal/ledger"
	"genreshift/internal/logging"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Store a local audio file as an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				source, err := config.ExpandPath(args[0])
				if err != nil {
					return fmt.Errorf("resolve path: %w", err)
				}
				file, err := os.Open(source)
				if err != nil {
					return fmt.Errorf("open %s: %w", source, err)
				}
				defer file.Close()

				svc := artifacts.NewService(cfg, store, ctx.registry, logging.NewNop())
				contentType := mime.TypeByExtension(filepath.Ext(source))
				artifact, err := svc.Store(cmd.Context(), filepath.Base(source), contentType, file)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Stored artifact %d (%s, %s)\n", artifact.ID, artifact.OriginalName, formatSize(artifact.SizeBytes))
				if artifact.DetectedGenre != "" {
					fmt.Fprintf(out, "Detected genre hint: %s\n", artifact.DetectedGenre)
				}
				return nil
			})
		},
	}
}
