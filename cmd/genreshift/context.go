package main

import (
	"strings"
	"sync"

	"log/slog"

	"genreshift/internal/config"
	"genreshift/internal/genres"
	"genreshift/internal/ledger"
	"genreshift/internal/logging"
	"genreshift/internal/notifications"
	"genreshift/internal/services/ffmpeg"
	"genreshift/internal/transform"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	registry *genres.Registry
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		registry:   genres.NewRegistry(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the ledger for the duration of fn and closes it afterwards.
func (c *commandContext) withStore(fn func(*config.Config, *ledger.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

// newOrchestrator wires a transformation orchestrator against the shared
// store using the configured ffmpeg binary.
func (c *commandContext) newOrchestrator(cfg *config.Config, store *ledger.Store, logger *slog.Logger) *transform.Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	processor := ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.FFmpegBinary()))
	notifier := notifications.NewService(cfg)
	return transform.NewOrchestrator(cfg, store, c.registry, processor, notifier, logger)
}
