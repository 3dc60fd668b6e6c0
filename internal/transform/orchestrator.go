package transform

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"genreshift/internal/config"
	"genreshift/internal/fileutil"
	"genreshift/internal/genres"
	"genreshift/internal/ledger"
	"genreshift/internal/logging"
	"genreshift/internal/media/ffprobe"
	"genreshift/internal/notifications"
	"genreshift/internal/services"
	"genreshift/internal/services/ffmpeg"
)

// DurationProbe reports a clip's duration in seconds for progress reporting,
// returning 0 when unknown.
type DurationProbe func(ctx context.Context, path string) float64

// Result describes the outcome of EnsureTransformed.
type Result struct {
	Artifact *ledger.Artifact
	Request  *ledger.Request
	CacheHit bool
}

// Orchestrator drives the transformation lifecycle: cache lookup, ledger
// bookkeeping, processor invocation, and fallback delivery.
type Orchestrator struct {
	cfg       *config.Config
	store     *ledger.Store
	registry  *genres.Registry
	processor ffmpeg.Client
	notifier  notifications.Service
	probe     DurationProbe
	logger    *slog.Logger
	locks     *keyedMutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDurationProbe overrides how clip durations are measured.
func WithDurationProbe(probe DurationProbe) Option {
	return func(o *Orchestrator) {
		if probe != nil {
			o.probe = probe
		}
	}
}

// NewOrchestrator constructs the transformation orchestrator.
func NewOrchestrator(cfg *config.Config, store *ledger.Store, registry *genres.Registry, processor ffmpeg.Client, notifier notifications.Service, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		cfg:       cfg,
		store:     store,
		registry:  registry,
		processor: processor,
		notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "transform"),
		locks:     newKeyedMutex(),
	}
	o.probe = o.ffprobeDuration
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// EnsureTransformed returns a completed request whose output file holds the
// artifact rendered in the requested genre, reusing an earlier output when
// one exists. A processor failure is absorbed by delivering a verbatim copy
// of the source; input, lookup, and storage failures surface as errors.
func (o *Orchestrator) EnsureTransformed(ctx context.Context, artifactID int64, genre string) (*Result, error) {
	genre = strings.ToLower(strings.TrimSpace(genre))
	if genre == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "transform", "resolve",
			"target genre is required", nil)
	}
	ctx = services.WithGenre(services.WithArtifactID(ctx, artifactID), genre)

	spec, err := o.resolveSpec(genre)
	if err != nil {
		return nil, err
	}

	artifact, err := o.store.GetArtifact(ctx, artifactID)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "transform", "lookup", "get artifact", err)
	}
	if artifact == nil {
		return nil, services.Wrap(services.ErrNotFound, "transform", "lookup",
			fmt.Sprintf("artifact %d not found", artifactID), nil)
	}
	if !fileutil.NonEmptyFile(artifact.Path) {
		return nil, services.Wrap(services.ErrNotFound, "transform", "lookup",
			fmt.Sprintf("artifact file missing at %s", artifact.Path), nil)
	}

	unlock := o.locks.lock(fmt.Sprintf("%d|%s", artifact.ID, genre))
	defer unlock()

	if cached, err := o.store.FindCompleted(ctx, artifact.ID, genre); err != nil {
		return nil, services.Wrap(services.ErrStorage, "transform", "lookup", "find completed request", err)
	} else if cached != nil && fileutil.NonEmptyFile(cached.OutputPath) {
		o.logger.InfoContext(ctx, "reusing cached transformation",
			logging.String("output", cached.OutputPath),
			logging.String(logging.FieldEventType, "transform_cache_hit"),
		)
		return &Result{Artifact: artifact, Request: cached, CacheHit: true}, nil
	}

	return o.execute(ctx, artifact, genre, spec)
}

func (o *Orchestrator) resolveSpec(genre string) (genres.Spec, error) {
	if spec, ok := o.registry.SpecFor(genre); ok {
		return spec, nil
	}
	if genre == genres.DefaultID {
		return o.registry.Default(), nil
	}
	if o.cfg.Transform.StrictGenres {
		return genres.Spec{}, services.Wrap(services.ErrInvalidInput, "transform", "resolve",
			fmt.Sprintf("unknown genre %q (known: %s)", genre, strings.Join(o.registry.IDs(), ", ")), nil)
	}
	return o.registry.Default(), nil
}

func (o *Orchestrator) execute(ctx context.Context, artifact *ledger.Artifact, genre string, spec genres.Spec) (*Result, error) {
	if err := o.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "transform", "execute", "ensure directories", err)
	}

	request, err := o.store.NewRequest(ctx, artifact.ID, genre)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "transform", "execute", "record request", err)
	}

	ctx = services.WithRequestID(ctx, strconv.FormatInt(request.ID, 10))

	request.SetProcessing(time.Now())
	if err := o.store.UpdateRequest(ctx, request); err != nil {
		return nil, services.Wrap(services.ErrStorage, "transform", "execute", "mark processing", err)
	}

	outputPath := OutputPath(o.cfg.Paths.OutputDir, artifact.StoredName, genre)
	started := time.Now()

	o.logger.InfoContext(ctx, "transformation started",
		logging.String("filter_chain", spec.FilterChain),
		logging.String(logging.FieldEventType, "transform_started"),
	)

	transformErr := o.processor.Transform(ctx, ffmpeg.Request{
		InputPath:       artifact.Path,
		OutputPath:      outputPath,
		FilterChain:     spec.FilterChain,
		DurationSeconds: o.probe(ctx, artifact.Path),
	}, func(update ffmpeg.ProgressUpdate) {
		o.logger.DebugContext(ctx, "transformation progress",
			logging.Float64("percent", update.Percent),
			logging.String("speed", update.Speed),
		)
	})

	if transformErr == nil {
		request.SetCompleted(outputPath, ledger.OutcomeTransformed, time.Now())
		if err := o.store.UpdateRequest(ctx, request); err != nil {
			return nil, services.Wrap(services.ErrStorage, "transform", "execute", "mark completed", err)
		}
		o.logger.InfoContext(ctx, "transformation completed",
			logging.Duration("elapsed", time.Since(started)),
			logging.String(logging.FieldEventType, "transform_completed"),
		)
		if o.notifier != nil {
			_ = o.notifier.NotifyTransformCompleted(ctx, artifact.OriginalName, genre)
		}
		return &Result{Artifact: artifact, Request: request}, nil
	}

	// Processor failures degrade to a verbatim copy of the source so the
	// caller still receives a playable file.
	o.logger.WarnContext(ctx, "transformation failed, delivering source copy",
		logging.Error(transformErr),
		logging.String(logging.FieldEventType, "transform_degraded"),
	)

	if err := fileutil.CopyFileVerified(artifact.Path, outputPath); err != nil {
		request.SetFailed(fmt.Sprintf("transform failed (%v); fallback copy failed (%v)", transformErr, err), time.Now())
		if updateErr := o.store.UpdateRequest(ctx, request); updateErr != nil {
			return nil, services.Wrap(services.ErrStorage, "transform", "execute", "mark failed", updateErr)
		}
		if o.notifier != nil {
			_ = o.notifier.NotifyError(ctx, err, "transform fallback")
		}
		return nil, services.Wrap(services.ErrStorage, "transform", "execute", "fallback copy", err)
	}

	request.SetCompleted(outputPath, ledger.OutcomeFallbackCopy, time.Now())
	if err := o.store.UpdateRequest(ctx, request); err != nil {
		return nil, services.Wrap(services.ErrStorage, "transform", "execute", "mark completed", err)
	}
	if o.notifier != nil {
		_ = o.notifier.NotifyTransformDegraded(ctx, artifact.OriginalName, genre, transformErr.Error())
	}
	return &Result{Artifact: artifact, Request: request}, nil
}

func (o *Orchestrator) ffprobeDuration(ctx context.Context, path string) float64 {
	result, err := ffprobe.Inspect(ctx, o.cfg.FFprobeBinary(), path)
	if err != nil {
		return 0
	}
	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) || seconds < 0 {
		return 0
	}
	return seconds
}
