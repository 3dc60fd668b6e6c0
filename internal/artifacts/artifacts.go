package artifacts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"genreshift/internal/config"
	"genreshift/internal/genres"
	"genreshift/internal/ledger"
	"genreshift/internal/logging"
	"genreshift/internal/media/ffprobe"
	"genreshift/internal/services"
	"genreshift/internal/textutil"
)

var allowedExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".ogg":  {},
	".flac": {},
}

// AllowedExtensions returns the accepted upload extensions in sorted order.
func AllowedExtensions() []string {
	return []string{".flac", ".mp3", ".ogg", ".wav"}
}

// Service persists uploaded audio files and records them in the ledger.
type Service struct {
	cfg      *config.Config
	store    *ledger.Store
	registry *genres.Registry
	logger   *slog.Logger
}

// NewService constructs an upload service.
func NewService(cfg *config.Config, store *ledger.Store, registry *genres.Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		cfg:      cfg,
		store:    store,
		registry: registry,
		logger:   logging.NewComponentLogger(logger, "artifacts"),
	}
}

// Store validates and persists an uploaded file, returning the ledger record.
// The stored name is a UUID prefix plus the sanitized original name so
// repeated uploads of the same file never collide.
func (s *Service) Store(ctx context.Context, originalName, contentType string, r io.Reader) (*ledger.Artifact, error) {
	originalName = strings.TrimSpace(originalName)
	if originalName == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "artifacts", "store", "file name required", nil)
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, services.Wrap(services.ErrInvalidInput, "artifacts", "store",
			fmt.Sprintf("unsupported file type %q (allowed: %s)", ext, strings.Join(AllowedExtensions(), ", ")), nil)
	}

	if err := s.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "artifacts", "store", "ensure directories", err)
	}

	safeName := strings.ReplaceAll(textutil.SanitizeFileName(originalName), " ", "_")
	storedName := uuid.New().String() + "_" + safeName
	path := filepath.Join(s.cfg.Paths.UploadDir, storedName)

	size, err := writeFile(path, r, s.cfg.MaxUploadBytes())
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	if size == 0 {
		_ = os.Remove(path)
		return nil, services.Wrap(services.ErrInvalidInput, "artifacts", "store", "uploaded file is empty", nil)
	}

	s.inspect(ctx, path)

	artifact, err := s.store.NewArtifact(ctx, &ledger.Artifact{
		StoredName:    storedName,
		OriginalName:  originalName,
		Path:          path,
		SizeBytes:     size,
		ContentType:   contentType,
		DetectedGenre: s.registry.DetectFromFilename(originalName),
	})
	if err != nil {
		_ = os.Remove(path)
		return nil, services.Wrap(services.ErrStorage, "artifacts", "store", "record artifact", err)
	}

	s.logger.InfoContext(ctx, "artifact stored",
		logging.Int64(logging.FieldArtifactID, artifact.ID),
		logging.String("stored_name", artifact.StoredName),
		logging.Int64("size_bytes", artifact.SizeBytes),
		logging.String(logging.FieldEventType, "artifact_stored"),
	)
	return artifact, nil
}

// inspect runs an advisory ffprobe pass over a stored upload. Files without
// a decodable audio stream are accepted but logged; ffmpeg reports the real
// problem at transform time. A missing ffprobe binary skips the check.
func (s *Service) inspect(ctx context.Context, path string) {
	binary := s.cfg.FFprobeBinary()
	if _, err := exec.LookPath(binary); err != nil {
		return
	}
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		s.logger.WarnContext(ctx, "upload inspection failed", logging.Error(err))
		return
	}
	if result.AudioStreamCount() == 0 {
		s.logger.WarnContext(ctx, "upload has no audio streams",
			logging.String("path", path),
			logging.String(logging.FieldEventType, "artifact_suspect"),
		)
	}
}

// Resolve fetches an artifact by identifier, verifying the backing file still
// exists on disk.
func (s *Service) Resolve(ctx context.Context, id int64) (*ledger.Artifact, error) {
	artifact, err := s.store.GetArtifact(ctx, id)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "artifacts", "resolve", "get artifact", err)
	}
	if artifact == nil {
		return nil, services.Wrap(services.ErrNotFound, "artifacts", "resolve",
			fmt.Sprintf("artifact %d not found", id), nil)
	}
	if !fileExists(artifact.Path) {
		return nil, services.Wrap(services.ErrNotFound, "artifacts", "resolve",
			fmt.Sprintf("artifact file missing at %s", artifact.Path), nil)
	}
	return artifact, nil
}

// List returns all recorded artifacts.
func (s *Service) List(ctx context.Context) ([]*ledger.Artifact, error) {
	artifacts, err := s.store.ListArtifacts(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "artifacts", "list", "list artifacts", err)
	}
	return artifacts, nil
}

func writeFile(path string, r io.Reader, maxBytes int64) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, "artifacts", "store", "create file", err)
	}
	defer f.Close()

	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	size, err := io.Copy(f, r)
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, "artifacts", "store", "write file", err)
	}
	if maxBytes > 0 && size > maxBytes {
		return 0, services.Wrap(services.ErrInvalidInput, "artifacts", "store",
			fmt.Sprintf("upload exceeds %d byte limit", maxBytes), nil)
	}
	if err := f.Sync(); err != nil {
		return 0, services.Wrap(services.ErrStorage, "artifacts", "store", "sync file", err)
	}
	return size, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
