package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"genreshift/internal/config"
	"genreshift/internal/ledger"
)

// MustOpenStore opens a ledger.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewArtifact stores a synthetic uploaded file on disk and records it in the
// ledger for tests.
func NewArtifact(t testing.TB, store *ledger.Store, cfg *config.Config, originalName string, size int64) *ledger.Artifact {
	t.Helper()

	storedName := "test-" + originalName
	path := filepath.Join(cfg.Paths.UploadDir, storedName)
	WriteFile(t, path, size)

	artifact, err := store.NewArtifact(context.Background(), &ledger.Artifact{
		StoredName:   storedName,
		OriginalName: originalName,
		Path:         path,
		SizeBytes:    size,
	})
	if err != nil {
		t.Fatalf("store.NewArtifact: %v", err)
	}
	return artifact
}
