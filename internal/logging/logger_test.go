package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genreshift/internal/logging"
	"genreshift/internal/services"
)

func TestNewConsoleWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("transform queued",
		logging.String(logging.FieldComponent, "orchestrator"),
		logging.String(logging.FieldGenre, "rock"),
		logging.Int64(logging.FieldArtifactID, 7),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "INFO orchestrator: transform queued") {
		t.Fatalf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "genre=rock") || !strings.Contains(line, "artifact_id=7") {
		t.Fatalf("expected attrs in log line: %q", line)
	}
}

func TestNewConsoleRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "warn",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("emitted")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "suppressed") {
		t.Fatalf("info line should have been suppressed: %q", content)
	}
	if !strings.Contains(string(content), "emitted") {
		t.Fatalf("warn line missing: %q", content)
	}
}

func TestNewJSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("upload stored", logging.String("filename", "song.mp3"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"upload stored"`) {
		t.Fatalf("unexpected json line: %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("discarded", logging.Error(os.ErrNotExist))
}

func TestContextFieldsInjected(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithGenre(services.WithArtifactID(context.Background(), 42), "jazz")
	ctx = services.WithRequestID(ctx, "9")
	logger.InfoContext(ctx, "transform started")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{`"artifact_id":42`, `"genre":"jazz"`, `"request_id":"9"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in log line: %q", want, line)
		}
	}
}
