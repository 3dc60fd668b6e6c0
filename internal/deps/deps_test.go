package deps

import (
	"os"
	"path/filepath"
	"testing"

	"genreshift/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestRequirementsUseConfiguredBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.FFmpeg.Binary = "/opt/ffmpeg"
	cfg.FFmpeg.FFprobeBinary = "/opt/ffprobe"

	reqs := Requirements(cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "/opt/ffmpeg" || reqs[0].Optional {
		t.Fatalf("unexpected ffmpeg requirement: %#v", reqs[0])
	}
	if reqs[1].Command != "/opt/ffprobe" || !reqs[1].Optional {
		t.Fatalf("unexpected ffprobe requirement: %#v", reqs[1])
	}
}
