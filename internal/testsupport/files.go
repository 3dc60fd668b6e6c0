package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// id3Header marks fixtures as MP3-like so extension sniffing and manual
// inspection of a failed test's tempdir both see plausible audio bytes.
var id3Header = []byte{'I', 'D', '3', 3, 0, 0, 0, 0, 0, 0}

// WriteFile fills the target path with exactly size bytes of fake audio:
// an ID3v2 marker followed by a repeating sawtooth of sample bytes. A
// size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	payload := make([]byte, size)
	n := copy(payload, id3Header)
	for i := n; i < len(payload); i++ {
		payload[i] = byte((i - n) % 251)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
