package textutil_test

import (
	"testing"

	"genreshift/internal/textutil"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "song.mp3", "song.mp3"},
		{"slashes", "a/b\\c.wav", "a-b-c.wav"},
		{"removed characters", `my "best" <song>?.mp3`, "my best song.mp3"},
		{"whitespace", "  track.flac  ", "track.flac"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.SanitizeFileName(tc.input); got != tc.expected {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"Hip Hop", "hip_hop"},
		{"rock", "rock"},
		{"", "unknown"},
		{"___", "unknown"},
		{"Lo-Fi", "lo-fi"},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeToken(tc.input); got != tc.expected {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
