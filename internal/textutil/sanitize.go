// Package textutil sanitizes user-supplied names before they reach the
// filesystem: uploaded filenames and genre ids both end up in stored and
// rendition paths.
package textutil

import "strings"

// SanitizeFileName strips an uploaded filename of characters that are
// unsafe in a storage path. Path separators, colons, and asterisks turn
// into dashes; shell-hostile punctuation is dropped outright. Spaces and
// case are preserved so the download name still resembles the upload.
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '-'
		case '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(cleaned)
}

// SanitizeToken reduces a value to a lowercase token usable as a path
// segment: ASCII letters are lowercased, digits and -/_ pass through, and
// anything else collapses to an underscore. A value with nothing usable
// in it becomes "unknown".
func SanitizeToken(value string) string {
	token := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, strings.TrimSpace(value))

	token = strings.Trim(token, "_-")
	if token == "" {
		return "unknown"
	}
	return token
}
