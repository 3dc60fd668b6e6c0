package transform

import (
	"path/filepath"
	"strings"

	"genreshift/internal/textutil"
)

// OutputPath computes the deterministic output location for a stored artifact
// and genre: <output dir>/<stored base>_<genre><ext>. The same inputs always
// produce the same path, which is what makes cached outputs addressable.
func OutputPath(outputDir, storedName, genre string) string {
	ext := filepath.Ext(storedName)
	base := strings.TrimSuffix(storedName, ext)
	if base == "" {
		base = storedName
		ext = ""
	}
	return filepath.Join(outputDir, base+"_"+textutil.SanitizeToken(genre)+ext)
}
