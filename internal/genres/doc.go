// Package genres holds the static genre-to-effect-chain registry.
//
// Each known genre maps to an opaque ffmpeg filter-chain string; unknown
// genres resolve to a documented default enhancement chain. The registry is
// immutable and injected into the orchestrator at construction so tests can
// substitute their own mappings.
package genres
