// Package config loads, normalizes, and validates genreshift configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GENRESHIFT_NTFY_TOPIC. The Config type centralizes every knob the server
// and CLI need, so upload/output directories and the processor binaries are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
