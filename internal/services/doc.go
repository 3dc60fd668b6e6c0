// Package services defines shared utilities consumed by the transformation
// orchestrator and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp artifact IDs, genres, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (recoverable processor errors vs surfaced input,
//     lookup, and storage errors) consistent across the codebase.
//   - Thin abstractions that make command execution and progress streaming
//     from external tools testable.
//
// Use these helpers when wiring new components so operational behaviour
// (error handling, observability) stays uniform.
package services
