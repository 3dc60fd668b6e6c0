// Package api defines wire-format types and converters for the HTTP API
// layer. It translates internal ledger models into transport-friendly DTOs
// so consumers never couple to internal types.
//
// # Key Types
//
// Artifact: transport representation of an uploaded audio file.
//
// Request: transport representation of a transformation request with its
// lifecycle status, outcome, and timestamps.
//
// ServiceStatus: aggregated runtime information including ledger stats and
// external dependency availability.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers. Internal
// enums (ledger.Status, ledger.Outcome) are exposed as lowercase strings.
// Timestamps use RFC3339 with milliseconds.
package api
