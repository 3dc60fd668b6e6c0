// Package transform drives the genre transformation lifecycle.
//
// The Orchestrator is the single entry point: given an artifact and a target
// genre it reuses a completed output when one exists, otherwise records a
// request in the ledger, invokes the audio processor with the genre's filter
// chain, and persists the terminal state. Processor failures are absorbed by
// delivering a verbatim copy of the source audio (recorded as a fallback
// outcome); input, lookup, and storage failures surface to the caller.
//
// Work is serialized per (artifact, genre) pair so concurrent requests for
// the same output never run the processor twice.
package transform
