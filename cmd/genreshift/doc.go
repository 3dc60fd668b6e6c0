// Package main hosts the genreshift CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the HTTP server, one-shot uploads
// and transformations, ledger maintenance, and configuration scaffolding.
// It centralizes configuration resolution and logging setup so subcommands
// can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
