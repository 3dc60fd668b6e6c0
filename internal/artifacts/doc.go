// Package artifacts persists uploaded audio files and their ledger records.
//
// Uploads are validated against a small extension allow-list, written under
// the configured upload directory with a UUID-prefixed sanitized name, and
// recorded in the ledger together with an advisory genre sniffed from the
// original filename.
package artifacts
