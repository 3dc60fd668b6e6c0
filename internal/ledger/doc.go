// Package ledger persists uploaded artifacts and their transformation
// requests in SQLite.
//
// The Store manages database connections, schema initialization, stats
// queries, and the request lifecycle (pending, processing, completed,
// failed). Completed requests record an outcome distinguishing a real
// genre transformation from a verbatim fallback copy, and FindCompleted is
// the idempotency lookup that lets repeated requests for the same artifact
// and genre reuse an existing output file.
//
// Treat this package as the single source of truth for ledger semantics;
// when you add new statuses or columns, update schema.sql and bump
// schemaVersion.
package ledger
