// Package database provides SQLite-based storage for scrub history.
//
// This package implements the HistoryDB, which stores:
//   - Completed scrub runs with their full results as JSON
//   - Per-run summaries for listing history without loading full results
//
// History recording is opt-in: the pipeline works without a database,
// and the CLI only opens one when asked to keep history.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
