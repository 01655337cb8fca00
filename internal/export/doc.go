// Package export persists a ranked leaderboard as CSV, JSON, or SQLite.
//
// Every write fully replaces what was at the destination: each format is
// produced in a temporary sibling and renamed into place, the SQLite sink
// filling a fresh database inside one transaction. A <dest>.lock advisory
// lock keeps two runs from writing the same destination at once. The lock
// file stays on disk after the run.
package export
