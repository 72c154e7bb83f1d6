// Package sqlite implements storage.Store on top of SQLite via
// github.com/uptrace/bun and modernc.org/sqlite (pure Go, no cgo).
//
// # Overview
//
// The SQLite backend provides:
//
//   - durable persistence of jobs and the metric event log
//   - an atomic claim using a single UPDATE ... WHERE id IN (subquery)
//     RETURNING statement, avoiding a race between selecting the winner
//     and marking it processing
//   - one-transaction-per-operation semantics: a job mutation and its
//     metric event are committed together
//
// # Concurrency Model
//
// Claim relies on SQLite's single-writer locking together with the
// atomic UPDATE ... WHERE id IN (subquery) pattern: a zero-rows-affected
// result means the row was claimed elsewhere between SELECT and UPDATE
// and is simply absent from the result set, never duplicated.
//
// SQLite deployments should enable WAL mode and a busy_timeout so that
// readers (List, Stats) are not blocked by writers for long.
//
// # Schema
//
// InitSchema (or MustInitSchema) creates the jobs and metric_events
// tables, plus:
//
//   - index (state, priority, created_at) — serves the claim ORDER BY
//   - index (state, run_at) — serves scheduled-job filtering
//   - index (job_id) on metric_events
//
// InitSchema is idempotent and runs inside a transaction. It performs no
// destructive migrations.
//
// # Database Lifecycle
//
// This package does not manage connection pooling or database lifecycle.
// The caller is responsible for opening *bun.DB with appropriate pragmas
// and running InitSchema before use.
package sqlite
