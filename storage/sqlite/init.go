package sqlite

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

func createJobsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*jobModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createEventsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*metricEventModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// createClaimIndex indexes (state, priority, created_at), all columns
// ascending, for the claim query's state filter and its ORDER BY
// (priority DESC, created_at ASC).
func createClaimIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_priority_created").
		Column("state", "priority", "created_at").
		IfNotExists().
		Exec(ctx)
	return err
}

// createRunAtIndex serves scheduled-job filtering (state, run_at).
func createRunAtIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_run_at").
		Column("state", "run_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func createEventsJobIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*metricEventModel)(nil)).
		Index("idx_events_job_id").
		Column("job_id").
		IfNotExists().
		Exec(ctx)
	return err
}

func initDB(ctx context.Context, db *bun.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	steps := []func(context.Context, bun.IDB) error{
		createJobsTable,
		createEventsTable,
		createClaimIndex,
		createRunAtIndex,
		createEventsJobIndex,
	}
	for _, step := range steps {
		if err := step(ctx, tx); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

// InitSchema creates the jobs and metric_events tables and their indexes
// inside a single transaction, if they do not already exist.
//
// InitSchema is idempotent and may be safely called multiple times. It
// does not perform destructive migrations; schema evolution beyond
// additive IF NOT EXISTS creation must be handled externally.
//
// The caller is responsible for providing a properly configured *bun.DB,
// including WAL mode and busy_timeout for SQLite.
func InitSchema(ctx context.Context, db *bun.DB) error {
	return initDB(ctx, db)
}

// MustInitSchema behaves like InitSchema but panics on failure. Intended
// for application bootstrap where schema initialization is unrecoverable.
func MustInitSchema(ctx context.Context, db *bun.DB) {
	if err := initDB(ctx, db); err != nil {
		panic(err)
	}
}
