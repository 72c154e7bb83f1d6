package sqlite

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/storage"
	"github.com/uptrace/bun"
)

// Claim selects at most one Pending job whose run_at has elapsed,
// ordered by (priority DESC, created_at ASC), and atomically transitions
// it to Processing.
//
// The selection and transition happen in a single UPDATE ... WHERE id IN
// (subquery) ... RETURNING statement: the subquery picks the winning row
// under the claim ordering, and the UPDATE's WHERE clause re-checks
// state='pending' at write time, so a concurrent claim that already won
// the row simply affects zero rows here and is excluded from the
// RETURNING set. No retry loop is needed: SQLite's single-writer lock
// serializes the two UPDATE statements, and whichever commits first wins
// the row. A won claim appends a started event in the same transaction,
// so a reader never observes a Processing job without one.
func (s *Store) Claim(ctx context.Context) (*job.Job, error) {
	now := time.Now().UTC()
	var model jobModel
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		subQuery := tx.NewSelect().
			Model((*jobModel)(nil)).
			Column("id").
			Where("state = ?", job.Pending).
			Where("run_at IS NULL OR run_at <= ?", now).
			Order("priority DESC", "created_at ASC").
			Limit(1)
		var models []jobModel
		err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Processing).
			Set("last_executed_at = ?", now).
			Set("updated_at = ?", now).
			Where("id IN (?)", subQuery).
			Returning("*").
			Scan(ctx, &models)
		if err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		model = models[0]
		return appendEvent(ctx, tx, model.ID, storage.EventStarted, nil, "")
	})
	if err != nil {
		return nil, err
	}
	if model.ID == "" {
		return nil, nil
	}
	return model.toJob(), nil
}
