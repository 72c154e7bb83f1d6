package sqlite

import (
	"context"
	"fmt"

	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/storage"
	"github.com/uptrace/bun"
)

// Insert persists j in Pending state with Attempts=0 inside a
// transaction that also appends an enqueued event.
//
// Returns storage.ErrValidation if j.ID already exists or j.Priority is
// outside [1,10].
func (s *Store) Insert(ctx context.Context, j *job.Job) error {
	if j.Priority < 1 || j.Priority > 10 {
		return fmt.Errorf("%w: priority %d out of range [1,10]", storage.ErrValidation, j.Priority)
	}
	model := fromJob(j)
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(model).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return fmt.Errorf("%w: job id %q already exists", storage.ErrValidation, j.ID)
		}
		return appendEvent(ctx, tx, j.ID, storage.EventEnqueued, nil, "")
	})
}
