package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/storage"
	"github.com/uptrace/bun"
)

// MarkCompleted transitions a Processing job to Completed and appends a
// completed event carrying durationMs.
func (s *Store) MarkCompleted(ctx context.Context, id string, durationMs int64) error {
	now := time.Now().UTC()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Completed).
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Where("state = ?", job.Processing).
			Exec(ctx)
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return transitionErr(ctx, tx, id)
		}
		return appendEvent(ctx, tx, id, storage.EventCompleted, ptr(durationMs), "")
	})
}

// MarkPending transitions a Processing job back to Pending, recording
// attempts and errMsg, and appends a failed event. attempts above the
// job's max_retries is rejected with storage.ErrInvalidTransition.
func (s *Store) MarkPending(ctx context.Context, id string, attempts uint32, errMsg string) error {
	now := time.Now().UTC()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Pending).
			Set("attempts = ?", attempts).
			Set("error_message = ?", errMsg).
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Where("state = ?", job.Processing).
			Where("max_retries >= ?", attempts).
			Exec(ctx)
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return transitionErr(ctx, tx, id)
		}
		return appendEvent(ctx, tx, id, storage.EventFailed, nil, errMsg)
	})
}

// MarkDead transitions a Processing job to Dead, recording attempts and
// errMsg, and appends two events: failed then dlq, per spec.md §4.2.
func (s *Store) MarkDead(ctx context.Context, id string, attempts uint32, errMsg string) error {
	now := time.Now().UTC()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Dead).
			Set("attempts = ?", attempts).
			Set("error_message = ?", errMsg).
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Where("state = ?", job.Processing).
			Exec(ctx)
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return transitionErr(ctx, tx, id)
		}
		if err := appendEvent(ctx, tx, id, storage.EventFailed, nil, errMsg); err != nil {
			return err
		}
		return appendEvent(ctx, tx, id, storage.EventDLQ, nil, errMsg)
	})
}

// RetryDead moves a Dead job back to Pending with attempts reset to 0
// and error_message cleared, preserving priority and max_retries, and
// appends an enqueued event.
func (s *Store) RetryDead(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Pending).
			Set("attempts = ?", 0).
			Set("error_message = ?", "").
			Set("run_at = NULL").
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Where("state = ?", job.Dead).
			Exec(ctx)
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return transitionErr(ctx, tx, id)
		}
		return appendEvent(ctx, tx, id, storage.EventEnqueued, nil, "")
	})
}

// transitionErr distinguishes a missing job (ErrNotFound) from one that
// exists but was not in the precondition state (ErrInvalidTransition),
// so callers can surface the right error kind per spec.md §7.
func transitionErr(ctx context.Context, tx bun.Tx, id string) error {
	exists, err := tx.NewSelect().
		Model((*jobModel)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: id %q", storage.ErrNotFound, id)
	}
	return fmt.Errorf("%w: id %q", storage.ErrInvalidTransition, id)
}
