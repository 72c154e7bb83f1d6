package sqlite

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/storage"
)

// Clean deletes jobs matching the given state and time filter.
//
// Only terminal states are allowed: job.Completed or job.Dead. If state
// is job.Unknown (zero value), both are eligible for deletion. A
// non-terminal state returns storage.ErrInvalidTransition.
//
// If before is non-nil, only jobs with updated_at <= *before are
// deleted. Clean returns the number of deleted rows and never touches
// Processing jobs.
func (s *Store) Clean(ctx context.Context, state job.State, before *time.Time) (int64, error) {
	if state != job.Unknown && !state.Terminal() {
		return 0, storage.ErrInvalidTransition
	}
	query := s.db.NewDelete().Model((*jobModel)(nil))
	if state != job.Unknown {
		query = query.Where("state = ?", state)
	} else {
		query = query.Where("state IN (?, ?)", job.Completed, job.Dead)
	}
	if before != nil {
		query = query.Where("updated_at <= ?", before)
	}
	res, err := query.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}
