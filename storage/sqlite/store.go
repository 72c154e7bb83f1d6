package sqlite

import (
	"context"

	"github.com/queuectl/queuectl/storage"
	"github.com/uptrace/bun"
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using a SQLite database via bun.
//
// Store performs every mutation inside a single transaction that updates
// the jobs row and appends the corresponding metric event together, so
// that a reader never observes a job transition without its event or
// vice versa.
type Store struct {
	db *bun.DB
}

// NewStore creates a new SQLite-backed Store.
//
// The provided *bun.DB must be properly configured and connected, and
// InitSchema must have been run before use.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func appendEvent(ctx context.Context, db bun.IDB, jobID, eventType string, durationMs *int64, errMsg string) error {
	_, err := db.NewInsert().
		Model(&metricEventModel{
			JobID:        jobID,
			EventType:    eventType,
			DurationMs:   durationMs,
			ErrorMessage: errMsg,
		}).
		Exec(ctx)
	return err
}
