// Package storage defines the durable persistence contract for jobs and
// metric events. It is storage-agnostic; github.com/queuectl/queuectl/storage/sqlite
// provides a bun-based SQLite implementation.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/queuectl/queuectl/job"
)

var (
	// ErrNotFound indicates the referenced job id does not exist.
	ErrNotFound = errors.New("job not found")

	// ErrInvalidTransition indicates an operation incompatible with the
	// job's current state (for example, retry_dead on a non-dead job, or
	// mark_completed on a job that is not processing).
	ErrInvalidTransition = errors.New("invalid job state transition")

	// ErrValidation indicates bad input at the storage boundary: a
	// duplicate id on insert, or priority outside [1,10].
	ErrValidation = errors.New("validation error")
)

// MetricEvent is an append-only record of a job state transition.
type MetricEvent struct {
	Seq          int64
	JobID        string
	EventType    string
	Timestamp    time.Time
	DurationMs   *int64
	ErrorMessage string
}

// Event type names written by storage operations, matching spec.md's
// MetricEvent.event_type enum.
const (
	EventEnqueued  = "enqueued"
	EventStarted   = "started"
	EventCompleted = "completed"
	EventFailed    = "failed"
	EventDLQ       = "dlq"
)

// Stats reports job counts grouped by state.
type Stats struct {
	Pending    int64
	Processing int64
	Completed  int64
	Dead       int64
}

// MetricsSummary reports aggregate counters over the metric event log.
type MetricsSummary struct {
	Counts          map[string]int64
	AvgDurationMs   float64
	Recent          []*MetricEvent
}

// Store is the durable persistence contract required by the queue
// manager and worker pool: durable CRUD over jobs, the atomic claim
// protocol, the metric event log, and statistics queries.
//
// Every mutating operation is transactional and emits at most one event
// (mark_dead emits two: failed then dlq), per spec.md §4.2.
type Store interface {
	// Insert persists a new job in Pending state with Attempts=0 and
	// writes an enqueued event. Returns ErrValidation if id already
	// exists or priority is outside [1,10].
	Insert(ctx context.Context, j *job.Job) error

	// Claim selects at most one Pending job whose RunAt has elapsed,
	// ordered by (priority DESC, created_at ASC), and atomically
	// transitions it to Processing, setting LastExecutedAt and
	// UpdatedAt, and writes a started event. Returns (nil, nil) on a
	// miss. No two concurrent calls may return the same job.
	Claim(ctx context.Context) (*job.Job, error)

	// MarkCompleted transitions a Processing job to Completed and
	// writes a completed event carrying durationMs. Requires
	// state=processing; otherwise ErrInvalidTransition. Unknown id:
	// ErrNotFound.
	MarkCompleted(ctx context.Context, id string, durationMs int64) error

	// MarkPending transitions a Processing job back to Pending with the
	// given attempts and error message, and writes a failed event.
	// Requires state=processing and attempts<=max_retries; otherwise
	// ErrInvalidTransition. Unknown id: ErrNotFound.
	MarkPending(ctx context.Context, id string, attempts uint32, errMsg string) error

	// MarkDead transitions a Processing job to Dead, recording attempts
	// and errMsg, and writes two events: failed then dlq. Requires
	// state=processing.
	MarkDead(ctx context.Context, id string, attempts uint32, errMsg string) error

	// RetryDead moves a Dead job back to Pending with attempts reset to
	// 0 and error_message cleared, preserving priority and max_retries,
	// and writes an enqueued event. Requires state=dead; otherwise
	// ErrInvalidTransition.
	RetryDead(ctx context.Context, id string) error

	// Get returns the job identified by id, or (nil, nil) if absent.
	Get(ctx context.Context, id string) (*job.Job, error)

	// List returns a snapshot of jobs matching state, ordered by
	// created_at. state=job.Unknown returns jobs in any state.
	List(ctx context.Context, state job.State) ([]*job.Job, error)

	// Stats returns job counts grouped by state.
	Stats(ctx context.Context) (*Stats, error)

	// MetricsSummary returns per-event-type counts, the mean
	// duration_ms over completed events, and the last n events ordered
	// by seq descending.
	MetricsSummary(ctx context.Context, n int) (*MetricsSummary, error)

	// Clean permanently deletes terminal (Completed or Dead) jobs. A
	// non-terminal state returns ErrInvalidTransition. Administrative
	// only; does not interact with claim or processing jobs.
	Clean(ctx context.Context, state job.State, before *time.Time) (int64, error)
}
