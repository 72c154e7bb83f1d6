package job

import "time"

// Job represents a unit of work managed by the queue storage: a shell
// command plus its delivery state and scheduling metadata.
//
// CreatedAt is set at insert and is immutable. UpdatedAt is refreshed on
// every committed mutation.
//
// State represents the current position in the job lifecycle (see
// package-level State docs for the state machine). Attempts counts
// finished execution attempts; it never exceeds MaxRetries+1. Priority
// is an integer in [1,10], 10 being most urgent. RunAt, if set, is the
// earliest instant at which the job becomes eligible for claim; a zero
// RunAt means "eligible now".
//
// Job values returned by the storage engine are snapshots. Mutating them
// in place does not affect stored state; transitions must be performed
// through the storage engine's operations.
type Job struct {
	ID      string
	Command string

	State      State
	Attempts   uint32
	MaxRetries uint32
	Priority   int

	RunAt     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	ErrorMessage   string
	LastExecutedAt *time.Time
}

// Ready reports whether the job is eligible to be claimed at instant now:
// it must be Pending and either have no RunAt or one that has elapsed.
func (j *Job) Ready(now time.Time) bool {
	if j.State != Pending {
		return false
	}
	return j.RunAt.IsZero() || !j.RunAt.After(now)
}

// ExhaustsRetries reports whether attempts (the attempt count after the
// failure currently being handled) has reached the job's retry budget,
// meaning the failure currently being handled transitions the job to
// Dead rather than back to Pending.
func (j *Job) ExhaustsRetries(attempts uint32) bool {
	return attempts >= j.MaxRetries
}
