// Package queue provides the thin facade described in spec.md §4.3: it
// fills in defaults from config, validates caller input, and delegates
// every state change to a single storage.Store transaction so that it is
// the sole caller of metric-event-writing operations.
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/storage"
)

// Defaults supplies fallback values the manager fills into a caller's
// enqueue request when left unset, taken from config at construction
// time. Workers snapshot config at startup (spec.md §5); Defaults is
// that snapshot as far as the manager is concerned.
type Defaults struct {
	MaxRetries uint32
	Priority   int
}

// Manager is the facade in front of a storage.Store.
type Manager struct {
	store    storage.Store
	defaults Defaults
}

// NewManager creates a Manager backed by store, applying defaults to
// any enqueue request that omits MaxRetries or Priority.
func NewManager(store storage.Store, defaults Defaults) *Manager {
	return &Manager{store: store, defaults: defaults}
}

// EnqueueRequest is the caller-supplied shape of an enqueue call,
// matching the CLI/HTTP `enqueue` body in spec.md §6.
type EnqueueRequest struct {
	ID         string
	Command    string
	Priority   int // 0 means "use default"
	MaxRetries uint32
	RunAt      time.Time // zero means "immediate"
}

// Enqueue validates req, fills in defaults, and inserts a new Pending
// job, writing an enqueued event.
func (m *Manager) Enqueue(ctx context.Context, req EnqueueRequest) (*job.Job, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("%w: id is required", storage.ErrValidation)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("%w: command is required", storage.ErrValidation)
	}
	priority := req.Priority
	if priority == 0 {
		priority = m.defaults.Priority
	}
	maxRetries := req.MaxRetries
	if maxRetries == 0 {
		maxRetries = m.defaults.MaxRetries
	}
	j := &job.Job{
		ID:         req.ID,
		Command:    req.Command,
		Priority:   priority,
		MaxRetries: maxRetries,
		RunAt:      req.RunAt,
	}
	if err := m.store.Insert(ctx, j); err != nil {
		return nil, err
	}
	return m.store.Get(ctx, j.ID)
}

// Claim atomically selects and claims the next eligible job, per
// spec.md §4.2's ordering and concurrency contract.
func (m *Manager) Claim(ctx context.Context) (*job.Job, error) {
	return m.store.Claim(ctx)
}

// MarkCompleted records a successful execution.
func (m *Manager) MarkCompleted(ctx context.Context, id string, durationMs int64) error {
	return m.store.MarkCompleted(ctx, id, durationMs)
}

// MarkPending records a failed execution that still has retry budget
// remaining, rescheduling the job to Pending.
func (m *Manager) MarkPending(ctx context.Context, id string, attempts uint32, errMsg string) error {
	return m.store.MarkPending(ctx, id, attempts, errMsg)
}

// MarkDead records a failed execution that exhausted its retry budget,
// moving the job to the dead-letter state.
func (m *Manager) MarkDead(ctx context.Context, id string, attempts uint32, errMsg string) error {
	return m.store.MarkDead(ctx, id, attempts, errMsg)
}

// RetryDead requeues a dead-lettered job, preserving its priority and
// max_retries.
func (m *Manager) RetryDead(ctx context.Context, id string) error {
	return m.store.RetryDead(ctx, id)
}

// Get returns a single job snapshot.
func (m *Manager) Get(ctx context.Context, id string) (*job.Job, error) {
	return m.store.Get(ctx, id)
}

// List returns job snapshots filtered by state (job.Unknown for all).
func (m *Manager) List(ctx context.Context, state job.State) ([]*job.Job, error) {
	return m.store.List(ctx, state)
}

// Stats returns job counts grouped by state.
func (m *Manager) Stats(ctx context.Context) (*storage.Stats, error) {
	return m.store.Stats(ctx)
}

// MetricsSummary returns event counts, mean completed duration, and the
// most recent n events.
func (m *Manager) MetricsSummary(ctx context.Context, n int) (*storage.MetricsSummary, error) {
	return m.store.MetricsSummary(ctx, n)
}

// Clean permanently deletes terminal jobs, for the administrative
// retention worker.
func (m *Manager) Clean(ctx context.Context, state job.State, before *time.Time) (int64, error) {
	return m.store.Clean(ctx, state, before)
}
