package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/queuectl/queuectl/job"
)

// Cleaner is the subset of storage.Store this package depends on for
// retention management.
type Cleaner interface {
	Clean(ctx context.Context, state job.State, before *time.Time) (int64, error)
}

// RetentionConfig defines the scheduling and filtering parameters of a
// RetentionWorker: a supplemental administrative feature (not named by
// spec.md, not excluded by its Non-goals) for pruning terminal jobs so
// the jobs table doesn't grow unbounded across a long-running queue.
type RetentionConfig struct {
	State         job.State
	Interval      time.Duration
	Before        bool
	Delta         time.Duration
	ShutdownGrace time.Duration // default 30s
}

var (
	// ErrRetentionAlreadyStarted is returned when Start is called on a
	// retention worker that is already running.
	ErrRetentionAlreadyStarted = errors.New("retention worker already started")

	// ErrRetentionNotRunning is returned when Stop is called on a
	// retention worker that is not currently running.
	ErrRetentionNotRunning = errors.New("retention worker not running")

	// ErrRetentionStopTimeout is returned when a retention worker fails
	// to finish its in-flight clean within the provided grace period.
	ErrRetentionStopTimeout = errors.New("retention worker stop timeout")
)

// RetentionWorker periodically invokes Cleaner.Clean according to the
// provided configuration. It does not participate in job claim or
// execution and never touches Processing jobs.
//
// Start returns ErrRetentionAlreadyStarted while the worker is running;
// Stop waits for the in-flight clean to finish or the timeout to
// expire. lifecycleMu guards running together with cancel/done, so a
// Stop racing a Start can never observe running flipped before they are
// assigned.
type RetentionWorker struct {
	lifecycleMu sync.Mutex
	running     bool
	cancel      context.CancelFunc
	done        chan struct{}

	cleaner       Cleaner
	log           *slog.Logger
	state         job.State
	interval      time.Duration
	before        bool
	delta         time.Duration
	shutdownGrace time.Duration
}

// NewRetentionWorker creates a RetentionWorker using the provided
// Cleaner and configuration. The worker is not started automatically.
func NewRetentionWorker(cleaner Cleaner, config RetentionConfig, log *slog.Logger) *RetentionWorker {
	shutdownGrace := config.ShutdownGrace
	if shutdownGrace == 0 {
		shutdownGrace = 30 * time.Second
	}
	return &RetentionWorker{
		cleaner:       cleaner,
		log:           log,
		state:         config.State,
		interval:      config.Interval,
		before:        config.Before,
		delta:         config.Delta,
		shutdownGrace: shutdownGrace,
	}
}

func (rw *RetentionWorker) beforeStamp() *time.Time {
	if !rw.before {
		return nil
	}
	ret := time.Now()
	if rw.delta != 0 {
		ret = ret.Add(-rw.delta)
	}
	return &ret
}

func (rw *RetentionWorker) clean(ctx context.Context) {
	before := rw.beforeStamp()
	count, err := rw.cleaner.Clean(ctx, rw.state, before)
	if err != nil {
		rw.log.Error("retention clean failed", "err", err)
		return
	}
	rw.log.Info("retention cleaned jobs", "count", count)
}

// Start begins periodic execution of the cleaning task: an immediate
// clean followed by one every Interval, until ctx is canceled or Stop
// is called.
func (rw *RetentionWorker) Start(ctx context.Context) error {
	rw.lifecycleMu.Lock()
	if rw.running {
		rw.lifecycleMu.Unlock()
		return ErrRetentionAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	rw.running = true
	rw.cancel = cancel
	rw.done = done
	rw.lifecycleMu.Unlock()

	go rw.loop(runCtx, done)
	return nil
}

func (rw *RetentionWorker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()
	rw.clean(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rw.clean(ctx)
		}
	}
}

// Stop terminates the background cleaning task, waiting up to timeout
// (or ShutdownGrace, if timeout is zero) for it to finish.
func (rw *RetentionWorker) Stop(timeout time.Duration) error {
	rw.lifecycleMu.Lock()
	if !rw.running {
		rw.lifecycleMu.Unlock()
		return ErrRetentionNotRunning
	}
	rw.running = false
	cancel := rw.cancel
	done := rw.done
	rw.lifecycleMu.Unlock()

	if timeout == 0 {
		timeout = rw.shutdownGrace
	}
	cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
		return ErrRetentionStopTimeout
	}
}
