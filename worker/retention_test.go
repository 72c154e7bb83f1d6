package worker_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/worker"
)

type fakeCleaner struct {
	mu    sync.Mutex
	calls int
	state job.State
}

func (f *fakeCleaner) Clean(ctx context.Context, state job.State, before *time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.state = state
	return 1, nil
}

func (f *fakeCleaner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRetentionWorkerRunsPeriodically(t *testing.T) {
	cleaner := &fakeCleaner{}
	rw := worker.NewRetentionWorker(cleaner, worker.RetentionConfig{
		State:    job.Completed,
		Interval: 10 * time.Millisecond,
	}, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rw.Start(ctx); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(time.Second)
	for cleaner.callCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("retention worker did not run within timeout")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if err := rw.Stop(time.Second); err != nil {
		t.Fatal(err)
	}
}

func TestRetentionWorkerStopZeroTimeoutUsesShutdownGrace(t *testing.T) {
	cleaner := &fakeCleaner{}
	rw := worker.NewRetentionWorker(cleaner, worker.RetentionConfig{
		State:         job.Completed,
		Interval:      time.Hour,
		ShutdownGrace: time.Second,
	}, slog.Default())

	ctx := context.Background()
	if err := rw.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rw.Stop(0); err != nil {
		t.Fatalf("expected Stop(0) to fall back to ShutdownGrace and succeed, got %v", err)
	}
}

func TestRetentionWorkerLifecycleErrors(t *testing.T) {
	cleaner := &fakeCleaner{}
	rw := worker.NewRetentionWorker(cleaner, worker.RetentionConfig{
		State:    job.Dead,
		Interval: 10 * time.Millisecond,
	}, slog.Default())

	ctx := context.Background()
	if err := rw.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rw.Start(ctx); err == nil {
		t.Fatal("expected ErrRetentionAlreadyStarted")
	}
	if err := rw.Stop(time.Second); err != nil {
		t.Fatal(err)
	}
	if err := rw.Stop(time.Second); err == nil {
		t.Fatal("expected ErrRetentionNotRunning")
	}
}
