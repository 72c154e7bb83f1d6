package sqlite_test

import (
	"context"
	"sync"
	"testing"

	"github.com/queuectl/queuectl/job"
)

func insertJob(t *testing.T, ctx context.Context, s interface {
	Insert(ctx context.Context, j *job.Job) error
}, id string, priority int) {
	t.Helper()
	if err := s.Insert(ctx, &job.Job{ID: id, Command: "true", Priority: priority, MaxRetries: 3}); err != nil {
		t.Fatal(err)
	}
}

func TestClaimAndComplete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertJob(t, ctx, store, "a", 5)

	j, err := store.Claim(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if j == nil {
		t.Fatal("expected a claimed job")
	}
	if j.State != job.Processing {
		t.Fatalf("expected Processing, got %v", j.State)
	}

	if err := store.MarkCompleted(ctx, j.ID, 42); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Completed {
		t.Fatalf("expected Completed, got %v", got.State)
	}
}

func TestClaimAppendsStartedEvent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertJob(t, ctx, store, "a", 5)
	if _, err := store.Claim(ctx); err != nil {
		t.Fatal(err)
	}

	summary, err := store.MetricsSummary(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Counts["started"] != 1 {
		t.Fatalf("expected one started event, got %+v", summary.Counts)
	}
}

func TestClaimAndMarkPending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertJob(t, ctx, store, "a", 5)
	j, err := store.Claim(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.MarkPending(ctx, j.ID, 1, "boom"); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Pending {
		t.Fatalf("expected Pending, got %v", got.State)
	}
	if got.Attempts != 1 || got.ErrorMessage != "boom" {
		t.Fatalf("unexpected job snapshot: %+v", got)
	}
}

func TestClaimAndMarkDead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertJob(t, ctx, store, "a", 5)
	j, err := store.Claim(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.MarkDead(ctx, j.ID, 3, "boom"); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Dead {
		t.Fatalf("expected Dead, got %v", got.State)
	}

	summary, err := store.MetricsSummary(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Counts["failed"] != 1 || summary.Counts["dlq"] != 1 {
		t.Fatalf("expected one failed and one dlq event, got %+v", summary.Counts)
	}
}

func TestRetryDead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertJob(t, ctx, store, "a", 7)
	j, err := store.Claim(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.MarkDead(ctx, j.ID, 1, "boom"); err != nil {
		t.Fatal(err)
	}

	if err := store.RetryDead(ctx, j.ID); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Pending || got.Attempts != 0 || got.ErrorMessage != "" {
		t.Fatalf("unexpected job after retry_dead: %+v", got)
	}
	if got.Priority != 7 {
		t.Fatalf("expected priority preserved at 7, got %d", got.Priority)
	}

	if err := store.RetryDead(ctx, j.ID); err == nil {
		t.Fatal("expected second retry_dead to fail")
	}
}

func TestNoDuplicateClaim(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const n = 20
	for i := 0; i < n; i++ {
		insertJob(t, ctx, store, string(rune('a'+i)), 5)
	}

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				j, err := store.Claim(ctx)
				if err != nil {
					t.Error(err)
					return
				}
				if j == nil {
					return
				}
				mu.Lock()
				if seen[j.ID] {
					t.Errorf("job %s claimed twice", j.ID)
				}
				seen[j.ID] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != n {
		t.Fatalf("expected %d distinct claims, got %d", n, len(seen))
	}
}

func TestPriorityOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertJob(t, ctx, store, "low", 1)
	insertJob(t, ctx, store, "high", 10)

	first, err := store.Claim(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != "high" {
		t.Fatalf("expected high-priority job claimed first, got %s", first.ID)
	}
	second, err := store.Claim(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != "low" {
		t.Fatalf("expected low-priority job claimed second, got %s", second.ID)
	}
}
