package sqlite_test

import (
	"context"
	"testing"

	"github.com/queuectl/queuectl/job"
)

func TestClean(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertJob(t, ctx, store, "a", 5)
	j, err := store.Claim(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.MarkCompleted(ctx, j.ID, 1); err != nil {
		t.Fatal(err)
	}

	count, err := store.Clean(ctx, job.Completed, nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 deleted job, got %d", count)
	}
}

func TestCleanRejectsNonTerminalState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Clean(ctx, job.Processing, nil); err == nil {
		t.Fatal("expected error cleaning a non-terminal state")
	}
}
