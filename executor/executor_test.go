package executor_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/queuectl/queuectl/executor"
)

func TestExecuteSuccess(t *testing.T) {
	result := executor.Execute(context.Background(), "exit 0", time.Second)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
}

func TestExecuteFailureCapturesStderr(t *testing.T) {
	result := executor.Execute(context.Background(), "echo boom 1>&2; exit 1", time.Second)
	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Error, "boom") {
		t.Fatalf("expected stderr captured, got %q", result.Error)
	}
}

func TestExecuteTimeoutKillsProcessGroup(t *testing.T) {
	start := time.Now()
	result := executor.Execute(context.Background(), "sleep 5", 50*time.Millisecond)
	elapsed := time.Since(start)

	if result.Success {
		t.Fatal("expected timeout failure")
	}
	if elapsed > time.Second {
		t.Fatalf("expected Execute to return promptly after timeout, took %s", elapsed)
	}
}

func TestExecuteTimeoutReapsBackgroundedGrandchild(t *testing.T) {
	// The grandchild backgrounded with `&` inherits the stderr pipe; a
	// Wait that blocks on that pipe closing (instead of killing the
	// whole process group first) would hang well past the timeout.
	start := time.Now()
	result := executor.Execute(context.Background(), "sleep 5 & wait", 50*time.Millisecond)
	elapsed := time.Since(start)

	if result.Success {
		t.Fatal("expected timeout failure")
	}
	if elapsed > 2*time.Second {
		t.Fatalf("expected Execute to reap the backgrounded grandchild promptly, took %s", elapsed)
	}
}
