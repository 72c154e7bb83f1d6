// Command queuectl is the CLI and worker entrypoint for the job queue
// described in spec.md: enqueue/list/status/metrics/dlq operations plus
// starting the worker pool and the HTTP dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/queuectl/queuectl/cmd/queuectl/internal/app"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
