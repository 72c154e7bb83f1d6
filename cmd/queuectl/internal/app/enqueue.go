package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/queue"
)

func newEnqueueCmd() *cobra.Command {
	var (
		priority   int
		maxRetries uint32
		runAt      string
		generateID bool
	)

	cmd := &cobra.Command{
		Use:   "enqueue <id> <command>",
		Short: "Enqueue a new shell command job",
		Long: "Enqueue a new shell command job. Pass --generate-id to have queuectl\n" +
			"assign a random id instead of supplying one as the first argument.",
		Args: func(cmd *cobra.Command, args []string) error {
			want := 2
			if generateID {
				want = 1
			}
			return cobra.ExactArgs(want)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, closeDB, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			var id, command string
			if generateID {
				id, command = uuid.NewString(), args[0]
			} else {
				id, command = args[0], args[1]
			}

			req := queue.EnqueueRequest{
				ID:         id,
				Command:    command,
				Priority:   priority,
				MaxRetries: maxRetries,
			}
			if runAt != "" {
				parsed, err := time.Parse(time.RFC3339, runAt)
				if err != nil {
					return fmt.Errorf("invalid --run-at %q: %w", runAt, err)
				}
				req.RunAt = parsed
			}

			j, err := manager.Enqueue(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enqueued job %s (state=%s, priority=%d)\n", j.ID, j.State, j.Priority)
			return nil
		},
	}

	cmd.Flags().IntVar(&priority, "priority", 0, "priority 1-10 (default 5)")
	cmd.Flags().Uint32Var(&maxRetries, "max-retries", 0, "max retries, default from config")
	cmd.Flags().StringVar(&runAt, "run-at", "", "earliest eligibility, RFC3339 UTC (e.g. 2026-07-30T12:00:00Z)")
	cmd.Flags().BoolVar(&generateID, "generate-id", false, "assign a random id instead of taking one as the first argument")
	return cmd
}
