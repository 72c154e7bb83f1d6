package app

import (
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/job"
)

func newListCmd() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, optionally filtered by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, closeDB, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			filter := job.Unknown
			if state != "" {
				filter, err = job.ParseState(state)
				if err != nil {
					return err
				}
			}

			jobs, err := manager.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			now := time.Now()
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "State", "Ready", "Priority", "Attempts", "MaxRetries", "RunAt", "CreatedAt"})
			for _, j := range jobs {
				runAt := ""
				if !j.RunAt.IsZero() {
					runAt = j.RunAt.Format("2006-01-02T15:04:05Z")
				}
				table.Append([]string{
					j.ID,
					j.State.String(),
					fmt.Sprintf("%t", j.Ready(now)),
					fmt.Sprintf("%d", j.Priority),
					fmt.Sprintf("%d", j.Attempts),
					fmt.Sprintf("%d", j.MaxRetries),
					runAt,
					j.CreatedAt.Format("2006-01-02T15:04:05Z"),
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "filter by state (pending, processing, completed, dead)")
	return cmd
}
