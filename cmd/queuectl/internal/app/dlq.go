package app

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/job"
)

func newDLQCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and requeue dead-lettered jobs",
	}
	cmd.AddCommand(newDLQListCmd(), newDLQRetryCmd())
	return cmd
}

func newDLQListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dead-lettered jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, closeDB, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			jobs, err := manager.List(cmd.Context(), job.Dead)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Attempts", "MaxRetries", "ErrorMessage", "UpdatedAt"})
			for _, j := range jobs {
				table.Append([]string{
					j.ID,
					fmt.Sprintf("%d", j.Attempts),
					fmt.Sprintf("%d", j.MaxRetries),
					j.ErrorMessage,
					j.UpdatedAt.Format("2006-01-02T15:04:05Z"),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newDLQRetryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Requeue a dead-lettered job, preserving priority and max_retries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, closeDB, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := manager.RetryDead(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requeued job %s\n", args[0])
			return nil
		},
	}
}
