package app

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newMetricsCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show event counts, mean completion duration, and recent events",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, closeDB, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			summary, err := manager.MetricsSummary(cmd.Context(), n)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "avg_duration_ms: %.2f\n\n", summary.AvgDurationMs)

			counts := tablewriter.NewWriter(cmd.OutOrStdout())
			counts.SetHeader([]string{"EventType", "Count"})
			for _, eventType := range []string{"enqueued", "started", "completed", "failed", "dlq"} {
				counts.Append([]string{eventType, fmt.Sprintf("%d", summary.Counts[eventType])})
			}
			counts.Render()

			fmt.Fprintln(cmd.OutOrStdout())

			recent := tablewriter.NewWriter(cmd.OutOrStdout())
			recent.SetHeader([]string{"Seq", "JobID", "EventType", "Timestamp"})
			for _, e := range summary.Recent {
				recent.Append([]string{
					fmt.Sprintf("%d", e.Seq),
					e.JobID,
					e.EventType,
					e.Timestamp.Format("2006-01-02T15:04:05Z"),
				})
			}
			recent.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 10, "number of recent events to show")
	return cmd
}
