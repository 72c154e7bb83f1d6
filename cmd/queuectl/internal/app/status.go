package app

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show job counts grouped by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, closeDB, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			stats, err := manager.Stats(cmd.Context())
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Pending", "Processing", "Completed", "Dead"})
			table.Append([]string{
				fmt.Sprintf("%d", stats.Pending),
				fmt.Sprintf("%d", stats.Processing),
				fmt.Sprintf("%d", stats.Completed),
				fmt.Sprintf("%d", stats.Dead),
			})
			table.Render()
			return nil
		},
	}
}
