package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/config"
	"github.com/queuectl/queuectl/job"
)

func newCleanCmd() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Permanently delete terminal (completed or dead) jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			s, err := job.ParseState(state)
			if err != nil {
				return err
			}

			store, closeDB, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := store.Clean(cmd.Context(), s, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d job(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "completed", "terminal state to clean (completed or dead)")
	return cmd
}
