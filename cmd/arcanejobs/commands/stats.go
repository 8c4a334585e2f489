package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanejobs/arcanejobs/internal/job"
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many applications are in each status",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *job.Store) error {
			st := store.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-14s %d\n", "Total", st.Total)
			for _, s := range job.Statuses {
				fmt.Fprintf(out, "%-14s %d\n", s, st.ByStatus[s])
			}
			return nil
		}),
	}
}
