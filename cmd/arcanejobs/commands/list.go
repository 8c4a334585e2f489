package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arcanejobs/arcanejobs/internal/job"
)

func newListCommand(a *app) *cobra.Command {
	var q job.Query

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job applications, newest first",
		Example: `  arcanejobs list
  arcanejobs list --status Interviewing
  arcanejobs list --search acme`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if q.Status != "" && q.Status != job.StatusAll && !job.Status(q.Status).IsValid() {
				return fmt.Errorf("unknown status %q", q.Status)
			}
			return nil
		},
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *job.Store) error {
			jobs := store.List(q)
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No jobs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "APPLIED\tCOMPANY\tTITLE\tSTATUS\tLOCATION\tID")
			for _, j := range jobs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					j.AppliedDate, j.CompanyName, j.JobTitle, j.Status, j.Location, j.ID)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "Case-insensitive match on company or title")
	cmd.Flags().StringVar(&q.Status, "status", job.StatusAll, "Applied, Interviewing, Offer, Rejected or All")
	return cmd
}
