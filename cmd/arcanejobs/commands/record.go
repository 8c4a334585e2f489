package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcanejobs/arcanejobs/internal/job"
)

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of one job application",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *job.Store) error {
			r, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("job %s: %w", args[0], job.ErrNotFound)
			}
			return printRecord(cmd.OutOrStdout(), r)
		}),
	}
}

func newAddCommand(a *app) *cobra.Command {
	var ff fieldFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new job application",
		Example: `  arcanejobs add --company Acme --title "Backend Engineer"
  arcanejobs add --company Globex --title SRE --status Interviewing --date 2024-05-01`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *job.Store) error {
			created, err := store.Create(cmd.Context(), ff.fields())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s at %s)\n", created.ID, created.JobTitle, created.CompanyName)
			return nil
		}),
	}

	ff.register(cmd, string(job.StatusApplied), time.Now().Format(time.DateOnly))
	return cmd
}

func newEditCommand(a *app) *cobra.Command {
	var ff fieldFlags

	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Change fields of a job application",
		Example: `  arcanejobs edit 2f1c... --status Offer --notes "verbal offer, waiting on paperwork"`,
		Args:    cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *job.Store) error {
			r, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("job %s: %w", args[0], job.ErrNotFound)
			}
			ff.applyChanged(cmd, &r)

			updated, err := store.Update(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Job application updated successfully!")
			return printRecord(cmd.OutOrStdout(), updated)
		}),
	}

	ff.register(cmd, "", "")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a job application",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *job.Store) error {
			r, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("job %s: %w", args[0], job.ErrNotFound)
			}

			if !yes {
				q := fmt.Sprintf("Delete %s at %s? This action cannot be undone.", r.JobTitle, r.CompanyName)
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), q)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := store.Delete(cmd.Context(), r.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Job application deleted successfully!")
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func printRecord(out io.Writer, r job.Record) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"ID", r.ID},
		{"Company", r.CompanyName},
		{"Title", r.JobTitle},
		{"Status", string(r.Status)},
		{"Applied", r.AppliedDate},
		{"Location", r.Location},
		{"Salary", r.Salary},
		{"URL", r.URL},
		{"Contact", r.ContactName},
		{"Email", r.ContactEmail},
		{"Notes", r.Notes},
		{"Updated", r.LastUpdated},
	} {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s:\t%s\n", row[0], row[1])
	}
	return w.Flush()
}
