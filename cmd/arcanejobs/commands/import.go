package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcanejobs/arcanejobs/internal/job"
)

func newImportCommand(a *app) *cobra.Command {
	var merge, replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load job applications from an export file",
		Long: `Load job applications from a JSON file.

The file may be a bare array of jobs, an export envelope with a "jobs" key,
or a legacy file with an "applications" key. With --replace the current
collection is discarded. With --merge only jobs whose id is not already
stored are added. Without either flag you are asked which to do.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *job.Store) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			if !merge && !replace {
				yes, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Replace all existing job data?")
				if err != nil {
					return err
				}
				merge = !yes
			}

			res, err := store.Import(cmd.Context(), raw, merge)
			if err != nil {
				var ferr *job.ImportFormatError
				if errors.As(err, &ferr) {
					return fmt.Errorf("Import failed: %w", err) //nolint:staticcheck
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Message())
			return nil
		}),
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Add only jobs whose id is not already stored")
	cmd.Flags().BoolVar(&replace, "replace", false, "Discard existing jobs and load the file")
	cmd.MarkFlagsMutuallyExclusive("merge", "replace")
	return cmd
}
