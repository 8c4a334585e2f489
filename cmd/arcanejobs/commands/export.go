package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcanejobs/arcanejobs/internal/job"
)

func newExportCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all job applications to a JSON export file",
		Example: `  # Write arcane-jobs-export-<today>.json in the current directory
  arcanejobs export

  # Print to stdout
  arcanejobs export -o -`,
		Args: cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *job.Store) error {
			if output == "-" {
				_, err := store.Export(cmd.OutOrStdout())
				return err
			}
			if output == "" {
				output = job.ExportFilename(time.Now())
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			n, err := store.Export(f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("write export file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d jobs to %s\n", n, output)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default: arcane-jobs-export-<date>.json)")
	return cmd
}
