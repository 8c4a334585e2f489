package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arcanejobs/arcanejobs/internal/config"
)

const cliExecutable = "arcanejobs"

// NewCommand constructs the top-level arcanejobs command. Persistent flags
// override the ARCANE_* environment configuration.
func NewCommand() *cobra.Command {
	var (
		a        = &app{}
		dbPath   string
		key      string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Track job applications from the terminal or the browser",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}
			if cmd.Flags().Changed("key") {
				cfg.StorageKey = key
			}
			if cmd.Flags().Changed("log-level") {
				if cfg.LogLevel, err = config.ParseLevel(logLevel); err != nil {
					return err
				}
			}
			a.cfg = cfg

			// Logs go to stderr so table and export output stay clean on stdout.
			slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.LogLevel,
			})))
			return nil
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default from ARCANE_DB_PATH)")
	cmd.PersistentFlags().StringVar(&key, "key", "", "Storage key holding the job collection")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "Keep jobs in memory only for this run")

	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newListCommand(a))
	cmd.AddCommand(newShowCommand(a))
	cmd.AddCommand(newAddCommand(a))
	cmd.AddCommand(newEditCommand(a))
	cmd.AddCommand(newDeleteCommand(a))
	cmd.AddCommand(newStatsCommand(a))
	cmd.AddCommand(newExportCommand(a))
	cmd.AddCommand(newImportCommand(a))

	return cmd
}
