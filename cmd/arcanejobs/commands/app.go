package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arcanejobs/arcanejobs/internal/config"
	"github.com/arcanejobs/arcanejobs/internal/job"
)

// app carries the resolved configuration and the store shared by the
// subcommands of one invocation.
type app struct {
	cfg       *config.Config
	ephemeral bool

	store *job.Store
	db    *job.SQLiteSlot
}

// withStore adapts run into a cobra RunE that opens the store first and
// closes it when run returns, whether or not run failed. Help and completion
// never touch the database.
func (a *app) withStore(run func(cmd *cobra.Command, args []string, store *job.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := a.openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if err := a.close(); err != nil {
				slog.Warn("close database", "error", err)
			}
		}()
		return run(cmd, args, store)
	}
}

func (a *app) openStore(ctx context.Context) (*job.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	var slot job.Slot
	if a.ephemeral {
		slot = job.NewMemorySlot(nil)
	} else {
		db, err := job.NewSQLiteSlot(a.cfg.DBPath, a.cfg.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.db = db
		slot = db
	}

	store, err := job.Open(ctx, slot)
	if err != nil {
		a.close() //nolint:errcheck
		return nil, fmt.Errorf("open store: %w", err)
	}
	if a.db != nil {
		slog.Debug("store opened", "jobs", store.Len(), "db", a.cfg.DBPath, "key", a.db.Key())
	} else {
		slog.Debug("store opened", "jobs", store.Len(), "ephemeral", true)
	}
	a.store = store
	return store, nil
}

func (a *app) close() error {
	a.store = nil
	if a.db == nil {
		return nil
	}
	db := a.db
	a.db = nil
	return db.Close()
}
