package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcanejobs/arcanejobs/internal/api"
	"github.com/arcanejobs/arcanejobs/internal/job"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web UI",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, store *job.Store) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.ListenAddr = addr
			}

			mux := http.NewServeMux()
			api.NewHandler(store).RegisterRoutes(mux)

			handler := api.Chain(mux,
				api.CORS(a.cfg.CORSOrigins),
				api.RequestID,
				api.Logging,
				api.RateLimit(a.cfg.RateLimit),
			)

			srv := &http.Server{
				Addr:        a.cfg.ListenAddr,
				Handler:     handler,
				ReadTimeout: 30 * time.Second,
				// No WriteTimeout: the events stream stays open.
				IdleTimeout: 60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				slog.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					slog.Error("shutdown error", "error", err)
				}
			}()

			slog.Info("arcanejobs listening", "addr", a.cfg.ListenAddr, "jobs", store.Len())
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from ARCANE_LISTEN_ADDR)")
	return cmd
}
