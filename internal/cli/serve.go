package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"issue-tracking/internal/database"
	"issue-tracking/internal/router"
	"issue-tracking/internal/telemetry"
)

type serveOptions struct {
	*RootOptions
	migrate bool
}

func NewServeCommand(root *RootOptions) *cobra.Command {
	opts := &serveOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, l := opts.Config, opts.Log

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(cfg, l, "issue-tracking")
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			l.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router.New(l, db, cfg), "issue-tracking"),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		l.Info().Str("addr", srv.Addr).Str("driver", db.Dialect.Name()).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	// graceful shutdown
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	l.Info().Msg("shutdown complete")
	return nil
}
