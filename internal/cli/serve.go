package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forsidenis/kanban/internal/app"
	"github.com/forsidenis/kanban/internal/httpapi"
	"github.com/forsidenis/kanban/internal/infra/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// shutdownTimeout bounds how long in-flight requests may take after a signal.
const shutdownTimeout = 10 * time.Second

// newServeCommand creates the serve command.
func newServeCommand(c *app.Container, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST server",
		Long: `Start the REST server on --addr.

The snapshot store is loaded once at startup. With autosave enabled every
change is written immediately; otherwise the snapshot is written on shutdown.
SIGINT and SIGTERM stop the server gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, c, cmd)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (host:port)")
	bindFlag(v, keyServerAddr, cmd.Flags(), "addr")
	return cmd
}

func runServer(ctx context.Context, c *app.Container, cmd *cobra.Command) error {
	logger := logging.Component(c.Logger, "server")

	svc, closer, err := c.Service(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ln, err := net.Listen("tcp", c.AppConfig.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler:           httpapi.NewRouter(svc, c.Metrics, c.Logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info().Str("addr", ln.Addr().String()).Str("backend", c.AppConfig.Store.Backend).Msg("server started")
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", ln.Addr())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	if !c.AppConfig.Store.AutosaveEnabled() {
		if err := svc.Save(shutCtx); err != nil {
			return fmt.Errorf("save snapshot on shutdown: %w", err)
		}
	}
	logger.Info().Msg("stopped")
	return nil
}
