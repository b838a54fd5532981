package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"menupick-admin-worker/router"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog admin HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts, "serve")
			if err != nil {
				return err
			}
			defer a.close()

			return listen(ctx, a, "")
		},
	}
}

// listen 跑到 ctx 結束為止，再給 in-flight request 一段時間收尾
func listen(ctx context.Context, a *app, connectionName string) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Router.Port),
		Handler: router.Router(a.router(connectionName)),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("addr", server.Addr).Info("http server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("http server shutting down")
	return server.Shutdown(shutdownCtx)
}
