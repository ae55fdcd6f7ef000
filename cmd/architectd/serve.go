package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/architectd/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the architectd HTTP server",
	Long: `Start the HTTP server that drives the build pipeline.

Examples:
  # Start with defaults (port 8080, state under data/projects)
  architectd serve

  # Start with a config file
  architectd serve --config /etc/architectd/config.yaml

  # Override via environment
  ARCHITECTD_SERVER_PORT=9000 architectd serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, st, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.Storage.Watch {
		if err := st.Watch(ctx); err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
	}

	server, err := httpapi.NewServer(cfg, st, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
