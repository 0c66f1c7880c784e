// ABOUTME: CLI command for running the local web server.
// ABOUTME: Starts the HTTP API with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/cycle/internal/config"
	"github.com/harperreed/cycle/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	Long: `Start the HTTP server that backs the cycle web UI.

The server binds to localhost by default and serves the JSON API under
/api. It shuts down cleanly on Ctrl-C.

OPTIONS:

  --host    Bind address (default from config, 127.0.0.1)
  --port    Listen port (default from config, 8777)

EXAMPLES:

  cycle serve                   # http://127.0.0.1:8777
  cycle serve --port 9000       # Custom port
  CYCLE_LOG_FORMAT=json cycle serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveHost != "" {
			cfg.Server.Host = serveHost
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		logger, err := config.NewLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		srv, err := server.New(db, logger, cfg.Addr())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		logger.Info("server listening",
			zap.String("addr", cfg.Addr()),
			zap.String("db", cfg.DBPath()))

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
