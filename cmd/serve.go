package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yt-audio-vault/infrastructure/httpapi"

	"github.com/spf13/cobra"
)

const readHeaderTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the HTTP API on the configured port.

The server stops gracefully on SIGINT or SIGTERM, waiting up to the configured
shutdown timeout for in-flight downloads.

Example:
  BUCKET_NAME=my-bucket yt-audio-vault serve
  yt-audio-vault serve --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config or 8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}

	// Missing tools fail downloads per request; health and listing stay usable
	if err := verifyTools(ctx, deps.logger); err != nil {
		deps.logger.Warn("extraction tools unavailable", "error", err)
	}

	server := httpapi.NewServer(
		deps.audio,
		deps.cookies,
		httpapi.HealthInfo{
			BucketConfigured: cfg.BucketConfigured(),
			ProxyConfigured:  cfg.ProxyConfigured(),
			POTProviderURL:   cfg.Extraction.POTProviderURL,
		},
		httpapi.WithLogger(deps.logger),
		httpapi.WithRecorder(deps.metrics),
		httpapi.WithMetricsHandler(deps.metrics.Handler()),
	)

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	return RunServeWithDependencies(ctx, listener, server.Handler(), cfg.Server.ShutdownTimeout, deps.logger)
}

// RunServeWithDependencies serves handler on listener until ctx is cancelled (for testing)
func RunServeWithDependencies(
	ctx context.Context,
	listener net.Listener,
	handler http.Handler,
	shutdownTimeout time.Duration,
	logger *slog.Logger,
) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", listener.Addr().String())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down http server", "timeout", shutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
