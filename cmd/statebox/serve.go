package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/statebox"
	"github.com/jpalmerr/statebox/config"
	"github.com/jpalmerr/statebox/internal/broadcast"
	"github.com/jpalmerr/statebox/internal/metrics"
	"github.com/jpalmerr/statebox/internal/server"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// serveCmd starts the HTTP service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	Long: `Start the statebox HTTP service.

The server will:
  - Load configuration from the specified YAML file
  - Seed the todo and counter stores
  - Serve the REST API, the SSE feed and /metrics on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  statebox serve -c config.yaml
  statebox serve --config /etc/statebox/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.Level())
	logger.Info("config loaded",
		"todos", len(cfg.Todos),
		"reentrancy", cfg.Reentrancy,
	)

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- serve(ctx, cfg, logger)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}

// serve builds the stores from cfg and runs the HTTP server until ctx is
// cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if ctx.Err() != nil {
		return nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	obs := metrics.New(metrics.WithRegistry(reg))

	opts := []statebox.Option{
		statebox.WithLogger(logger),
		statebox.WithObserver(obs),
	}

	todos, err := config.BuildTodoStore(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to build todo store: %w", err)
	}
	counters, err := config.BuildCounterStore(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to build counter store: %w", err)
	}

	hub := broadcast.NewHub()
	unbridge := server.Bridge(todos, counters, hub, logger)
	defer unbridge()

	srv := server.NewServer(todos, counters, hub,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		cfg.Port, cfg.Title, logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	logger.Info("statebox listening", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))

	<-ctx.Done()
	logger.Info("statebox stopped")
	return nil
}
