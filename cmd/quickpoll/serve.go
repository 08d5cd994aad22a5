package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/quickpoll"
	"github.com/jpalmerr/quickpoll/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// serveCmd starts the QuickPoll server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the poll server",
	Long: `Start the QuickPoll server.

The server will:
  - Load configuration from the specified YAML file
  - Seed the demo poll and any configured polls
  - Serve the poll UI and JSON API on the configured port

All polls and votes are kept in memory and lost when the server stops.
The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  quickpoll serve -c config.yaml
  quickpoll serve -c config.yaml --env-file .env --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	serveCmd.Flags().Bool("debug", false, "log requests and votes at debug level")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	logger := newLogger(debug)

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("config loaded",
		"demo", cfg.Demo,
		"seed_polls", len(cfg.Polls),
	)
	logger.Info("starting server",
		"port", cfg.Port,
		"id_attempts", cfg.IDAttempts,
	)

	opts := append(config.BuildOptions(cfg), quickpoll.WithLogger(logger))

	qp, err := quickpoll.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create QuickPoll: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- qp.Start(ctx)
	}()

	// wait for server to finish
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
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
