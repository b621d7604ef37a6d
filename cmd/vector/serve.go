package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noopishere/vector-mobile/internal/app"
	"github.com/noopishere/vector-mobile/internal/config"
)

var modeOverride string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and background jobs",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&modeOverride, "mode", "", "override the configured mode (full, api, worker)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if modeOverride != "" {
		cfg.Mode = modeOverride
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger := newLogger(cfg.LogLevel)
	logger.Info("vector starting",
		slog.String("mode", cfg.Mode),
		slog.String("version", version),
		slog.Any("config", config.RedactedConfig(cfg)),
	)

	application := app.New(cfg, logger, version)
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("vector exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("vector stopped")
	return nil
}
