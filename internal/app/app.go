// Package app wires configuration, infrastructure and services together and
// runs the processes selected by the configured mode.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/noopishere/vector-mobile/internal/config"
)

// App is the root application object. It owns the configuration, the logger
// and the cleanup functions run in reverse order on Close.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	version   string
	startedAt time.Time
	closers   []func()
}

// New creates an App.
func New(cfg *config.Config, logger *slog.Logger, version string) *App {
	return &App{
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "app")),
		version:   version,
		startedAt: time.Now().UTC(),
	}
}

// Run wires everything, starts the goroutines for the configured mode and
// blocks until ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "app: starting",
		slog.String("mode", a.cfg.Mode),
		slog.String("version", a.version),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)
	a.logger.InfoContext(ctx, "app: backends ready",
		slog.String("flags", deps.Backend["flags"]),
		slog.String("bus", deps.Backend["bus"]),
		slog.String("blob", deps.Backend["blob"]),
		slog.Bool("notify", deps.Notifier.Enabled()),
	)

	svc := BuildServices(a.cfg, deps, a.logger)

	switch strings.ToLower(a.cfg.Mode) {
	case "full":
		return a.FullMode(ctx, deps, svc)
	case "api":
		return a.APIMode(ctx, deps, svc)
	case "worker":
		return a.WorkerMode(ctx, deps, svc)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close tears down all resources in reverse registration order. Calling it
// again is a no-op.
func (a *App) Close() {
	a.logger.Info("app: shutting down")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
