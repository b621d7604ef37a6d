package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noopishere/vector-mobile/internal/refresh"
	"github.com/noopishere/vector-mobile/internal/server"
	"github.com/noopishere/vector-mobile/internal/server/handler"
	"github.com/noopishere/vector-mobile/internal/server/ws"
)

const shutdownTimeout = 5 * time.Second

// FullMode serves the API and runs the background jobs in one process.
func (a *App) FullMode(ctx context.Context, deps *Dependencies, svc *Services) error {
	a.logger.InfoContext(ctx, "app: starting full mode")
	g, ctx := errgroup.WithContext(ctx)
	if err := a.startScheduler(ctx, g, deps, svc); err != nil {
		return err
	}
	a.startHTTPServer(ctx, g, deps, svc)
	return wait(g)
}

// APIMode serves the API only. Refresh events still reach WebSocket clients
// when a worker shares the Redis bus.
func (a *App) APIMode(ctx context.Context, deps *Dependencies, svc *Services) error {
	a.logger.InfoContext(ctx, "app: starting api mode")
	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps, svc)
	return wait(g)
}

// WorkerMode runs the background jobs only.
func (a *App) WorkerMode(ctx context.Context, deps *Dependencies, svc *Services) error {
	a.logger.InfoContext(ctx, "app: starting worker mode")
	g, ctx := errgroup.WithContext(ctx)
	if err := a.startScheduler(ctx, g, deps, svc); err != nil {
		return err
	}
	return wait(g)
}

func wait(g *errgroup.Group) error {
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startHTTPServer adds the API server and WebSocket hub to g. The server
// shuts down gracefully when ctx is cancelled.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, svc *Services) {
	hub := ws.NewHub(deps.Bus, ws.Config{
		Mode:           a.cfg.Mode,
		Version:        a.version,
		StartedAt:      a.startedAt,
		AllowedOrigins: a.cfg.Server.CORSOrigins,
	}, a.logger)
	g.Go(func() error { return hub.Run(ctx) })

	srv := server.NewServer(server.Config{
		Port:           a.cfg.Server.Port,
		CORSOrigins:    a.cfg.Server.CORSOrigins,
		APIKey:         a.cfg.Server.APIKey,
		RateLimit:      a.cfg.Server.RateLimit,
		RateWindow:     a.cfg.Server.RateWindow.Duration,
		RequestTimeout: a.cfg.Server.RequestTimeout.Duration,
		TrustedProxies: a.cfg.Server.TrustedProxies,
	}, server.Handlers{
		Health:     handler.NewHealthHandler(),
		Status:     handler.NewStatusHandler(a.cfg.Mode, a.version, a.startedAt),
		Markets:    handler.NewMarketHandler(svc.Markets, a.logger),
		News:       handler.NewNewsHandler(svc.News, a.logger),
		Portfolio:  handler.NewPortfolioHandler(svc.Portfolio, a.logger),
		Watchlist:  handler.NewWatchlistHandler(svc.Watchlist, a.logger),
		Settings:   handler.NewSettingsHandler(svc.Settings, a.logger),
		Onboarding: handler.NewOnboardingHandler(svc.Onboarding, a.logger),
	}, hub, deps.Limiter, a.logger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}

// startScheduler registers the background jobs and adds the scheduler to g.
func (a *App) startScheduler(ctx context.Context, g *errgroup.Group, deps *Dependencies, svc *Services) error {
	if !a.cfg.Refresh.Enabled {
		a.logger.InfoContext(ctx, "app: background refresh disabled")
		return nil
	}

	sched := refresh.NewScheduler(deps.Locks, a.cfg.Refresh.LockTTL.Duration, a.logger)
	if err := sched.Add(refresh.JobRefresh, a.cfg.Refresh.Schedule, false,
		refresh.RefreshJob(svc.Fetcher, svc.Alerts)); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if svc.Feeds != nil {
		if err := sched.Add(refresh.JobFeeds, a.cfg.Feeds.Schedule, true,
			refresh.FeedJob(svc.Feeds, svc.News, a.logger)); err != nil {
			return fmt.Errorf("app: %w", err)
		}
	}
	if svc.Snapshotter != nil {
		if err := sched.Add(refresh.JobSnapshot, a.cfg.Refresh.SnapshotSchedule, false,
			refresh.SnapshotJob(svc.Snapshotter)); err != nil {
			return fmt.Errorf("app: %w", err)
		}
	}

	a.logger.InfoContext(ctx, "app: scheduler configured", slog.Any("jobs", sched.Jobs()))
	g.Go(func() error { return sched.Run(ctx) })
	return nil
}
