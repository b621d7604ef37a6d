// Package server exposes the HTTP + WebSocket API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/server/handler"
	"github.com/noopishere/vector-mobile/internal/server/middleware"
	"github.com/noopishere/vector-mobile/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port           int
	CORSOrigins    []string
	APIKey         string // empty disables authentication
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	TrustedProxies []string // peers whose X-Forwarded-For is believed
}

// Handlers aggregates every HTTP handler the server registers.
type Handlers struct {
	Health     *handler.HealthHandler
	Status     *handler.StatusHandler
	Markets    *handler.MarketHandler
	News       *handler.NewsHandler
	Portfolio  *handler.PortfolioHandler
	Watchlist  *handler.WatchlistHandler
	Settings   *handler.SettingsHandler
	Onboarding *handler.OnboardingHandler
}

// Server is the vector API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer registers all routes and wraps them in the middleware chain:
// CORS, request timeout, logging, metrics, rate limiting, auth. wsHub and limiter may be nil.
func NewServer(cfg Config, h Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.Health.HealthCheck)
	mux.HandleFunc("GET /api/status", h.Status.GetStatus)

	mux.HandleFunc("GET /api/markets", h.Markets.ListMarkets)
	mux.HandleFunc("GET /api/markets/{id}", h.Markets.GetMarket)
	mux.HandleFunc("POST /api/markets/refresh", h.Markets.RefreshMarkets)

	mux.HandleFunc("GET /api/news", h.News.ListNews)
	mux.HandleFunc("GET /api/news/bookmarks", h.News.ListBookmarks)
	mux.HandleFunc("GET /api/news/{id}", h.News.GetArticle)
	mux.HandleFunc("PUT /api/news/{id}/bookmark", h.News.Bookmark)
	mux.HandleFunc("DELETE /api/news/{id}/bookmark", h.News.Unbookmark)
	mux.HandleFunc("GET /api/feed", h.News.Feed)

	mux.HandleFunc("GET /api/portfolio/positions", h.Portfolio.ListPositions)
	mux.HandleFunc("GET /api/portfolio/positions/{id}", h.Portfolio.GetPosition)
	mux.HandleFunc("GET /api/portfolio/stats", h.Portfolio.GetStats)
	mux.HandleFunc("GET /api/portfolio/history", h.Portfolio.ListHistory)

	mux.HandleFunc("GET /api/watchlist", h.Watchlist.ListWatchlist)
	mux.HandleFunc("POST /api/watchlist/{id}/toggle", h.Watchlist.Toggle)

	mux.HandleFunc("GET /api/settings", h.Settings.GetSettings)
	mux.HandleFunc("PATCH /api/settings", h.Settings.PatchSettings)

	mux.HandleFunc("GET /api/onboarding", h.Onboarding.GetOnboarding)
	mux.HandleFunc("POST /api/onboarding/complete", h.Onboarding.Complete)
	mux.HandleFunc("DELETE /api/onboarding", h.Onboarding.Reset)

	mux.Handle("GET /metrics", promhttp.Handler())
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var api http.Handler = mux
	api = middleware.Auth(cfg.APIKey, "/api/health", "/metrics")(api)
	api = middleware.RateLimit(limiter, cfg.RateLimit, cfg.RateWindow, logger, cfg.TrustedProxies...)(api)
	api = middleware.Metrics()(api)
	api = middleware.Logging(logger)(api)
	// Outside logging so the matched route pattern is visible to it.
	api = middleware.Timeout(cfg.RequestTimeout, "/ws")(api)
	api = middleware.CORS(cfg.CORSOrigins)(api)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           api,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      writeTimeout(cfg.RequestTimeout),
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// writeTimeout leaves room for the simulated fetch delay on top of the
// request budget.
func writeTimeout(request time.Duration) time.Duration {
	if request <= 0 {
		return 30 * time.Second
	}
	return request + 5*time.Second
}

// Handler returns the fully wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until the server fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Serve accepts connections on l, for tests that need an ephemeral port.
func (s *Server) Serve(l net.Listener) error {
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: serve: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
