package app

import (
	"log/slog"
	"time"

	"github.com/noopishere/vector-mobile/internal/config"
	"github.com/noopishere/vector-mobile/internal/feed"
	"github.com/noopishere/vector-mobile/internal/jitter"
	"github.com/noopishere/vector-mobile/internal/mockdata"
	"github.com/noopishere/vector-mobile/internal/service"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

// Services is the service layer built over one state container.
type Services struct {
	State      *memory.State
	Fetcher    *service.Fetcher
	Markets    *service.MarketService
	News       *service.NewsService
	Portfolio  *service.PortfolioService
	Watchlist  *service.WatchlistService
	Settings   *service.SettingsService
	Onboarding *service.OnboardingService
	Alerts     *service.AlertService

	// Optional; nil when not configured.
	Snapshotter *service.Snapshotter
	Feeds       *feed.RSSIngester
}

// BuildServices seeds a fresh state container with the mock collections and
// builds every service over it.
func BuildServices(cfg *config.Config, deps *Dependencies, logger *slog.Logger) *Services {
	now := time.Now().UTC()
	state := memory.NewState()
	state.SetMarkets(mockdata.Markets(now))
	state.SetNews(mockdata.News(now))
	state.SetPositions(mockdata.Positions(now))
	state.SetTradeHistory(mockdata.TradeHistory(now))

	var perturber *jitter.Perturber
	if cfg.Jitter.Seed != 0 {
		perturber = jitter.NewSeeded(cfg.Jitter.MaxDelta, cfg.Jitter.Seed)
	} else {
		perturber = jitter.New(cfg.Jitter.MaxDelta, nil)
	}

	fetcher := service.NewFetcher(state, perturber, deps.Bus, service.FetcherConfig{
		Delay:          cfg.Fetch.Delay.Duration,
		MarketsStale:   cfg.Fetch.MarketsStale.Duration,
		NewsStale:      cfg.Fetch.NewsStale.Duration,
		PortfolioStale: cfg.Fetch.PortfolioStale.Duration,
	}, logger)

	svc := &Services{
		State:      state,
		Fetcher:    fetcher,
		Markets:    service.NewMarketService(fetcher, state, logger),
		News:       service.NewNewsService(fetcher, state, deps.Bus, logger).WithRetention(cfg.Feeds.MaxTotal),
		Portfolio:  service.NewPortfolioService(fetcher, state, logger),
		Watchlist:  service.NewWatchlistService(state, logger),
		Settings:   service.NewSettingsService(state),
		Onboarding: service.NewOnboardingService(deps.Flags, logger),
		Alerts:     service.NewAlertService(state, deps.Notifier, cfg.Refresh.AlertThreshold, logger),
	}

	if deps.Blob != nil {
		svc.Snapshotter = service.NewSnapshotter(state, deps.Blob, cfg.S3.Prefix, logger)
	}
	if len(cfg.Feeds.Sources) > 0 {
		sources := make([]feed.Source, len(cfg.Feeds.Sources))
		for i, s := range cfg.Feeds.Sources {
			sources[i] = feed.Source{URL: s.URL, Category: s.Category, Source: s.Source}
		}
		svc.Feeds = feed.NewRSSIngester(sources, cfg.Feeds.MaxItems, cfg.Feeds.Timeout.Duration, logger)
	}
	return svc
}
