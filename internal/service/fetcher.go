package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/jitter"
	"github.com/noopishere/vector-mobile/internal/metrics"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

// Cache keys, also used as metric labels.
const (
	collectionMarkets   = "markets"
	collectionNews      = "news"
	collectionPortfolio = "portfolio"
)

// FetcherConfig tunes the simulated fetch layer.
type FetcherConfig struct {
	Delay          time.Duration
	MarketsStale   time.Duration
	NewsStale      time.Duration
	PortfolioStale time.Duration
}

// Fetcher simulates a remote API over the state container. A fetch inside a
// collection's staleness window returns the cached snapshot; a fetch after it
// waits out the artificial delay, perturbs the numbers, stores them back and
// announces the change on the signal bus.
type Fetcher struct {
	state  *memory.State
	jitter *jitter.Perturber
	bus    domain.SignalBus
	cache  *cache.Cache
	cfg    FetcherConfig
	logger *slog.Logger

	// mu serialises misses so concurrent callers perturb only once.
	mu sync.Mutex
}

// NewFetcher creates a Fetcher. bus may be nil.
func NewFetcher(
	state *memory.State,
	perturber *jitter.Perturber,
	bus domain.SignalBus,
	cfg FetcherConfig,
	logger *slog.Logger,
) *Fetcher {
	return &Fetcher{
		state:  state,
		jitter: perturber,
		bus:    bus,
		cache:  cache.New(cache.NoExpiration, 5*time.Minute),
		cfg:    cfg,
		logger: logger.With(slog.String("component", "fetcher")),
	}
}

// Markets returns the market list, perturbed when the cached copy is stale.
func (f *Fetcher) Markets(ctx context.Context) ([]domain.Market, error) {
	return fetch(ctx, f, collectionMarkets, f.cfg.MarketsStale, func() []domain.Market {
		next := f.jitter.Markets(f.state.Markets())
		f.state.SetMarkets(next)
		metrics.RecordPerturbation(collectionMarkets, len(next))
		return next
	})
}

// News returns the article list. Articles carry no simulated numbers, so a
// miss only pays the delay.
func (f *Fetcher) News(ctx context.Context) ([]domain.NewsArticle, error) {
	return fetch(ctx, f, collectionNews, f.cfg.NewsStale, f.state.News)
}

// Positions returns open positions with prices nudged and P&L recomputed
// when the cached copy is stale.
func (f *Fetcher) Positions(ctx context.Context) ([]domain.Position, error) {
	return fetch(ctx, f, collectionPortfolio, f.cfg.PortfolioStale, func() []domain.Position {
		next := f.jitter.Positions(f.state.Positions())
		f.state.SetPositions(next)
		metrics.RecordPerturbation(collectionPortfolio, len(next))
		return next
	})
}

// RefreshMarkets bypasses the staleness window.
func (f *Fetcher) RefreshMarkets(ctx context.Context) ([]domain.Market, error) {
	f.Invalidate(collectionMarkets)
	return f.Markets(ctx)
}

// RefreshPositions bypasses the staleness window.
func (f *Fetcher) RefreshPositions(ctx context.Context) ([]domain.Position, error) {
	f.Invalidate(collectionPortfolio)
	return f.Positions(ctx)
}

// Invalidate drops the cached snapshot of collection.
func (f *Fetcher) Invalidate(collection string) {
	f.cache.Delete(collection)
}

func fetch[T any](ctx context.Context, f *Fetcher, key string, stale time.Duration, load func() []T) ([]T, error) {
	if v, ok := f.cache.Get(key); ok {
		metrics.RecordFetch(key, "hit")
		return slices.Clone(v.([]T)), nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Another caller may have filled the cache while we waited.
	if v, ok := f.cache.Get(key); ok {
		metrics.RecordFetch(key, "hit")
		return slices.Clone(v.([]T)), nil
	}

	if err := sleepCtx(ctx, f.cfg.Delay); err != nil {
		metrics.RecordFetch(key, "error")
		return nil, fmt.Errorf("fetcher: %s: %w", key, err)
	}

	items := load()
	if stale > 0 {
		f.cache.Set(key, slices.Clone(items), stale)
	}
	metrics.RecordFetch(key, "miss")
	f.publish(ctx, key, items)
	return items, nil
}

func (f *Fetcher) publish(ctx context.Context, channel string, data any) {
	if f.bus == nil {
		return
	}
	payload, err := json.Marshal(domain.Event{
		Type:      channel + "_updated",
		Channel:   channel,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		f.logger.ErrorContext(ctx, "fetcher: marshal event", slog.String("error", err.Error()))
		return
	}
	if err := f.bus.Publish(ctx, channel, payload); err != nil {
		f.logger.WarnContext(ctx, "fetcher: publish failed",
			slog.String("channel", channel),
			slog.String("error", err.Error()),
		)
	}
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
