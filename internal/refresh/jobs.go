package refresh

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/metrics"
)

// Job names.
const (
	JobRefresh  = "refresh"
	JobFeeds    = "feeds"
	JobSnapshot = "snapshot"
)

// MarketRefresher forces a perturbing fetch.
type MarketRefresher interface {
	RefreshMarkets(ctx context.Context) ([]domain.Market, error)
	RefreshPositions(ctx context.Context) ([]domain.Position, error)
}

// PriceObserver reacts to a new market board.
type PriceObserver interface {
	Observe(ctx context.Context, markets []domain.Market) int
}

// ArticleSource fetches articles from every configured feed.
type ArticleSource interface {
	FetchAll(ctx context.Context) ([]domain.NewsArticle, error)
}

// ArticleSink merges fetched articles into the news collection.
type ArticleSink interface {
	Ingest(ctx context.Context, items []domain.NewsArticle) int
}

// Snapshotter uploads the board and returns its key.
type Snapshotter interface {
	Snapshot(ctx context.Context) (string, error)
}

// RefreshJob refreshes markets and positions, then hands the new board to
// observer. observer may be nil.
func RefreshJob(src MarketRefresher, observer PriceObserver) JobFunc {
	return func(ctx context.Context) error {
		markets, err := src.RefreshMarkets(ctx)
		if err != nil {
			return fmt.Errorf("refresh markets: %w", err)
		}
		if _, err := src.RefreshPositions(ctx); err != nil {
			return fmt.Errorf("refresh positions: %w", err)
		}
		if observer != nil {
			observer.Observe(ctx, markets)
		}
		return nil
	}
}

// FeedJob pulls every feed and ingests whatever arrived. Partial feed
// failures still ingest the healthy feeds and report the error.
func FeedJob(src ArticleSource, sink ArticleSink, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		items, fetchErr := src.FetchAll(ctx)
		perSource := make(map[string]int)
		for _, a := range items {
			perSource[a.Source]++
		}
		for source, n := range perSource {
			metrics.RecordFeedItems(source, n)
		}
		added := sink.Ingest(ctx, items)
		logger.InfoContext(ctx, "refresh: feeds ingested",
			slog.Int("fetched", len(items)),
			slog.Int("added", added),
		)
		if fetchErr != nil {
			return fmt.Errorf("fetch feeds: %w", fetchErr)
		}
		return nil
	}
}

// SnapshotJob uploads one board snapshot.
func SnapshotJob(snap Snapshotter) JobFunc {
	return func(ctx context.Context) error {
		if _, err := snap.Snapshot(ctx); err != nil {
			return err
		}
		return nil
	}
}
