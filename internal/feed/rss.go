// Package feed pulls headlines from RSS and Atom feeds and maps them onto
// news articles.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// maxConcurrentFeeds bounds parallel feed downloads.
const maxConcurrentFeeds = 4

// Source is one configured feed.
type Source struct {
	URL      string
	Category string
	Source   string // display name; the feed title is used when empty
}

// RSSIngester downloads every configured feed and converts the newest items.
type RSSIngester struct {
	sources  []Source
	maxItems int
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

// NewRSSIngester creates an ingester keeping at most maxItems per feed.
func NewRSSIngester(sources []Source, maxItems int, timeout time.Duration, logger *slog.Logger) *RSSIngester {
	if maxItems <= 0 {
		maxItems = 20
	}
	return &RSSIngester{
		sources:  sources,
		maxItems: maxItems,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With(slog.String("component", "rss")),
		now:      time.Now,
	}
}

// Sources returns the configured feeds.
func (r *RSSIngester) Sources() []Source {
	return r.sources
}

// Fetch downloads and maps one feed.
func (r *RSSIngester) Fetch(ctx context.Context, src Source) ([]domain.NewsArticle, error) {
	fp := gofeed.NewParser()
	fp.Client = r.client
	f, err := fp.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("feed: parse %s: %w", src.URL, err)
	}
	return MapFeed(f, src, r.maxItems, r.now()), nil
}

// FetchAll downloads every feed concurrently. Feeds that fail are logged and
// skipped; the joined error reports them while the articles from healthy
// feeds are still returned.
func (r *RSSIngester) FetchAll(ctx context.Context) ([]domain.NewsArticle, error) {
	var (
		mu   sync.Mutex
		out  []domain.NewsArticle
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFeeds)
	for _, src := range r.sources {
		g.Go(func() error {
			items, err := r.Fetch(gctx, src)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.WarnContext(gctx, "rss: feed failed",
					slog.String("url", src.URL),
					slog.String("error", err.Error()),
				)
				errs = append(errs, err)
				return nil
			}
			r.logger.DebugContext(gctx, "rss: feed parsed",
				slog.String("url", src.URL),
				slog.Int("items", len(items)),
			)
			out = append(out, items...)
			return nil
		})
	}
	_ = g.Wait()

	sortNewestFirst(out)
	return out, errors.Join(errs...)
}

// MapFeed converts feed items to articles, newest first, keeping at most
// maxItems. Items without a link or guid are dropped.
func MapFeed(f *gofeed.Feed, src Source, maxItems int, now time.Time) []domain.NewsArticle {
	sourceName := src.Source
	if sourceName == "" {
		sourceName = strings.TrimSpace(f.Title)
	}

	out := make([]domain.NewsArticle, 0, len(f.Items))
	for _, item := range f.Items {
		key := strings.TrimSpace(item.Link)
		if key == "" {
			key = strings.TrimSpace(item.GUID)
		}
		if key == "" {
			continue
		}
		out = append(out, domain.NewsArticle{
			ID:          ArticleID(key),
			Title:       strings.TrimSpace(item.Title),
			Summary:     strings.TrimSpace(item.Description),
			Source:      sourceName,
			URL:         item.Link,
			ImageURL:    imageURL(item),
			Category:    src.Category,
			PublishedAt: publishedAt(item, now),
		})
	}

	sortNewestFirst(out)
	if maxItems > 0 && len(out) > maxItems {
		out = out[:maxItems]
	}
	return out
}

// ArticleID derives a stable id from an item link.
func ArticleID(link string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

func publishedAt(item *gofeed.Item, now time.Time) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	default:
		return now
	}
}

func imageURL(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

func sortNewestFirst(items []domain.NewsArticle) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}
