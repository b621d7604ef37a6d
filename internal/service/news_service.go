package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

// NewsQuery filters and pages the article list.
type NewsQuery struct {
	Category string
	Query    string
	domain.ListOpts
}

// ArticleView is an article as the client renders it.
type ArticleView struct {
	domain.NewsArticle
	Label      string `json:"sentiment_label"`
	Bookmarked bool   `json:"bookmarked"`
}

// ArticleDetail is the article detail screen payload.
type ArticleDetail struct {
	ArticleView
	RelatedMarkets []MarketView `json:"related_markets"`
}

// FeedItem is one feed card: an article with at most two markets.
type FeedItem struct {
	ArticleView
	Markets []MarketView `json:"markets"`
}

// DefaultMaxArticles caps the news collection after an ingest.
const DefaultMaxArticles = 200

// NewsService serves the news, feed and bookmark screens.
type NewsService struct {
	fetcher     *Fetcher
	state       *memory.State
	bus         domain.SignalBus
	logger      *slog.Logger
	maxArticles int
}

// NewNewsService creates a NewsService. bus may be nil.
func NewNewsService(fetcher *Fetcher, state *memory.State, bus domain.SignalBus, logger *slog.Logger) *NewsService {
	return &NewsService{
		fetcher:     fetcher,
		state:       state,
		bus:         bus,
		logger:      logger.With(slog.String("component", "news_service")),
		maxArticles: DefaultMaxArticles,
	}
}

// WithRetention sets how many articles survive an ingest. Non-positive
// values keep the default.
func (s *NewsService) WithRetention(n int) *NewsService {
	if n > 0 {
		s.maxArticles = n
	}
	return s
}

// List returns one page of articles matching q.
func (s *NewsService) List(ctx context.Context, q NewsQuery) (domain.Page[ArticleView], error) {
	news, err := s.fetcher.News(ctx)
	if err != nil {
		return domain.Page[ArticleView]{}, fmt.Errorf("news_service: list: %w", err)
	}
	page := domain.Paginate(FilterNews(news, q.Category, q.Query), q.ListOpts)
	bookmarks := s.state.Bookmarks()
	items := make([]ArticleView, len(page.Items))
	for i, a := range page.Items {
		items[i] = articleView(a, slices.Contains(bookmarks, a.ID))
	}
	return domain.Page[ArticleView]{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}, nil
}

// Get returns one article with up to three related markets.
func (s *NewsService) Get(ctx context.Context, id string) (ArticleDetail, error) {
	news, err := s.fetcher.News(ctx)
	if err != nil {
		return ArticleDetail{}, fmt.Errorf("news_service: get %q: %w", id, err)
	}
	idx := slices.IndexFunc(news, func(a domain.NewsArticle) bool { return a.ID == id })
	if idx < 0 {
		return ArticleDetail{}, fmt.Errorf("news_service: get %q: %w", id, domain.ErrNotFound)
	}
	markets, err := s.fetcher.Markets(ctx)
	if err != nil {
		return ArticleDetail{}, fmt.Errorf("news_service: get %q: %w", id, err)
	}
	a := news[idx]
	return ArticleDetail{
		ArticleView:    articleView(a, s.state.IsBookmarked(a.ID)),
		RelatedMarkets: s.marketViews(relatedMarkets(a, markets, detailRelatedLimit)),
	}, nil
}

// Feed returns one page of articles, each with at most two related markets.
func (s *NewsService) Feed(ctx context.Context, opts domain.ListOpts) (domain.Page[FeedItem], error) {
	news, err := s.fetcher.News(ctx)
	if err != nil {
		return domain.Page[FeedItem]{}, fmt.Errorf("news_service: feed: %w", err)
	}
	markets, err := s.fetcher.Markets(ctx)
	if err != nil {
		return domain.Page[FeedItem]{}, fmt.Errorf("news_service: feed: %w", err)
	}

	page := domain.Paginate(news, opts)
	bookmarks := s.state.Bookmarks()
	items := make([]FeedItem, len(page.Items))
	for i, a := range page.Items {
		items[i] = FeedItem{
			ArticleView: articleView(a, slices.Contains(bookmarks, a.ID)),
			Markets:     s.marketViews(relatedMarkets(a, markets, feedMarketsPerArticle)),
		}
	}
	return domain.Page[FeedItem]{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}, nil
}

// Bookmark marks an article. Repeating it is a no-op.
func (s *NewsService) Bookmark(ctx context.Context, id string) error {
	if _, ok := s.state.Article(id); !ok {
		return fmt.Errorf("news_service: bookmark %q: %w", id, domain.ErrNotFound)
	}
	s.state.SetBookmark(id, true)
	return nil
}

// Unbookmark clears an article's bookmark. Repeating it is a no-op.
func (s *NewsService) Unbookmark(ctx context.Context, id string) error {
	if _, ok := s.state.Article(id); !ok {
		return fmt.Errorf("news_service: unbookmark %q: %w", id, domain.ErrNotFound)
	}
	s.state.SetBookmark(id, false)
	return nil
}

// Bookmarks lists bookmarked articles in bookmark order.
func (s *NewsService) Bookmarks(ctx context.Context) []ArticleView {
	ids := s.state.Bookmarks()
	out := make([]ArticleView, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.state.Article(id); ok {
			out = append(out, articleView(a, true))
		}
	}
	return out
}

// Ingest merges fetched articles into the collection and announces the
// change. It returns how many articles were new.
func (s *NewsService) Ingest(ctx context.Context, items []domain.NewsArticle) int {
	if len(items) == 0 {
		return 0
	}
	added := s.state.MergeNews(items, s.maxArticles)
	s.fetcher.Invalidate(collectionNews)
	if added > 0 {
		s.logger.InfoContext(ctx, "news_service: ingested articles",
			slog.Int("received", len(items)),
			slog.Int("added", added),
		)
		s.publish(ctx, added)
	}
	return added
}

func (s *NewsService) publish(ctx context.Context, added int) {
	if s.bus == nil {
		return
	}
	payload, err := json.Marshal(domain.Event{
		Type:      "news_ingested",
		Channel:   domain.ChannelNews,
		Data:      map[string]int{"added": added},
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := s.bus.Publish(ctx, domain.ChannelNews, payload); err != nil {
		s.logger.WarnContext(ctx, "news_service: publish failed", slog.String("error", err.Error()))
	}
}

func (s *NewsService) marketViews(markets []domain.Market) []MarketView {
	out := make([]MarketView, len(markets))
	for i, m := range markets {
		out[i] = MarketView{Market: m, YesCents: m.YesPrice(), NoCents: m.NoPrice(), Watched: s.state.IsWatched(m.ID)}
	}
	return out
}

func articleView(a domain.NewsArticle, bookmarked bool) ArticleView {
	return ArticleView{NewsArticle: a, Label: a.SentimentLabel(), Bookmarked: bookmarked}
}

// FilterNews keeps articles in category whose title contains query.
func FilterNews(news []domain.NewsArticle, category, query string) []domain.NewsArticle {
	out := make([]domain.NewsArticle, 0, len(news))
	for _, a := range news {
		if a.MatchesCategory(category) && a.MatchesQuery(query) {
			out = append(out, a)
		}
	}
	return out
}
