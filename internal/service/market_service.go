package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

// Market sort keys.
const (
	SortVolume      = "volume"
	SortProbability = "probability"
	SortChange      = "change"
	SortEnding      = "ending"
	SortUpdated     = "updated"
)

// MarketQuery filters, orders and pages the market list.
type MarketQuery struct {
	Category string
	Query    string
	Sort     string
	domain.ListOpts
}

// MarketView is a market as the client renders it.
type MarketView struct {
	domain.Market
	YesCents int  `json:"yes_price"`
	NoCents  int  `json:"no_price"`
	Watched  bool `json:"watched"`
}

// MarketDetail is the market detail screen payload.
type MarketDetail struct {
	MarketView
	RelatedNews []ArticleView `json:"related_news"`
}

// MarketService serves the market list and detail screens.
type MarketService struct {
	fetcher *Fetcher
	state   *memory.State
	logger  *slog.Logger
}

// NewMarketService creates a MarketService.
func NewMarketService(fetcher *Fetcher, state *memory.State, logger *slog.Logger) *MarketService {
	return &MarketService{
		fetcher: fetcher,
		state:   state,
		logger:  logger.With(slog.String("component", "market_service")),
	}
}

// List returns one page of markets matching q.
func (s *MarketService) List(ctx context.Context, q MarketQuery) (domain.Page[MarketView], error) {
	markets, err := s.fetcher.Markets(ctx)
	if err != nil {
		return domain.Page[MarketView]{}, fmt.Errorf("market_service: list: %w", err)
	}
	filtered := FilterMarkets(markets, q.Category, q.Query)
	SortMarkets(filtered, q.Sort)
	page := domain.Paginate(filtered, q.ListOpts)
	return domain.Page[MarketView]{
		Items:  s.views(page.Items),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}

// Get returns one market with up to three related articles.
func (s *MarketService) Get(ctx context.Context, id string) (MarketDetail, error) {
	markets, err := s.fetcher.Markets(ctx)
	if err != nil {
		return MarketDetail{}, fmt.Errorf("market_service: get %q: %w", id, err)
	}
	idx := slices.IndexFunc(markets, func(m domain.Market) bool { return m.ID == id })
	if idx < 0 {
		return MarketDetail{}, fmt.Errorf("market_service: get %q: %w", id, domain.ErrNotFound)
	}
	news, err := s.fetcher.News(ctx)
	if err != nil {
		return MarketDetail{}, fmt.Errorf("market_service: get %q: %w", id, err)
	}

	m := markets[idx]
	related := relatedNews(m, news, detailRelatedLimit)
	bookmarks := s.state.Bookmarks()
	views := make([]ArticleView, len(related))
	for i, a := range related {
		views[i] = articleView(a, slices.Contains(bookmarks, a.ID))
	}
	return MarketDetail{MarketView: s.view(m), RelatedNews: views}, nil
}

// Refresh forces a perturbing fetch regardless of staleness.
func (s *MarketService) Refresh(ctx context.Context) ([]MarketView, error) {
	markets, err := s.fetcher.RefreshMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("market_service: refresh: %w", err)
	}
	s.logger.DebugContext(ctx, "market_service: refreshed", slog.Int("count", len(markets)))
	return s.views(markets), nil
}

func (s *MarketService) view(m domain.Market) MarketView {
	return MarketView{Market: m, YesCents: m.YesPrice(), NoCents: m.NoPrice(), Watched: s.state.IsWatched(m.ID)}
}

func (s *MarketService) views(markets []domain.Market) []MarketView {
	watched := s.state.Watchlist()
	out := make([]MarketView, len(markets))
	for i, m := range markets {
		out[i] = MarketView{Market: m, YesCents: m.YesPrice(), NoCents: m.NoPrice(), Watched: slices.Contains(watched, m.ID)}
	}
	return out
}

// FilterMarkets keeps markets in category whose question contains query.
// Empty or ALL category and blank query match everything.
func FilterMarkets(markets []domain.Market, category, query string) []domain.Market {
	out := make([]domain.Market, 0, len(markets))
	for _, m := range markets {
		if m.MatchesCategory(category) && m.MatchesQuery(query) {
			out = append(out, m)
		}
	}
	return out
}

// SortMarkets orders markets in place by key. Unknown keys keep the current
// order; ties keep their relative order.
func SortMarkets(markets []domain.Market, key string) {
	var less func(a, b domain.Market) int
	switch strings.ToLower(strings.TrimSpace(key)) {
	case SortVolume:
		less = func(a, b domain.Market) int { return cmp.Compare(b.Volume, a.Volume) }
	case SortProbability:
		less = func(a, b domain.Market) int { return cmp.Compare(b.Probability, a.Probability) }
	case SortChange:
		less = func(a, b domain.Market) int { return cmp.Compare(math.Abs(b.Change24h), math.Abs(a.Change24h)) }
	case SortUpdated:
		less = func(a, b domain.Market) int { return b.UpdatedAt.Compare(a.UpdatedAt) }
	case SortEnding:
		less = func(a, b domain.Market) int {
			switch {
			case a.EndDate == nil && b.EndDate == nil:
				return 0
			case a.EndDate == nil:
				return 1
			case b.EndDate == nil:
				return -1
			default:
				return a.EndDate.Compare(*b.EndDate)
			}
		}
	default:
		return
	}
	slices.SortStableFunc(markets, less)
}
