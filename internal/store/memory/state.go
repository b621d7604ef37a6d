// Package memory holds the in-process state container and the in-memory
// implementations of the domain store and cache interfaces.
package memory

import (
	"slices"
	"sort"
	"sync"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// State is the mutex-guarded container every screen reads from. Collections
// are replaced wholesale on refetch; readers always receive copies.
type State struct {
	mu        sync.RWMutex
	markets   []domain.Market
	news      []domain.NewsArticle
	positions []domain.Position
	history   []domain.TradeHistoryItem
	settings  domain.Settings
	watchlist []string
	bookmarks []string
}

// NewState returns an empty container with default settings.
func NewState() *State {
	return &State{settings: domain.DefaultSettings()}
}

// Markets returns a copy of the market list in seed order.
func (s *State) Markets() []domain.Market {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.markets)
}

// SetMarkets replaces the market list.
func (s *State) SetMarkets(markets []domain.Market) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markets = slices.Clone(markets)
}

// Market looks up one market by id.
func (s *State) Market(id string) (domain.Market, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.markets {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Market{}, false
}

// News returns a copy of the article list.
func (s *State) News() []domain.NewsArticle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.news)
}

// SetNews replaces the article list.
func (s *State) SetNews(news []domain.NewsArticle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news = slices.Clone(news)
}

// MergeNews upserts articles by id and keeps the list newest first. When
// limit is positive only the newest limit articles are retained; bookmarked
// articles are never evicted. It returns the number of articles that were
// not present before.
func (s *State) MergeNews(items []domain.NewsArticle, limit int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int, len(s.news))
	for i, a := range s.news {
		index[a.ID] = i
	}
	added := 0
	for _, a := range items {
		if i, ok := index[a.ID]; ok {
			s.news[i] = a
			continue
		}
		index[a.ID] = len(s.news)
		s.news = append(s.news, a)
		added++
	}
	sort.SliceStable(s.news, func(i, j int) bool {
		return s.news[i].PublishedAt.After(s.news[j].PublishedAt)
	})

	if limit > 0 && len(s.news) > limit {
		kept := make([]domain.NewsArticle, limit, limit+len(s.bookmarks))
		copy(kept, s.news[:limit])
		for _, a := range s.news[limit:] {
			if slices.Contains(s.bookmarks, a.ID) {
				kept = append(kept, a)
			}
		}
		s.news = kept
	}
	return added
}

// Article looks up one article by id.
func (s *State) Article(id string) (domain.NewsArticle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.news {
		if a.ID == id {
			return a, true
		}
	}
	return domain.NewsArticle{}, false
}

// Positions returns a copy of the open positions.
func (s *State) Positions() []domain.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.positions)
}

// SetPositions replaces the open positions.
func (s *State) SetPositions(positions []domain.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = slices.Clone(positions)
}

// TradeHistory returns a copy of the fill history.
func (s *State) TradeHistory() []domain.TradeHistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history)
}

// SetTradeHistory replaces the fill history.
func (s *State) SetTradeHistory(history []domain.TradeHistoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = slices.Clone(history)
}

// Settings returns the current settings.
func (s *State) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings merges patch into the current settings and returns the
// result.
func (s *State) UpdateSettings(patch domain.SettingsPatch) domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = patch.Apply(s.settings)
	return s.settings
}

// Watchlist returns the watched market ids in insertion order.
func (s *State) Watchlist() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.watchlist)
}

// IsWatched reports whether marketID is on the watchlist.
func (s *State) IsWatched(marketID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.watchlist, marketID)
}

// ToggleWatch adds marketID when absent and removes it when present. It
// returns the resulting membership.
func (s *State) ToggleWatch(marketID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.watchlist, marketID); i >= 0 {
		s.watchlist = slices.Delete(s.watchlist, i, i+1)
		return false
	}
	s.watchlist = append(s.watchlist, marketID)
	return true
}

// Bookmarks returns the bookmarked article ids in insertion order.
func (s *State) Bookmarks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.bookmarks)
}

// SetBookmark adds or removes articleID. Both directions are idempotent.
func (s *State) SetBookmark(articleID string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.bookmarks, articleID)
	switch {
	case on && i < 0:
		s.bookmarks = append(s.bookmarks, articleID)
	case !on && i >= 0:
		s.bookmarks = slices.Delete(s.bookmarks, i, i+1)
	}
}

// IsBookmarked reports whether articleID is bookmarked.
func (s *State) IsBookmarked(articleID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.bookmarks, articleID)
}
