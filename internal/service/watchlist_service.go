package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

// Watchlist is the watchlist screen payload.
type Watchlist struct {
	IDs     []string     `json:"ids"`
	Markets []MarketView `json:"markets"`
}

// WatchlistService toggles and lists watched markets.
type WatchlistService struct {
	state  *memory.State
	logger *slog.Logger
}

// NewWatchlistService creates a WatchlistService.
func NewWatchlistService(state *memory.State, logger *slog.Logger) *WatchlistService {
	return &WatchlistService{state: state, logger: logger.With(slog.String("component", "watchlist"))}
}

// Toggle flips membership of marketID and returns the new membership.
func (s *WatchlistService) Toggle(ctx context.Context, marketID string) (bool, error) {
	if _, ok := s.state.Market(marketID); !ok {
		return false, fmt.Errorf("watchlist: toggle %q: %w", marketID, domain.ErrNotFound)
	}
	watched := s.state.ToggleWatch(marketID)
	s.logger.DebugContext(ctx, "watchlist: toggled",
		slog.String("market_id", marketID),
		slog.Bool("watched", watched),
	)
	return watched, nil
}

// List returns the watched ids and the markets still present for them.
func (s *WatchlistService) List(ctx context.Context) Watchlist {
	ids := s.state.Watchlist()
	out := Watchlist{IDs: ids, Markets: make([]MarketView, 0, len(ids))}
	for _, id := range ids {
		if m, ok := s.state.Market(id); ok {
			out.Markets = append(out.Markets, MarketView{Market: m, YesCents: m.YesPrice(), NoCents: m.NoPrice(), Watched: true})
		}
	}
	return out
}
