package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/noopishere/vector-mobile/internal/service"
)

// WatchlistService defines what the watchlist handler needs.
type WatchlistService interface {
	Toggle(ctx context.Context, marketID string) (bool, error)
	List(ctx context.Context) service.Watchlist
}

// WatchlistHandler serves the watchlist endpoints.
type WatchlistHandler struct {
	watchlist WatchlistService
	logger    *slog.Logger
}

// NewWatchlistHandler creates a WatchlistHandler.
func NewWatchlistHandler(watchlist WatchlistService, logger *slog.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist, logger: logger}
}

// ListWatchlist returns watched ids and their markets.
// GET /api/watchlist
func (h *WatchlistHandler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.watchlist.List(r.Context()))
}

// Toggle flips watchlist membership of a market.
// POST /api/watchlist/{id}/toggle
func (h *WatchlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	watched, err := h.watchlist.Toggle(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "market not found", "failed to toggle watchlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"market_id": id, "watched": watched})
}
