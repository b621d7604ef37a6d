package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/service"
)

// MarketService defines what the market handler needs from the service
// layer. It is declared locally so handlers can be tested with fakes.
type MarketService interface {
	List(ctx context.Context, q service.MarketQuery) (domain.Page[service.MarketView], error)
	Get(ctx context.Context, id string) (service.MarketDetail, error)
	Refresh(ctx context.Context) ([]service.MarketView, error)
}

// MarketHandler serves the market list and detail screens.
type MarketHandler struct {
	markets MarketService
	logger  *slog.Logger
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(markets MarketService, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{markets: markets, logger: logger}
}

// ListMarkets returns filtered, sorted markets with pagination.
// GET /api/markets?category=Politics&q=fed&sort=volume&limit=50&offset=0
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.markets.List(r.Context(), service.MarketQuery{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Sort:     q.Get("sort"),
		ListOpts: parseListOpts(r),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to list markets")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetMarket returns one market with its related news.
// GET /api/markets/{id}
func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing market id")
		return
	}
	detail, err := h.markets.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "market not found", "failed to get market")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// RefreshMarkets forces a fetch that ignores the staleness window.
// POST /api/markets/refresh
func (h *MarketHandler) RefreshMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.markets.Refresh(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to refresh markets")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": markets, "total": len(markets)})
}
