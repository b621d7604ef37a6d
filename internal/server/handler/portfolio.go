package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// PortfolioService defines what the portfolio handler needs.
type PortfolioService interface {
	Positions(ctx context.Context) ([]domain.Position, error)
	Position(ctx context.Context, id string) (domain.Position, error)
	Stats(ctx context.Context) (domain.PortfolioStats, error)
	History(ctx context.Context, opts domain.ListOpts) domain.Page[domain.TradeHistoryItem]
}

// PortfolioHandler serves the portfolio screen.
type PortfolioHandler struct {
	portfolio PortfolioService
	logger    *slog.Logger
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(portfolio PortfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio, logger: logger}
}

// ListPositions returns all open positions.
// GET /api/portfolio/positions
func (h *PortfolioHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.portfolio.Positions(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to list positions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": positions, "total": len(positions)})
}

// GetPosition returns one position.
// GET /api/portfolio/positions/{id}
func (h *PortfolioHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	p, err := h.portfolio.Position(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "position not found", "failed to get position")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetStats returns the aggregated portfolio figures.
// GET /api/portfolio/stats
func (h *PortfolioHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.portfolio.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListHistory returns past fills, newest first.
// GET /api/portfolio/history?limit=50&offset=0
func (h *PortfolioHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.portfolio.History(r.Context(), parseListOpts(r)))
}
