package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

// PortfolioService serves positions, aggregate stats and trade history.
type PortfolioService struct {
	fetcher *Fetcher
	state   *memory.State
	logger  *slog.Logger
}

// NewPortfolioService creates a PortfolioService.
func NewPortfolioService(fetcher *Fetcher, state *memory.State, logger *slog.Logger) *PortfolioService {
	return &PortfolioService{
		fetcher: fetcher,
		state:   state,
		logger:  logger.With(slog.String("component", "portfolio_service")),
	}
}

// Positions returns the open positions.
func (s *PortfolioService) Positions(ctx context.Context) ([]domain.Position, error) {
	positions, err := s.fetcher.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("portfolio_service: positions: %w", err)
	}
	return positions, nil
}

// Position returns one open position.
func (s *PortfolioService) Position(ctx context.Context, id string) (domain.Position, error) {
	positions, err := s.Positions(ctx)
	if err != nil {
		return domain.Position{}, err
	}
	for _, p := range positions {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Position{}, fmt.Errorf("portfolio_service: position %q: %w", id, domain.ErrNotFound)
}

// Stats recomputes the aggregate figures from the current positions and
// history.
func (s *PortfolioService) Stats(ctx context.Context) (domain.PortfolioStats, error) {
	positions, err := s.Positions(ctx)
	if err != nil {
		return domain.PortfolioStats{}, err
	}
	return ComputeStats(positions, s.state.TradeHistory()), nil
}

// History returns one page of past fills, newest first.
func (s *PortfolioService) History(ctx context.Context, opts domain.ListOpts) domain.Page[domain.TradeHistoryItem] {
	return domain.Paginate(s.state.TradeHistory(), opts)
}

// ComputeStats aggregates positions in decimal arithmetic and rounds money
// and percentages to two places. Win rate is the share of positions with a
// positive P&L.
func ComputeStats(positions []domain.Position, history []domain.TradeHistoryItem) domain.PortfolioStats {
	var (
		value   = decimal.Zero
		pnl     = decimal.Zero
		cost    = decimal.Zero
		winners int
	)
	for _, p := range positions {
		shares := decimal.NewFromFloat(p.Shares)
		value = value.Add(shares.Mul(decimal.NewFromFloat(p.CurrentPrice)))
		cost = cost.Add(shares.Mul(decimal.NewFromFloat(p.AvgPrice)))
		pnl = pnl.Add(decimal.NewFromFloat(p.ComputePnL()))
		if p.ComputePnL() > 0 {
			winners++
		}
	}

	hundred := decimal.NewFromInt(100)
	pnlPct := decimal.Zero
	if cost.IsPositive() {
		pnlPct = pnl.Div(cost).Mul(hundred)
	}
	winRate := decimal.Zero
	if len(positions) > 0 {
		winRate = decimal.NewFromInt(int64(winners)).Div(decimal.NewFromInt(int64(len(positions)))).Mul(hundred)
	}

	return domain.PortfolioStats{
		TotalValue:      value.Round(2).InexactFloat64(),
		TotalPnL:        pnl.Round(2).InexactFloat64(),
		TotalPnLPercent: pnlPct.Round(2).InexactFloat64(),
		WinRate:         winRate.Round(2).InexactFloat64(),
		TotalTrades:     len(history),
		ActivePositions: len(positions),
	}
}
