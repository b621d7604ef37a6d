package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/mockdata"
)

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(mockdata.Positions(testNow), mockdata.TradeHistory(testNow))

	assert.InDelta(t, 170.0, stats.TotalValue, 1e-9)
	assert.InDelta(t, -2.75, stats.TotalPnL, 1e-9)
	assert.InDelta(t, -1.69, stats.TotalPnLPercent, 1e-9)
	assert.InDelta(t, 50.0, stats.WinRate, 1e-9)
	assert.Equal(t, 5, stats.TotalTrades)
	assert.Equal(t, 4, stats.ActivePositions)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, nil)
	assert.Equal(t, domain.PortfolioStats{}, stats)
}

func TestComputeStatsNoSideLosesWhenPriceRises(t *testing.T) {
	positions := []domain.Position{{
		ID: "p", Outcome: domain.OutcomeNo, Shares: 10, AvgPrice: 0.40, CurrentPrice: 0.50,
	}}
	stats := ComputeStats(positions, nil)
	assert.InDelta(t, -1.0, stats.TotalPnL, 1e-9)
	assert.InDelta(t, -25.0, stats.TotalPnLPercent, 1e-9)
	assert.Zero(t, stats.WinRate)
}

func TestPortfolioService(t *testing.T) {
	ctx := context.Background()
	state := seededState()
	svc := NewPortfolioService(newTestFetcher(t, state, nil), state, quietLogger())

	positions, err := svc.Positions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 4)

	p, err := svc.Position(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNo, p.Outcome)

	_, err = svc.Position(ctx, "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.ActivePositions)
	assert.Equal(t, 5, stats.TotalTrades)

	hist := svc.History(ctx, domain.ListOpts{Limit: 2})
	assert.Equal(t, 5, hist.Total)
	require.Len(t, hist.Items, 2)
	assert.Equal(t, "t4", hist.Items[0].ID)
	assert.True(t, hist.Items[0].Timestamp.After(hist.Items[1].Timestamp))
}
