package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/jitter"
	"github.com/noopishere/vector-mobile/internal/mockdata"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededState() *memory.State {
	s := memory.NewState()
	s.SetMarkets(mockdata.Markets(testNow))
	s.SetNews(mockdata.News(testNow))
	s.SetPositions(mockdata.Positions(testNow))
	s.SetTradeHistory(mockdata.TradeHistory(testNow))
	return s
}

func newTestFetcher(t *testing.T, state *memory.State, bus domain.SignalBus) *Fetcher {
	t.Helper()
	cfg := FetcherConfig{
		MarketsStale:   time.Minute,
		NewsStale:      time.Minute,
		PortfolioStale: time.Minute,
	}
	return NewFetcher(state, jitter.NewSeeded(0.02, 11), bus, cfg, quietLogger())
}
