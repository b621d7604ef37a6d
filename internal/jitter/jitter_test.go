package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/mockdata"
)

func TestDeltaWithinBounds(t *testing.T) {
	p := NewSeeded(0.02, 7)
	for range 1000 {
		d := p.Delta()
		assert.GreaterOrEqual(t, d, -0.02)
		assert.LessOrEqual(t, d, 0.02)
	}
}

func TestSeededIsDeterministic(t *testing.T) {
	a := NewSeeded(0.02, 42)
	b := NewSeeded(0.02, 42)
	for range 10 {
		assert.Equal(t, a.Delta(), b.Delta())
	}
}

func TestMarketsStayInRange(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewSeeded(0.5, 3).WithClock(func() time.Time { return now })

	markets := []domain.Market{
		{ID: "lo", Probability: 0.01},
		{ID: "hi", Probability: 0.99},
		{ID: "mid", Probability: 0.5},
	}
	for range 200 {
		markets = p.Markets(markets)
		for _, m := range markets {
			require.GreaterOrEqual(t, m.Probability, domain.MinProbability)
			require.LessOrEqual(t, m.Probability, domain.MaxProbability)
			require.GreaterOrEqual(t, m.YesPrice(), 1)
			require.LessOrEqual(t, m.YesPrice(), 99)
			require.Equal(t, now, m.UpdatedAt)
		}
	}
}

func TestMarketsDoesNotMutateInput(t *testing.T) {
	p := NewSeeded(0.02, 1)
	in := mockdata.Markets(time.Now())
	orig := in[0].Probability

	out := p.Markets(in)

	assert.Equal(t, orig, in[0].Probability)
	assert.InDelta(t, orig, out[0].Probability, 0.02+1e-9)
	assert.InDelta(t, in[0].Change24h+(out[0].Probability-orig), out[0].Change24h, 1e-9)
}

func TestPositionsRecomputePnL(t *testing.T) {
	p := NewSeeded(0.02, 9)
	for _, pos := range p.Positions(mockdata.Positions(time.Now())) {
		assert.InDelta(t, (pos.CurrentPrice-pos.AvgPrice)*pos.Shares*pos.Outcome.Sign(), pos.PnL, 1e-9)
		assert.InDelta(t, pos.ComputePnLPercent(), pos.PnLPercent, 1e-9)
		assert.GreaterOrEqual(t, pos.CurrentPrice, domain.MinProbability)
		assert.LessOrEqual(t, pos.CurrentPrice, domain.MaxProbability)
	}
}
