package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionPnL(t *testing.T) {
	tests := []struct {
		name        string
		pos         Position
		wantPnL     float64
		wantPercent float64
	}{
		{
			name:        "yes in profit",
			pos:         Position{Outcome: OutcomeYes, Shares: 100, AvgPrice: 0.50, CurrentPrice: 0.60},
			wantPnL:     10,
			wantPercent: 20,
		},
		{
			name:        "no loses when price rises",
			pos:         Position{Outcome: OutcomeNo, Shares: 100, AvgPrice: 0.50, CurrentPrice: 0.60},
			wantPnL:     -10,
			wantPercent: -20,
		},
		{
			name:        "zero cost basis",
			pos:         Position{Outcome: OutcomeYes, Shares: 0, AvgPrice: 0.50, CurrentPrice: 0.60},
			wantPnL:     0,
			wantPercent: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.pos
			p.Recompute()
			assert.InDelta(t, tt.wantPnL, p.PnL, 1e-9)
			assert.InDelta(t, tt.wantPercent, p.PnLPercent, 1e-9)
			sign := 1.0
			if p.Outcome == OutcomeNo {
				sign = -1
			}
			assert.InDelta(t, (p.CurrentPrice-p.AvgPrice)*p.Shares*sign, p.PnL, 1e-9)
		})
	}
}

func TestMarketPrices(t *testing.T) {
	m := Market{Probability: 0.724}
	assert.Equal(t, 72, m.YesPrice())
	assert.Equal(t, 28, m.NoPrice())

	m.Probability = ClampProbability(1.4)
	assert.Equal(t, 99, m.YesPrice())
	assert.Equal(t, 1, m.NoPrice())
}

func TestCategoryMatches(t *testing.T) {
	assert.True(t, CategoryMatches("Crypto", ""))
	assert.True(t, CategoryMatches("Crypto", "all"))
	assert.True(t, CategoryMatches("Crypto", "CRYPTO"))
	assert.False(t, CategoryMatches("Crypto", "Politics"))
}

func TestSentimentLabel(t *testing.T) {
	score := func(v float64) *float64 { return &v }

	assert.Equal(t, SentimentNeutral, NewsArticle{}.SentimentLabel())
	assert.Equal(t, SentimentBullish, NewsArticle{Sentiment: score(0.6)}.SentimentLabel())
	assert.Equal(t, SentimentBearish, NewsArticle{Sentiment: score(-0.3)}.SentimentLabel())
	assert.Equal(t, SentimentNeutral, NewsArticle{Sentiment: score(0.2)}.SentimentLabel())
}

func TestSettingsPatchApply(t *testing.T) {
	off := false
	interval := 15000

	got := SettingsPatch{Notifications: &off, RefreshInterval: &interval}.Apply(DefaultSettings())

	assert.False(t, got.Notifications)
	assert.Equal(t, 15000, got.RefreshInterval)
	assert.True(t, got.DarkMode)
	assert.True(t, got.ShowPnLPercent)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, ListOpts{Limit: 2, Offset: 1})
	assert.Equal(t, []int{2, 3}, p.Items)
	assert.Equal(t, 5, p.Total)

	p = Paginate(items, ListOpts{Limit: 2, Offset: 9})
	assert.Empty(t, p.Items)
	assert.Equal(t, 5, p.Total)

	p = Paginate(items, ListOpts{})
	assert.Len(t, p.Items, 5)
}
