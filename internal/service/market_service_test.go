package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/mockdata"
)

func TestFilterMarkets(t *testing.T) {
	markets := mockdata.Markets(testNow)

	tests := []struct {
		name     string
		category string
		query    string
		wantIDs  []string
	}{
		{name: "all returns everything", category: "ALL", wantIDs: []string{"1", "2", "3", "4", "5", "6"}},
		{name: "empty returns everything", category: "", query: "   ", wantIDs: []string{"1", "2", "3", "4", "5", "6"}},
		{name: "category case-insensitive", category: "politics", wantIDs: []string{"4", "5"}},
		{name: "search case-insensitive", query: "BITCOIN", wantIDs: []string{"3"}},
		{name: "category and search", category: "Politics", query: "eu", wantIDs: []string{"4"}},
		{name: "no match", category: "Weather", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterMarkets(markets, tt.category, tt.query)
			ids := make([]string, 0, len(got))
			for _, m := range got {
				ids = append(ids, m.ID)
				if tt.category != "" && !strings.EqualFold(tt.category, "all") {
					assert.True(t, strings.EqualFold(m.Category, tt.category))
				}
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSortMarkets(t *testing.T) {
	ids := func(ms []domain.Market) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.ID
		}
		return out
	}

	tests := []struct {
		key  string
		want []string
	}{
		{key: SortVolume, want: []string{"3", "5", "1", "2", "6", "4"}},
		{key: SortProbability, want: []string{"4", "1", "5", "2", "3", "6"}},
		{key: SortChange, want: []string{"3", "5", "6", "1", "2", "4"}},
		{key: SortEnding, want: []string{"1", "2", "4", "5", "3", "6"}},
		{key: "bogus", want: []string{"1", "2", "3", "4", "5", "6"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ms := mockdata.Markets(testNow)
			SortMarkets(ms, tt.key)
			assert.Equal(t, tt.want, ids(ms))
		})
	}
}

func TestMarketServiceListPaginates(t *testing.T) {
	state := seededState()
	svc := NewMarketService(newTestFetcher(t, state, nil), state, quietLogger())

	page, err := svc.List(context.Background(), MarketQuery{
		Sort:     SortVolume,
		ListOpts: domain.ListOpts{Limit: 2, Offset: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, page.Total)
	require.Len(t, page.Items, 2)
	for _, v := range page.Items {
		assert.Equal(t, 100, v.YesCents+v.NoCents)
	}
	assert.GreaterOrEqual(t, page.Items[0].Volume, page.Items[1].Volume)
}

func TestMarketServiceGet(t *testing.T) {
	ctx := context.Background()
	state := seededState()
	state.ToggleWatch("1")
	svc := NewMarketService(newTestFetcher(t, state, nil), state, quietLogger())

	d, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.True(t, d.Watched)
	assert.LessOrEqual(t, len(d.RelatedNews), 3)
	require.NotEmpty(t, d.RelatedNews)
	assert.Equal(t, "1", d.RelatedNews[0].ID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarketServiceRefreshBypassesStaleness(t *testing.T) {
	ctx := context.Background()
	state := seededState()
	svc := NewMarketService(newTestFetcher(t, state, nil), state, quietLogger())

	before, err := svc.List(ctx, MarketQuery{})
	require.NoError(t, err)
	after, err := svc.Refresh(ctx)
	require.NoError(t, err)

	require.Len(t, after, len(before.Items))
	moved := false
	for i := range after {
		if after[i].Probability != before.Items[i].Probability {
			moved = true
		}
		assert.Equal(t, 100, after[i].YesCents+after[i].NoCents)
	}
	assert.True(t, moved)
}
