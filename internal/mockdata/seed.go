// Package mockdata holds the seed collections served before any live data
// has been fetched or ingested.
package mockdata

import (
	"time"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// Markets returns the seed markets stamped at now.
func Markets(now time.Time) []domain.Market {
	end := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	opened := now.Add(-30 * 24 * time.Hour)
	return []domain.Market{
		{
			ID:          "1",
			Question:    "Will Fed cut rates in March 2026?",
			Description: "Resolves YES if the FOMC lowers the target range at its March 2026 meeting.",
			Category:    "Economics",
			Probability: 0.72,
			Volume:      1250000,
			Liquidity:   310000,
			Traders:     4210,
			Change24h:   0.03,
			Status:      domain.MarketStatusOpen,
			OpenedAt:    opened,
			EndDate:     end(2026, time.March, 19),
			UpdatedAt:   now,
		},
		{
			ID:          "2",
			Question:    "Will GPT-5 be released by Q2 2026?",
			Category:    "Technology",
			Probability: 0.45,
			Volume:      890000,
			Liquidity:   150000,
			Traders:     2875,
			Change24h:   -0.02,
			Status:      domain.MarketStatusOpen,
			OpenedAt:    opened,
			EndDate:     end(2026, time.June, 30),
			UpdatedAt:   now,
		},
		{
			ID:          "3",
			Question:    "Will Bitcoin exceed $150K in 2026?",
			Category:    "Crypto",
			Probability: 0.38,
			Volume:      2100000,
			Liquidity:   540000,
			Traders:     9120,
			Change24h:   0.05,
			Status:      domain.MarketStatusOpen,
			OpenedAt:    opened,
			EndDate:     end(2026, time.December, 31),
			UpdatedAt:   now,
		},
		{
			ID:          "4",
			Question:    "Will EU pass AI Act amendments by June?",
			Category:    "Politics",
			Probability: 0.81,
			Volume:      450000,
			Liquidity:   95000,
			Traders:     1330,
			Change24h:   0.01,
			Status:      domain.MarketStatusOpen,
			OpenedAt:    opened,
			EndDate:     end(2026, time.June, 30),
			UpdatedAt:   now,
		},
		{
			ID:          "5",
			Question:    "Democrats win House in 2026 midterms?",
			Category:    "Politics",
			Probability: 0.62,
			Volume:      1680000,
			Liquidity:   420000,
			Traders:     6044,
			Change24h:   0.04,
			Status:      domain.MarketStatusOpen,
			OpenedAt:    opened,
			EndDate:     end(2026, time.November, 3),
			UpdatedAt:   now,
		},
		{
			ID:          "6",
			Question:    "Chiefs win Super Bowl LX?",
			Category:    "Sports",
			Probability: 0.24,
			Volume:      730000,
			Liquidity:   120000,
			Traders:     3390,
			Change24h:   -0.04,
			Status:      domain.MarketStatusOpen,
			OpenedAt:    opened,
			UpdatedAt:   now,
		},
	}
}

// News returns the seed articles stamped at now.
func News(now time.Time) []domain.NewsArticle {
	score := func(v float64) *float64 { return &v }
	return []domain.NewsArticle{
		{
			ID:              "1",
			Title:           "Federal Reserve Signals Potential Rate Cut",
			Summary:         "Markets react to latest Fed comments suggesting policy shift in Q2",
			Source:          "Financial Times",
			URL:             "https://example.com/news/1",
			Category:        "Finance",
			Sentiment:       score(0.4),
			PublishedAt:     now,
			RelatedMarketID: "1",
		},
		{
			ID:              "2",
			Title:           "AI Regulation Framework Advances in EU",
			Summary:         "European Parliament moves closer to comprehensive AI governance",
			Source:          "Reuters",
			URL:             "https://example.com/news/2",
			Category:        "Technology",
			Sentiment:       score(0.1),
			PublishedAt:     now.Add(-time.Hour),
			RelatedMarketID: "4",
		},
		{
			ID:          "3",
			Title:       "Climate Summit Yields New Carbon Commitments",
			Summary:     "Major economies pledge accelerated emissions targets",
			Source:      "BBC",
			URL:         "https://example.com/news/3",
			Category:    "Politics",
			Sentiment:   score(-0.3),
			PublishedAt: now.Add(-2 * time.Hour),
		},
	}
}

// Positions returns the seed positions with P&L computed.
func Positions(now time.Time) []domain.Position {
	positions := []domain.Position{
		{ID: "1", MarketID: "3", MarketQuestion: "Will Bitcoin exceed $150K in 2026?", Outcome: domain.OutcomeYes, Shares: 100, AvgPrice: 0.35, CurrentPrice: 0.42, OpenedAt: now.Add(-72 * time.Hour)},
		{ID: "2", MarketID: "1", MarketQuestion: "Will Fed cut rates in March 2026?", Outcome: domain.OutcomeYes, Shares: 50, AvgPrice: 0.60, CurrentPrice: 0.67, OpenedAt: now.Add(-48 * time.Hour)},
		{ID: "3", MarketID: "5", MarketQuestion: "Democrats win House in 2026 midterms?", Outcome: domain.OutcomeNo, Shares: 75, AvgPrice: 0.55, CurrentPrice: 0.62, OpenedAt: now.Add(-36 * time.Hour)},
		{ID: "4", MarketID: "6", MarketQuestion: "Chiefs win Super Bowl LX?", Outcome: domain.OutcomeYes, Shares: 200, AvgPrice: 0.28, CurrentPrice: 0.24, OpenedAt: now.Add(-24 * time.Hour)},
	}
	for i := range positions {
		positions[i].Recompute()
	}
	return positions
}

// TradeHistory returns the seed fills, newest first.
func TradeHistory(now time.Time) []domain.TradeHistoryItem {
	items := []domain.TradeHistoryItem{
		{ID: "t4", MarketQuestion: "Chiefs win Super Bowl LX?", Outcome: domain.OutcomeYes, Action: domain.TradeActionBuy, Shares: 200, Price: 0.28, Timestamp: now.Add(-24 * time.Hour)},
		{ID: "t3", MarketQuestion: "Democrats win House in 2026 midterms?", Outcome: domain.OutcomeNo, Action: domain.TradeActionBuy, Shares: 75, Price: 0.55, Timestamp: now.Add(-36 * time.Hour)},
		{ID: "t2", MarketQuestion: "Will Fed cut rates in March 2026?", Outcome: domain.OutcomeYes, Action: domain.TradeActionBuy, Shares: 50, Price: 0.60, Timestamp: now.Add(-48 * time.Hour)},
		{ID: "t1", MarketQuestion: "Will Bitcoin exceed $150K in 2026?", Outcome: domain.OutcomeYes, Action: domain.TradeActionBuy, Shares: 100, Price: 0.35, Timestamp: now.Add(-72 * time.Hour)},
		{ID: "t0", MarketQuestion: "Will GPT-5 be released by Q2 2026?", Outcome: domain.OutcomeNo, Action: domain.TradeActionSell, Shares: 40, Price: 0.51, Timestamp: now.Add(-96 * time.Hour)},
	}
	for i := range items {
		items[i].Total = items[i].Shares * items[i].Price
	}
	return items
}
