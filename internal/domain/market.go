package domain

import (
	"math"
	"strings"
	"time"
)

// MarketStatus represents the lifecycle state of a market.
type MarketStatus string

const (
	MarketStatusOpen        MarketStatus = "OPEN"
	MarketStatusClosed      MarketStatus = "CLOSED"
	MarketStatusResolvedYes MarketStatus = "RESOLVED_YES"
	MarketStatusResolvedNo  MarketStatus = "RESOLVED_NO"
)

// Category labels shared by markets and news. Matching is case-insensitive,
// so these are canonical spellings rather than a closed set.
const (
	CategoryAll        = "ALL"
	CategoryPolitics   = "POLITICS"
	CategoryEconomics  = "ECONOMICS"
	CategoryFinance    = "FINANCE"
	CategoryEconomy    = "ECONOMY"
	CategoryTech       = "TECH"
	CategoryTechnology = "TECHNOLOGY"
	CategoryCrypto     = "CRYPTO"
	CategorySports     = "SPORTS"
	CategoryOther      = "OTHER"
)

// Probability bounds kept by every perturbation.
const (
	MinProbability = 0.01
	MaxProbability = 0.99
)

// Market is a binary-outcome prediction contract. Probability is the YES
// price expressed as a fraction; the YES/NO cent prices always sum to 100.
type Market struct {
	ID          string       `json:"id"`
	Question    string       `json:"question"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category"`
	Probability float64      `json:"probability"`
	Volume      float64      `json:"volume"`
	Liquidity   float64      `json:"liquidity,omitempty"`
	Traders     int          `json:"traders,omitempty"`
	Change24h   float64      `json:"change24h"`
	Status      MarketStatus `json:"status"`
	OpenedAt    time.Time    `json:"opened_at"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	UpdatedAt   time.Time    `json:"last_update"`
}

// YesPrice returns the YES price in whole cents.
func (m Market) YesPrice() int {
	return int(math.Round(m.Probability * 100))
}

// NoPrice returns the NO price in whole cents.
func (m Market) NoPrice() int {
	return 100 - m.YesPrice()
}

// MatchesCategory reports whether the market belongs to category. An empty
// category or ALL matches everything.
func (m Market) MatchesCategory(category string) bool {
	return CategoryMatches(m.Category, category)
}

// MatchesQuery reports whether the question contains q, ignoring case. A
// blank query matches everything.
func (m Market) MatchesQuery(q string) bool {
	return ContainsFold(m.Question, q)
}

// CategoryMatches compares an item category against a filter value.
func CategoryMatches(itemCategory, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" || strings.EqualFold(filter, CategoryAll) {
		return true
	}
	return strings.EqualFold(itemCategory, filter)
}

// ContainsFold reports whether s contains substr, ignoring case. A blank
// substr is contained in every string.
func ContainsFold(s, substr string) bool {
	substr = strings.TrimSpace(substr)
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ClampProbability bounds p to [MinProbability, MaxProbability].
func ClampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return MinProbability
	}
	return math.Min(MaxProbability, math.Max(MinProbability, p))
}
