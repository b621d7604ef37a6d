package domain

import "time"

// Outcome is the side of a binary market a position holds.
type Outcome string

const (
	OutcomeYes Outcome = "YES"
	OutcomeNo  Outcome = "NO"
)

// Sign returns +1 for YES and -1 for NO.
func (o Outcome) Sign() float64 {
	if o == OutcomeNo {
		return -1
	}
	return 1
}

// Position is a holding of shares in one side of a market. PnL and
// PnLPercent are derived from prices and shares by Recompute; they are never
// the source of truth.
type Position struct {
	ID             string    `json:"id"`
	MarketID       string    `json:"market_id"`
	MarketQuestion string    `json:"market_question"`
	Outcome        Outcome   `json:"outcome"`
	Shares         float64   `json:"shares"`
	AvgPrice       float64   `json:"avg_price"`
	CurrentPrice   float64   `json:"current_price"`
	PnL            float64   `json:"pnl"`
	PnLPercent     float64   `json:"pnl_percent"`
	OpenedAt       time.Time `json:"timestamp"`
}

// CostBasis is shares times average price.
func (p Position) CostBasis() float64 {
	return p.Shares * p.AvgPrice
}

// CurrentValue is shares marked at the current price.
func (p Position) CurrentValue() float64 {
	return p.Shares * p.CurrentPrice
}

// ComputePnL returns (current - avg) * shares * sign(outcome).
func (p Position) ComputePnL() float64 {
	return (p.CurrentPrice - p.AvgPrice) * p.Shares * p.Outcome.Sign()
}

// ComputePnLPercent returns P&L relative to cost basis, or 0 when the cost
// basis is not positive.
func (p Position) ComputePnLPercent() float64 {
	cost := p.CostBasis()
	if cost <= 0 {
		return 0
	}
	return p.ComputePnL() / cost * 100
}

// Recompute refreshes the derived P&L fields in place.
func (p *Position) Recompute() {
	p.PnL = p.ComputePnL()
	p.PnLPercent = p.ComputePnLPercent()
}
