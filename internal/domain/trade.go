package domain

import "time"

// TradeAction is the direction of a historical fill.
type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// TradeHistoryItem is one past fill shown in the portfolio history.
type TradeHistoryItem struct {
	ID             string      `json:"id"`
	MarketQuestion string      `json:"market_question"`
	Outcome        Outcome     `json:"outcome"`
	Action         TradeAction `json:"action"`
	Shares         float64     `json:"shares"`
	Price          float64     `json:"price"`
	Total          float64     `json:"total"`
	Timestamp      time.Time   `json:"timestamp"`
}
