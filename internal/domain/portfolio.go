package domain

// PortfolioStats aggregates the portfolio. It is recomputed on every fetch
// and carries no invariant beyond that recomputation.
type PortfolioStats struct {
	TotalValue      float64 `json:"total_value"`
	TotalPnL        float64 `json:"total_pnl"`
	TotalPnLPercent float64 `json:"total_pnl_percent"`
	WinRate         float64 `json:"win_rate"`
	TotalTrades     int     `json:"total_trades"`
	ActivePositions int     `json:"active_positions"`
}
