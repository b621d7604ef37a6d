package domain

import "time"

// Signal bus channels.
const (
	ChannelMarkets   = "markets"
	ChannelPortfolio = "portfolio"
	ChannelNews      = "news"
)

// Event is the envelope published on the signal bus and forwarded to push
// clients.
type Event struct {
	Type      string    `json:"type"`
	Channel   string    `json:"channel"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
