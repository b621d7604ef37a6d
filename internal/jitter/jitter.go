// Package jitter nudges numeric fields of market data to simulate a live feed.
package jitter

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// DefaultMaxDelta is the largest absolute nudge applied to a price.
const DefaultMaxDelta = 0.02

// Perturber applies bounded uniform noise to probabilities and prices.
// It is safe for concurrent use.
type Perturber struct {
	mu       sync.Mutex
	rng      *rand.Rand
	maxDelta float64
	now      func() time.Time
}

// New creates a Perturber drawing from src. A nil src seeds from the runtime.
func New(maxDelta float64, src rand.Source) *Perturber {
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Perturber{
		rng:      rand.New(src),
		maxDelta: maxDelta,
		now:      time.Now,
	}
}

// NewSeeded creates a deterministic Perturber for tests and replays.
func NewSeeded(maxDelta float64, seed uint64) *Perturber {
	return New(maxDelta, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WithClock overrides the timestamp source.
func (p *Perturber) WithClock(now func() time.Time) *Perturber {
	p.now = now
	return p
}

// MaxDelta returns the configured bound.
func (p *Perturber) MaxDelta() float64 { return p.maxDelta }

// Delta draws a uniform value in [-maxDelta, +maxDelta].
func (p *Perturber) Delta() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return (p.rng.Float64()*2 - 1) * p.maxDelta
}

// Nudge moves v by a random delta and clamps the result to the probability
// range.
func (p *Perturber) Nudge(v float64) float64 {
	return domain.ClampProbability(v + p.Delta())
}

// Markets returns perturbed copies of markets. Change24h absorbs the applied
// move and the update timestamp is refreshed.
func (p *Perturber) Markets(markets []domain.Market) []domain.Market {
	now := p.now()
	out := make([]domain.Market, len(markets))
	for i, m := range markets {
		next := p.Nudge(m.Probability)
		m.Change24h += next - m.Probability
		m.Probability = next
		m.UpdatedAt = now
		out[i] = m
	}
	return out
}

// Positions returns perturbed copies of positions with P&L recomputed.
func (p *Perturber) Positions(positions []domain.Position) []domain.Position {
	out := make([]domain.Position, len(positions))
	for i, pos := range positions {
		pos.CurrentPrice = p.Nudge(pos.CurrentPrice)
		pos.Recompute()
		out[i] = pos
	}
	return out
}
