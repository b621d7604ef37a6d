package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/notify"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

// AlertService sends a price_move notification when a watched market drifts
// at least threshold away from the price last reported for it.
type AlertService struct {
	state     *memory.State
	notifier  *notify.Notifier
	threshold float64
	logger    *slog.Logger

	mu       sync.Mutex
	baseline map[string]float64
}

// NewAlertService creates an AlertService. A nil notifier disables alerts.
func NewAlertService(state *memory.State, notifier *notify.Notifier, threshold float64, logger *slog.Logger) *AlertService {
	return &AlertService{
		state:     state,
		notifier:  notifier,
		threshold: threshold,
		logger:    logger.With(slog.String("component", "alerts")),
		baseline:  make(map[string]float64),
	}
}

// Observe compares markets against the stored baselines and notifies on
// every watched market that moved far enough. It returns the number of
// alerts sent. Nothing is sent while notifications are off in settings.
func (s *AlertService) Observe(ctx context.Context, markets []domain.Market) int {
	if !s.notifier.Enabled() || s.threshold <= 0 || !s.state.Settings().Notifications {
		return 0
	}

	watched := make(map[string]bool)
	for _, id := range s.state.Watchlist() {
		watched[id] = true
	}

	s.mu.Lock()
	// A market re-watched later starts from a fresh baseline.
	for id := range s.baseline {
		if !watched[id] {
			delete(s.baseline, id)
		}
	}
	var moved []domain.Market
	var from []float64
	for _, m := range markets {
		if !watched[m.ID] {
			continue
		}
		base, ok := s.baseline[m.ID]
		if !ok {
			s.baseline[m.ID] = m.Probability
			continue
		}
		if math.Abs(m.Probability-base) >= s.threshold {
			moved = append(moved, m)
			from = append(from, base)
			s.baseline[m.ID] = m.Probability
		}
	}
	s.mu.Unlock()

	sent := 0
	for i, m := range moved {
		msg := notify.Message{
			Event: notify.EventPriceMove,
			Title: m.Question,
			Body:  priceMoveBody(from[i], m.Probability),
		}
		if err := s.notifier.Notify(ctx, msg); err != nil {
			s.logger.WarnContext(ctx, "alerts: notify failed",
				slog.String("market_id", m.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		sent++
	}
	return sent
}

func priceMoveBody(from, to float64) string {
	fromC := int(math.Round(from * 100))
	toC := int(math.Round(to * 100))
	return fmt.Sprintf("YES moved %d¢ -> %d¢ (%+d¢)", fromC, toC, toC-fromC)
}
