// Package notify delivers user-facing alerts to chat channels. Messages are
// filtered by event type before fan-out to every configured sender.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/noopishere/vector-mobile/internal/metrics"
)

// Event types.
const (
	EventPriceMove = "price_move"
	EventError     = "error"
)

// Message is one notification.
type Message struct {
	Event string
	Title string
	Body  string
}

// Sender is one delivery channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// Notifier fans messages out to its senders. Only events in the allow list
// are delivered; an empty list allows every event.
type Notifier struct {
	senders []Sender
	events  map[string]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier for senders restricted to events.
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		if e = strings.TrimSpace(e); e != "" {
			allowed[e] = true
		}
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Enabled reports whether any sender is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && len(n.senders) > 0
}

// Allows reports whether event passes the filter.
func (n *Notifier) Allows(event string) bool {
	return len(n.events) == 0 || n.events[event]
}

// Notify delivers msg to every sender. A failing sender does not stop the
// others; all failures are joined into the returned error.
func (n *Notifier) Notify(ctx context.Context, msg Message) error {
	if !n.Allows(msg.Event) {
		n.logger.DebugContext(ctx, "notify: event filtered", slog.String("event", msg.Event))
		return nil
	}

	var errs []error
	for _, s := range n.senders {
		err := s.Send(ctx, msg)
		metrics.RecordNotification(msg.Event, err)
		if err != nil {
			n.logger.ErrorContext(ctx, "notify: sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notify: sent",
			slog.String("sender", s.Name()),
			slog.String("event", msg.Event),
		)
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify: %w", errors.Join(errs...))
	}
	return nil
}
