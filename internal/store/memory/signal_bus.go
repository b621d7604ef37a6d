package memory

import (
	"context"
	"path"
	"sync"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// subscriberBuffer is the per-subscriber queue depth. Slow subscribers drop
// messages instead of blocking publishers.
const subscriberBuffer = 64

type subscriber struct {
	pattern string
	ch      chan []byte
}

// SignalBus is a single-process domain.SignalBus. Channel names may be glob
// patterns, matched with path.Match.
type SignalBus struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewSignalBus returns an empty bus.
func NewSignalBus() *SignalBus {
	return &SignalBus{subs: make(map[*subscriber]struct{})}
}

// Publish delivers payload to every matching subscriber without blocking.
func (b *SignalBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if ok, _ := path.Match(sub.pattern, channel); !ok {
			continue
		}
		select {
		case sub.ch <- payload:
		default:
		}
	}
	return nil
}

// Subscribe registers for channel until ctx is done, at which point the
// returned channel is closed.
func (b *SignalBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	sub := &subscriber{pattern: channel, ch: make(chan []byte, subscriberBuffer)}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, sub)
		close(sub.ch)
		b.mu.Unlock()
	}()
	return sub.ch, nil
}

var _ domain.SignalBus = (*SignalBus)(nil)
