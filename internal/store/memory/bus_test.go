package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noopishere/vector-mobile/internal/domain"
)

func TestSignalBusPatternDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := NewSignalBus()

	all, err := bus.Subscribe(ctx, "*")
	require.NoError(t, err)
	news, err := bus.Subscribe(ctx, domain.ChannelNews)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, domain.ChannelMarkets, []byte("m")))

	assert.Equal(t, []byte("m"), <-all)
	select {
	case <-news:
		t.Fatal("news subscriber received markets payload")
	default:
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-all
		return !open
	}, time.Second, 5*time.Millisecond)
}

func TestRateLimiterBurst(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimiter()

	for range 5 {
		ok, err := rl.Allow(ctx, "k", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := rl.Allow(ctx, "k", 5, time.Minute)
	assert.False(t, ok)

	ok, _ = rl.Allow(ctx, "other", 5, time.Minute)
	assert.True(t, ok)
}

func TestRateLimiterEvictsIdleKeys(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimiter()

	for _, key := range []string{"a", "b", "c"} {
		ok, err := rl.Allow(ctx, key, 1, 20*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 3, rl.size())

	assert.Eventually(t, func() bool {
		return rl.size() == 0
	}, time.Second, 10*time.Millisecond)

	// An evicted key starts again with a full bucket.
	ok, _ := rl.Allow(ctx, "a", 1, 20*time.Millisecond)
	assert.True(t, ok)
}

func TestLockManagerExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lm := NewLockManager()
	lm.now = func() time.Time { return now }

	unlock, err := lm.Acquire(ctx, "refresh", time.Second)
	require.NoError(t, err)

	_, err = lm.Acquire(ctx, "refresh", time.Second)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	now = now.Add(2 * time.Second)
	unlock2, err := lm.Acquire(ctx, "refresh", time.Second)
	require.NoError(t, err)

	// The stale holder must not release the new holder's lock.
	unlock()
	_, err = lm.Acquire(ctx, "refresh", time.Second)
	assert.ErrorIs(t, err, domain.ErrLockHeld)
	unlock2()
}
