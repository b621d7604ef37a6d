package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// RateLimiter is a per-key token bucket. A window of limit requests per
// window becomes a bucket refilling at limit/window with burst limit.
//
// Buckets idle for a full window are evicted: by then they would have
// refilled to burst anyway.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
}

// NewRateLimiter returns an empty RateLimiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{limiters: cache.New(time.Minute, time.Minute)}
}

func (r *RateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	every := rate.Every(window / time.Duration(limit))

	r.mu.Lock()
	var l *rate.Limiter
	if v, ok := r.limiters.Get(key); ok {
		l = v.(*rate.Limiter)
		if l.Limit() != every || l.Burst() != limit {
			l.SetLimit(every)
			l.SetBurst(limit)
		}
	} else {
		l = rate.NewLimiter(every, limit)
	}
	r.limiters.Set(key, l, window)
	r.mu.Unlock()

	return l.Allow(), nil
}

// size reports the live buckets after dropping expired ones.
func (r *RateLimiter) size() int {
	r.limiters.DeleteExpired()
	return r.limiters.ItemCount()
}

var _ domain.RateLimiter = (*RateLimiter)(nil)
