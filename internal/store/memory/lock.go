package memory

import (
	"context"
	"sync"
	"time"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// LockManager is a single-process domain.LockManager. Locks expire after
// their ttl even if never released.
type LockManager struct {
	mu    sync.Mutex
	held  map[string]uint64
	until map[string]time.Time
	seq   uint64
	now   func() time.Time
}

// NewLockManager returns an empty LockManager.
func NewLockManager() *LockManager {
	return &LockManager{
		held:  make(map[string]uint64),
		until: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (m *LockManager) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, ok := m.held[key]; ok && now.Before(m.until[key]) {
		return nil, domain.ErrLockHeld
	}
	m.seq++
	token := m.seq
	m.held[key] = token
	m.until[key] = now.Add(ttl)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.held[key] == token {
				delete(m.held, key)
				delete(m.until, key)
			}
		})
	}, nil
}

var _ domain.LockManager = (*LockManager)(nil)
