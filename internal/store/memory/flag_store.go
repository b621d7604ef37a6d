package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// FlagStore is a process-local domain.FlagStore. Values do not survive a
// restart.
type FlagStore struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewFlagStore returns an empty FlagStore.
func NewFlagStore() *FlagStore {
	return &FlagStore{flags: make(map[string]bool)}
}

func (s *FlagStore) Get(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[key], nil
}

func (s *FlagStore) Set(_ context.Context, key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = value
	return nil
}

func (s *FlagStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, key)
	return nil
}

// FallbackFlagStore fronts a durable store with an in-memory copy. Failures
// of the durable store are logged and never returned; the in-memory value
// answers instead.
type FallbackFlagStore struct {
	primary domain.FlagStore
	local   *FlagStore
	logger  *slog.Logger
}

// NewFallbackFlagStore wraps primary. A nil primary makes the store purely
// in-memory.
func NewFallbackFlagStore(primary domain.FlagStore, logger *slog.Logger) *FallbackFlagStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackFlagStore{
		primary: primary,
		local:   NewFlagStore(),
		logger:  logger.With(slog.String("component", "flag_store")),
	}
}

func (s *FallbackFlagStore) Get(ctx context.Context, key string) (bool, error) {
	if s.primary == nil {
		return s.local.Get(ctx, key)
	}
	v, err := s.primary.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "flag_store: primary get failed, using memory",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return s.local.Get(ctx, key)
	}
	_ = s.local.Set(ctx, key, v)
	return v, nil
}

func (s *FallbackFlagStore) Set(ctx context.Context, key string, value bool) error {
	_ = s.local.Set(ctx, key, value)
	if s.primary == nil {
		return nil
	}
	if err := s.primary.Set(ctx, key, value); err != nil {
		s.logger.WarnContext(ctx, "flag_store: primary set failed, kept in memory",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (s *FallbackFlagStore) Delete(ctx context.Context, key string) error {
	_ = s.local.Delete(ctx, key)
	if s.primary == nil {
		return nil
	}
	if err := s.primary.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "flag_store: primary delete failed, cleared in memory",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

var (
	_ domain.FlagStore = (*FlagStore)(nil)
	_ domain.FlagStore = (*FallbackFlagStore)(nil)
)
