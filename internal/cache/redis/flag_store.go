package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/redis/go-redis/v9"
)

// FlagStore implements domain.FlagStore with one string key per flag holding
// "1" or "0".
type FlagStore struct {
	c *Client
}

// NewFlagStore creates a FlagStore backed by the given Client.
func NewFlagStore(c *Client) *FlagStore {
	return &FlagStore{c: c}
}

// Get returns the flag value, false when the key has never been set.
func (s *FlagStore) Get(ctx context.Context, key string) (bool, error) {
	v, err := s.c.rdb.Get(ctx, s.c.key("flag", key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis: get flag %s: %w", key, err)
	}
	return v == "1", nil
}

// Set stores the flag without expiry.
func (s *FlagStore) Set(ctx context.Context, key string, value bool) error {
	v := "0"
	if value {
		v = "1"
	}
	if err := s.c.rdb.Set(ctx, s.c.key("flag", key), v, 0).Err(); err != nil {
		return fmt.Errorf("redis: set flag %s: %w", key, err)
	}
	return nil
}

// Delete removes the flag. Deleting a missing flag is not an error.
func (s *FlagStore) Delete(ctx context.Context, key string) error {
	if err := s.c.rdb.Del(ctx, s.c.key("flag", key)).Err(); err != nil {
		return fmt.Errorf("redis: delete flag %s: %w", key, err)
	}
	return nil
}

var _ domain.FlagStore = (*FlagStore)(nil)
