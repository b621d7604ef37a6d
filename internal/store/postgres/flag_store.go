package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// FlagStore implements domain.FlagStore on the app_flags table.
type FlagStore struct {
	pool *pgxpool.Pool
}

// NewFlagStore creates a FlagStore backed by the given connection pool.
func NewFlagStore(pool *pgxpool.Pool) *FlagStore {
	return &FlagStore{pool: pool}
}

// Get returns the stored value, false for a key that has no row.
func (s *FlagStore) Get(ctx context.Context, key string) (bool, error) {
	var value bool
	err := s.pool.QueryRow(ctx, `SELECT value FROM app_flags WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("postgres: get flag %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the flag.
func (s *FlagStore) Set(ctx context.Context, key string, value bool) error {
	const query = `
		INSERT INTO app_flags (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value      = EXCLUDED.value,
			updated_at = NOW()`
	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("postgres: set flag %s: %w", key, err)
	}
	return nil
}

// Delete removes the flag row.
func (s *FlagStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM app_flags WHERE key = $1`, key); err != nil {
		return fmt.Errorf("postgres: delete flag %s: %w", key, err)
	}
	return nil
}

var _ domain.FlagStore = (*FlagStore)(nil)
