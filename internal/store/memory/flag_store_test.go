package memory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/noopishere/vector-mobile/internal/domain"
)

type MockFlagStore struct {
	mock.Mock
}

func (m *MockFlagStore) Get(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlagStore) Set(ctx context.Context, key string, value bool) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockFlagStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFallbackSwallowsPrimaryErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	primary := new(MockFlagStore)
	primary.On("Set", ctx, domain.OnboardingSeenKey, true).Return(boom)
	primary.On("Get", ctx, domain.OnboardingSeenKey).Return(false, boom)
	primary.On("Delete", ctx, domain.OnboardingSeenKey).Return(boom)

	store := NewFallbackFlagStore(primary, quietLogger())

	require.NoError(t, store.Set(ctx, domain.OnboardingSeenKey, true))
	seen, err := store.Get(ctx, domain.OnboardingSeenKey)
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, store.Delete(ctx, domain.OnboardingSeenKey))
	seen, err = store.Get(ctx, domain.OnboardingSeenKey)
	require.NoError(t, err)
	assert.False(t, seen)

	primary.AssertExpectations(t)
}

func TestFallbackPrefersPrimary(t *testing.T) {
	ctx := context.Background()
	primary := new(MockFlagStore)
	primary.On("Get", ctx, domain.OnboardingSeenKey).Return(true, nil)

	store := NewFallbackFlagStore(primary, quietLogger())

	seen, err := store.Get(ctx, domain.OnboardingSeenKey)
	require.NoError(t, err)
	assert.True(t, seen)
	primary.AssertExpectations(t)
}

func TestFallbackWithoutPrimary(t *testing.T) {
	ctx := context.Background()
	store := NewFallbackFlagStore(nil, quietLogger())

	seen, err := store.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Set(ctx, "unknown", true))
	seen, _ = store.Get(ctx, "unknown")
	assert.True(t, seen)
}
