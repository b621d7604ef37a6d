package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noopishere/vector-mobile/internal/domain"
)

func TestFlagStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "flags.toml")

	s := NewFlagStore(path)
	seen, err := s.Get(ctx, domain.OnboardingSeenKey)
	require.NoError(t, err)
	assert.False(t, seen)
	require.NoError(t, s.Delete(ctx, domain.OnboardingSeenKey))
	assert.NoFileExists(t, path)

	require.NoError(t, s.Set(ctx, domain.OnboardingSeenKey, true))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "onboarding_seen = true")

	reopened := NewFlagStore(path)
	seen, err = reopened.Get(ctx, domain.OnboardingSeenKey)
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, reopened.Delete(ctx, domain.OnboardingSeenKey))
	seen, err = NewFlagStore(path).Get(ctx, domain.OnboardingSeenKey)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestFlagStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.toml")
	require.NoError(t, os.WriteFile(path, []byte("[flags\nbroken"), 0o600))

	_, err := NewFlagStore(path).Get(context.Background(), domain.OnboardingSeenKey)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
