package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noopishere/vector-mobile/internal/config"
	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/store/file"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// defaultConfig is config.Defaults with the flag file moved into a temp dir.
func defaultConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "data", "flags.toml")
	return cfg
}

func TestWireDefaults(t *testing.T) {
	cfg := defaultConfig(t)
	deps, cleanup, err := Wire(context.Background(), &cfg, quietLogger())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &memory.SignalBus{}, deps.Bus)
	assert.IsType(t, &memory.FallbackFlagStore{}, deps.Flags)
	assert.Nil(t, deps.Blob)
	assert.False(t, deps.Notifier.Enabled())
	assert.Equal(t, "file", deps.Backend["flags"])
	assert.Equal(t, "memory", deps.Backend["bus"])
}

func TestOnboardingSurvivesRestartWithDefaults(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfig(t)

	deps, cleanup, err := Wire(ctx, &cfg, quietLogger())
	require.NoError(t, err)
	svc := BuildServices(&cfg, deps, quietLogger())
	require.NoError(t, svc.Onboarding.Complete(ctx))
	assert.True(t, svc.Onboarding.Seen(ctx))
	cleanup()

	deps, cleanup, err = Wire(ctx, &cfg, quietLogger())
	require.NoError(t, err)
	defer cleanup()
	svc = BuildServices(&cfg, deps, quietLogger())
	assert.True(t, svc.Onboarding.Seen(ctx))

	require.NoError(t, svc.Onboarding.Reset(ctx))
	flags, closeFn, err := OpenFlags(ctx, &cfg, quietLogger())
	require.NoError(t, err)
	defer closeFn()
	seen, err := flags.Get(ctx, domain.OnboardingSeenKey)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestWireUsesRedisWhenReachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Defaults()
	cfg.Redis.Addr = mr.Addr()
	cfg.Storage.Backend = "redis"

	ctx := context.Background()
	deps, cleanup, err := Wire(ctx, &cfg, quietLogger())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "redis", deps.Backend["bus"])
	assert.Equal(t, "redis", deps.Backend["flags"])

	require.NoError(t, deps.Flags.Set(ctx, domain.OnboardingSeenKey, true))
	assert.True(t, mr.Exists("vector:flag:"+domain.OnboardingSeenKey))
}

func TestWireDegradesWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Defaults()
	cfg.Redis.Addr = addr
	cfg.Redis.MaxRetries = -1
	cfg.Storage.Backend = "redis"

	deps, cleanup, err := Wire(context.Background(), &cfg, quietLogger())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "memory", deps.Backend["bus"])
	assert.Equal(t, "memory", deps.Backend["flags"])
}

func TestBuildServicesSeedsState(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Jitter.Seed = 42
	cfg.Feeds.Sources = []config.FeedSource{{URL: "https://example.com/rss", Category: "Finance", Source: "Example"}}

	deps, cleanup, err := Wire(context.Background(), &cfg, quietLogger())
	require.NoError(t, err)
	defer cleanup()

	svc := BuildServices(&cfg, deps, quietLogger())
	assert.Len(t, svc.State.Markets(), 6)
	assert.Len(t, svc.State.Positions(), 4)
	assert.NotNil(t, svc.Feeds)
	assert.Nil(t, svc.Snapshotter)
	assert.False(t, svc.Onboarding.Seen(context.Background()))
}

func TestOpenFlagsFile(t *testing.T) {
	cfg := defaultConfig(t)
	flags, closeFn, err := OpenFlags(context.Background(), &cfg, quietLogger())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &file.FlagStore{}, flags)
}

func TestOpenFlagsRefusesMemory(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Backend = "memory"
	_, closeFn, err := OpenFlags(context.Background(), &cfg, quietLogger())
	defer closeFn()
	assert.ErrorContains(t, err, "does not persist")
}

func TestOpenFlagsRedisError(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Backend = "redis"
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Redis.MaxRetries = -1

	_, closeFn, err := OpenFlags(context.Background(), &cfg, quietLogger())
	defer closeFn()
	assert.Error(t, err)
}
