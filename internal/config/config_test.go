package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 500*time.Millisecond, cfg.Fetch.Delay.Duration)
	assert.Equal(t, 30*time.Second, cfg.Fetch.MarketsStale.Duration)
	assert.Equal(t, 60*time.Second, cfg.Fetch.NewsStale.Duration)
	assert.Equal(t, 0.02, cfg.Jitter.MaxDelta)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 200, cfg.Feeds.MaxTotal)
}

func TestValidateStorageFeedsAndProxies(t *testing.T) {
	cfg := Defaults()
	cfg.Storage.Path = " "
	cfg.Server.TrustedProxies = []string{"10.0.0.0/8", "127.0.0.1", "proxy.internal"}
	cfg.Feeds.Sources = []FeedSource{{URL: "https://example.com/rss"}}
	cfg.Feeds.MaxTotal = 5

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "storage: path is required")
	assert.Contains(t, msg, `trusted_proxies entry "proxy.internal"`)
	assert.NotContains(t, msg, `"127.0.0.1"`)
	assert.Contains(t, msg, "feeds: max_total must be >= max_items")
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeTempFile(t, `
log_level = "debug"

[server]
port = 9090

[fetch]
markets_stale = "5s"

[storage]
backend = "redis"

[redis]
addr = "localhost:6379"

[[feeds.sources]]
url = "https://example.com/rss"
category = "Crypto"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Fetch.MarketsStale.Duration)
	assert.Equal(t, 60*time.Second, cfg.Fetch.NewsStale.Duration)
	require.Len(t, cfg.Feeds.Sources, 1)
	assert.Equal(t, "Crypto", cfg.Feeds.Sources[0].Category)
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VECTOR_SERVER_PORT", "7000")
	t.Setenv("VECTOR_JITTER_SEED", "42")
	t.Setenv("VECTOR_FETCH_DELAY", "0s")
	t.Setenv("VECTOR_NOTIFY_EVENTS", "price_move, ,error")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, uint64(42), cfg.Jitter.Seed)
	assert.Zero(t, cfg.Fetch.Delay.Duration)
	assert.Equal(t, []string{"price_move", "error"}, cfg.Notify.Events)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "trade"
	cfg.Jitter.MaxDelta = 0
	cfg.Storage.Backend = "redis"
	cfg.Refresh.Schedule = "every now and then"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `unknown mode "trade"`)
	assert.Contains(t, msg, "jitter: max_delta")
	assert.Contains(t, msg, "redis: addr is required")
	assert.Contains(t, msg, "refresh: invalid schedule")
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Postgres.Password = "hunter2"
	cfg.Notify.TelegramToken = "tok"

	out := RedactedConfig(&cfg)

	assert.Equal(t, "***", out.Postgres.Password)
	assert.Equal(t, "***", out.Notify.TelegramToken)
	assert.Empty(t, out.S3.SecretKey)
	assert.Equal(t, "hunter2", cfg.Postgres.Password)

	out.Server.CORSOrigins[0] = "mutated"
	assert.NotEqual(t, "mutated", cfg.Server.CORSOrigins[0])
}
