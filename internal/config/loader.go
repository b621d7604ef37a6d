package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load merges the TOML file at path over Defaults and applies VECTOR_*
// environment overrides. An empty path skips the file. The result is not
// validated; callers run Validate afterwards.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	// A missing .env is fine.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Server
	setInt(&cfg.Server.Port, "VECTOR_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "VECTOR_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "VECTOR_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "VECTOR_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "VECTOR_SERVER_RATE_WINDOW")
	setDuration(&cfg.Server.RequestTimeout, "VECTOR_SERVER_REQUEST_TIMEOUT")
	setStringSlice(&cfg.Server.TrustedProxies, "VECTOR_SERVER_TRUSTED_PROXIES")

	// Fetch
	setDuration(&cfg.Fetch.Delay, "VECTOR_FETCH_DELAY")
	setDuration(&cfg.Fetch.MarketsStale, "VECTOR_FETCH_MARKETS_STALE")
	setDuration(&cfg.Fetch.NewsStale, "VECTOR_FETCH_NEWS_STALE")
	setDuration(&cfg.Fetch.PortfolioStale, "VECTOR_FETCH_PORTFOLIO_STALE")

	// Jitter
	setFloat64(&cfg.Jitter.MaxDelta, "VECTOR_JITTER_MAX_DELTA")
	setUint64(&cfg.Jitter.Seed, "VECTOR_JITTER_SEED")

	// Refresh
	setBool(&cfg.Refresh.Enabled, "VECTOR_REFRESH_ENABLED")
	setStr(&cfg.Refresh.Schedule, "VECTOR_REFRESH_SCHEDULE")
	setDuration(&cfg.Refresh.LockTTL, "VECTOR_REFRESH_LOCK_TTL")
	setFloat64(&cfg.Refresh.AlertThreshold, "VECTOR_REFRESH_ALERT_THRESHOLD")
	setStr(&cfg.Refresh.SnapshotSchedule, "VECTOR_REFRESH_SNAPSHOT_SCHEDULE")

	// Storage
	setStr(&cfg.Storage.Backend, "VECTOR_STORAGE_BACKEND")
	setStr(&cfg.Storage.Path, "VECTOR_STORAGE_PATH")

	// Postgres
	setStr(&cfg.Postgres.DSN, "VECTOR_POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL")
	setStr(&cfg.Postgres.Host, "VECTOR_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "VECTOR_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "VECTOR_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "VECTOR_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "VECTOR_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "VECTOR_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "VECTOR_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "VECTOR_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "VECTOR_POSTGRES_RUN_MIGRATIONS")

	// Redis
	setStr(&cfg.Redis.Addr, "VECTOR_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "VECTOR_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "VECTOR_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "VECTOR_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "VECTOR_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "VECTOR_REDIS_TLS_ENABLED")
	setStr(&cfg.Redis.Prefix, "VECTOR_REDIS_PREFIX")

	// S3
	setStr(&cfg.S3.Endpoint, "VECTOR_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "VECTOR_S3_REGION")
	setStr(&cfg.S3.Bucket, "VECTOR_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "VECTOR_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "VECTOR_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "VECTOR_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "VECTOR_S3_FORCE_PATH_STYLE")
	setStr(&cfg.S3.Prefix, "VECTOR_S3_PREFIX")

	// Feeds
	setInt(&cfg.Feeds.MaxItems, "VECTOR_FEEDS_MAX_ITEMS")
	setInt(&cfg.Feeds.MaxTotal, "VECTOR_FEEDS_MAX_TOTAL")
	setStr(&cfg.Feeds.Schedule, "VECTOR_FEEDS_SCHEDULE")
	setDuration(&cfg.Feeds.Timeout, "VECTOR_FEEDS_TIMEOUT")

	// Notify
	setStr(&cfg.Notify.TelegramToken, "VECTOR_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "VECTOR_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "VECTOR_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "VECTOR_NOTIFY_EVENTS")

	// Top-level
	setStr(&cfg.Mode, "VECTOR_MODE")
	setStr(&cfg.LogLevel, "VECTOR_LOG_LEVEL")
}

// Typed env helpers. Each only mutates the target when the variable is
// present, non-empty and parses.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setUint64(dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var cleaned []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) > 0 {
		*dst = cleaned
	}
}
