// Package config defines the top-level configuration for the vector service
// and provides validation helpers.
package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by VECTOR_* environment variables.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Fetch    FetchConfig    `toml:"fetch"`
	Jitter   JitterConfig   `toml:"jitter"`
	Refresh  RefreshConfig  `toml:"refresh"`
	Storage  StorageConfig  `toml:"storage"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Feeds    FeedsConfig    `toml:"feeds"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port           int      `toml:"port"`
	CORSOrigins    []string `toml:"cors_origins"`
	APIKey         string   `toml:"api_key"`
	RateLimit      int      `toml:"rate_limit"`
	RateWindow     duration `toml:"rate_window"`
	RequestTimeout duration `toml:"request_timeout"`
	TrustedProxies []string `toml:"trusted_proxies"`
}

// FetchConfig controls the simulated fetch layer.
type FetchConfig struct {
	Delay          duration `toml:"delay"`
	MarketsStale   duration `toml:"markets_stale"`
	NewsStale      duration `toml:"news_stale"`
	PortfolioStale duration `toml:"portfolio_stale"`
}

// JitterConfig controls price perturbation. Seed 0 draws a random seed.
type JitterConfig struct {
	MaxDelta float64 `toml:"max_delta"`
	Seed     uint64  `toml:"seed"`
}

// RefreshConfig controls the background refresh and snapshot jobs.
type RefreshConfig struct {
	Enabled          bool     `toml:"enabled"`
	Schedule         string   `toml:"schedule"`
	LockTTL          duration `toml:"lock_ttl"`
	AlertThreshold   float64  `toml:"alert_threshold"`
	SnapshotSchedule string   `toml:"snapshot_schedule"`
}

// StorageConfig selects the onboarding flag backend.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"` // flag file for the file backend
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters. Addr empty disables Redis
// unless storage.backend requires it.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
	Prefix     string `toml:"prefix"`
}

// S3Config holds S3-compatible object storage parameters. An empty bucket
// disables snapshots.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
	Prefix         string `toml:"prefix"`
}

// FeedSource is one RSS/Atom feed and the category its items receive.
type FeedSource struct {
	URL      string `toml:"url"`
	Category string `toml:"category"`
	Source   string `toml:"source"`
}

// FeedsConfig controls RSS ingestion.
type FeedsConfig struct {
	Sources  []FeedSource `toml:"sources"`
	MaxItems int          `toml:"max_items"`
	MaxTotal int          `toml:"max_total"`
	Schedule string       `toml:"schedule"`
	Timeout  duration     `toml:"timeout"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration wraps time.Duration for TOML string decoding ("5m", "30s").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with the values used when no file is
// given. They match config.example.toml.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			CORSOrigins:    []string{"http://localhost:8081", "http://localhost:19006"},
			RateLimit:      120,
			RateWindow:     duration{time.Minute},
			RequestTimeout: duration{10 * time.Second},
		},
		Fetch: FetchConfig{
			Delay:          duration{500 * time.Millisecond},
			MarketsStale:   duration{30 * time.Second},
			NewsStale:      duration{60 * time.Second},
			PortfolioStale: duration{30 * time.Second},
		},
		Jitter: JitterConfig{MaxDelta: 0.02},
		Refresh: RefreshConfig{
			Enabled:          true,
			Schedule:         "@every 30s",
			LockTTL:          duration{20 * time.Second},
			AlertThreshold:   0.05,
			SnapshotSchedule: "@hourly",
		},
		Storage: StorageConfig{Backend: "file", Path: "data/flags.toml"},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "vector",
			User:          "vector",
			SSLMode:       "disable",
			PoolMaxConns:  4,
			PoolMinConns:  1,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			PoolSize:   10,
			MaxRetries: 3,
			Prefix:     "vector",
		},
		S3: S3Config{
			Region:         "us-east-1",
			ForcePathStyle: true,
			Prefix:         "snapshots",
		},
		Feeds: FeedsConfig{
			MaxItems: 20,
			MaxTotal: 200,
			Schedule: "@every 5m",
			Timeout:  duration{15 * time.Second},
		},
		Notify: NotifyConfig{
			Events: []string{"price_move", "error"},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"full":   true,
	"api":    true,
	"worker": true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validBackends = map[string]bool{
	"file":     true,
	"memory":   true,
	"redis":    true,
	"postgres": true,
}

var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Validate checks Config for invalid or missing values and returns a combined
// error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: full, api, worker)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, "server: rate_limit must be >= 0")
	}
	if c.Server.RateLimit > 0 && c.Server.RateWindow.Duration <= 0 {
		errs = append(errs, "server: rate_window must be > 0 when rate_limit is set")
	}
	for _, p := range c.Server.TrustedProxies {
		if !validProxy(p) {
			errs = append(errs, fmt.Sprintf("server: trusted_proxies entry %q is not an IP or CIDR", p))
		}
	}

	// Fetch
	if c.Fetch.Delay.Duration < 0 {
		errs = append(errs, "fetch: delay must be >= 0")
	}
	if c.Fetch.MarketsStale.Duration < 0 || c.Fetch.NewsStale.Duration < 0 || c.Fetch.PortfolioStale.Duration < 0 {
		errs = append(errs, "fetch: staleness windows must be >= 0")
	}

	// Jitter
	if c.Jitter.MaxDelta <= 0 || c.Jitter.MaxDelta > 0.5 {
		errs = append(errs, fmt.Sprintf("jitter: max_delta must be in (0, 0.5], got %g", c.Jitter.MaxDelta))
	}

	// Refresh
	if c.Refresh.Enabled {
		if _, err := scheduleParser.Parse(c.Refresh.Schedule); err != nil {
			errs = append(errs, fmt.Sprintf("refresh: invalid schedule %q: %v", c.Refresh.Schedule, err))
		}
		if c.Refresh.LockTTL.Duration <= 0 {
			errs = append(errs, "refresh: lock_ttl must be > 0")
		}
	}
	if c.Refresh.AlertThreshold < 0 || c.Refresh.AlertThreshold > 1 {
		errs = append(errs, "refresh: alert_threshold must be in [0, 1]")
	}
	if c.S3.Bucket != "" {
		if _, err := scheduleParser.Parse(c.Refresh.SnapshotSchedule); err != nil {
			errs = append(errs, fmt.Sprintf("refresh: invalid snapshot_schedule %q: %v", c.Refresh.SnapshotSchedule, err))
		}
	}

	// Storage
	backend := strings.ToLower(c.Storage.Backend)
	if !validBackends[backend] {
		errs = append(errs, fmt.Sprintf("storage: unknown backend %q (valid: file, memory, redis, postgres)", c.Storage.Backend))
	}
	if backend == "file" && strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, "storage: path is required for storage backend file")
	}
	if backend == "redis" && c.Redis.Addr == "" {
		errs = append(errs, "redis: addr is required for storage backend redis")
	}
	if backend == "postgres" && strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	// Redis
	if c.Redis.Addr != "" && c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// Feeds
	for i, src := range c.Feeds.Sources {
		if strings.TrimSpace(src.URL) == "" {
			errs = append(errs, fmt.Sprintf("feeds: sources[%d].url must not be empty", i))
		}
	}
	if len(c.Feeds.Sources) > 0 {
		if c.Feeds.MaxItems < 1 {
			errs = append(errs, "feeds: max_items must be >= 1")
		}
		if c.Feeds.MaxTotal < c.Feeds.MaxItems {
			errs = append(errs, "feeds: max_total must be >= max_items")
		}
		if _, err := scheduleParser.Parse(c.Feeds.Schedule); err != nil {
			errs = append(errs, fmt.Sprintf("feeds: invalid schedule %q: %v", c.Feeds.Schedule, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validProxy(s string) bool {
	s = strings.TrimSpace(s)
	if _, err := netip.ParsePrefix(s); err == nil {
		return true
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}
