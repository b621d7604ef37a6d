package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	s3blob "github.com/noopishere/vector-mobile/internal/blob/s3"
	"github.com/noopishere/vector-mobile/internal/cache/redis"
	"github.com/noopishere/vector-mobile/internal/config"
	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/notify"
	"github.com/noopishere/vector-mobile/internal/store/file"
	"github.com/noopishere/vector-mobile/internal/store/memory"
	"github.com/noopishere/vector-mobile/internal/store/postgres"
)

// connectTimeout bounds each backend's startup dial.
const connectTimeout = 5 * time.Second

// Dependencies bundles the infrastructure the services run on. Every field is
// always set: backends that are not configured, or cannot be reached at
// startup, are replaced by their in-memory counterparts.
type Dependencies struct {
	Flags    domain.FlagStore
	Bus      domain.SignalBus
	Locks    domain.LockManager
	Limiter  domain.RateLimiter
	Notifier *notify.Notifier

	// Blob is nil when no bucket is configured.
	Blob domain.BlobWriter

	// Backend names what actually serves each concern, for the startup log.
	Backend map[string]string
}

// Wire builds Dependencies from cfg and returns a cleanup function that
// releases every opened connection in reverse order.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Bus:     memory.NewSignalBus(),
		Locks:   memory.NewLockManager(),
		Limiter: memory.NewRateLimiter(),
		Backend: map[string]string{"flags": "memory", "bus": "memory", "blob": "none"},
	}
	backend := strings.ToLower(cfg.Storage.Backend)

	// --- Redis: bus, locks, rate limits, and optionally flags ---
	if cfg.Redis.Addr != "" {
		rc, err := dialRedis(ctx, cfg.Redis)
		if err != nil {
			logger.WarnContext(ctx, "wire: redis unavailable, using memory",
				slog.String("addr", cfg.Redis.Addr),
				slog.String("error", err.Error()),
			)
		} else {
			closers = append(closers, func() { _ = rc.Close() })
			deps.Bus = redis.NewSignalBus(rc)
			deps.Locks = redis.NewLockManager(rc)
			deps.Limiter = redis.NewRateLimiter(rc)
			deps.Backend["bus"] = "redis"
			if backend == "redis" {
				deps.Flags = redis.NewFlagStore(rc)
				deps.Backend["flags"] = "redis"
			}
		}
	}

	// --- Local file: flags only ---
	if backend == "file" {
		deps.Flags = file.NewFlagStore(cfg.Storage.Path)
		deps.Backend["flags"] = "file"
	}

	// --- PostgreSQL: flags only ---
	if backend == "postgres" {
		pg, err := dialPostgres(ctx, cfg.Postgres)
		if err != nil {
			logger.WarnContext(ctx, "wire: postgres unavailable, using memory",
				slog.String("error", err.Error()),
			)
		} else {
			closers = append(closers, pg.Close)
			deps.Flags = postgres.NewFlagStore(pg.Pool())
			deps.Backend["flags"] = "postgres"
		}
	}
	deps.Flags = memory.NewFallbackFlagStore(deps.Flags, logger)

	// --- S3 snapshots ---
	if cfg.S3.Bucket != "" {
		client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.Blob = s3blob.NewWriter(client)
		deps.Backend["blob"] = "s3"
	}

	deps.Notifier = notify.NewNotifier(senders(cfg.Notify), cfg.Notify.Events, logger)

	return deps, cleanup, nil
}

// OpenFlags wires only the durable flag store, for CLI commands that inspect
// the onboarding flag without starting the service. The memory backend is
// refused: there is nothing to inspect outside the running process.
func OpenFlags(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.FlagStore, func(), error) {
	noop := func() {}
	backend := strings.ToLower(cfg.Storage.Backend)
	logger.DebugContext(ctx, "wire: opening flag store", slog.String("backend", backend))
	switch backend {
	case "redis":
		rc, err := dialRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, fmt.Errorf("wire: redis: %w", err)
		}
		return redis.NewFlagStore(rc), func() { _ = rc.Close() }, nil
	case "postgres":
		pg, err := dialPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, noop, fmt.Errorf("wire: postgres: %w", err)
		}
		return postgres.NewFlagStore(pg.Pool()), pg.Close, nil
	case "file":
		return file.NewFlagStore(cfg.Storage.Path), noop, nil
	default:
		return nil, noop, fmt.Errorf("wire: storage backend %q does not persist flags", cfg.Storage.Backend)
	}
}

func dialRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		PoolSize:   cfg.PoolSize,
		MaxRetries: cfg.MaxRetries,
		TLSEnabled: cfg.TLSEnabled,
		Prefix:     cfg.Prefix,
	})
}

func dialPostgres(ctx context.Context, cfg config.PostgresConfig) (*postgres.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	pg, err := postgres.New(dialCtx, postgres.ClientConfig{
		DSN:      cfg.DSN,
		Host:     cfg.Host,
		Port:     cfg.Port,
		Database: cfg.Database,
		User:     cfg.User,
		Password: cfg.Password,
		SSLMode:  cfg.SSLMode,
		MaxConns: cfg.PoolMaxConns,
		MinConns: cfg.PoolMinConns,
	})
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := pg.RunMigrations(ctx); err != nil {
			pg.Close()
			return nil, err
		}
	}
	return pg, nil
}

func senders(cfg config.NotifyConfig) []notify.Sender {
	var out []notify.Sender
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		out = append(out, notify.NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID))
	}
	if cfg.DiscordWebhookURL != "" {
		out = append(out, notify.NewDiscordSender(cfg.DiscordWebhookURL))
	}
	return out
}
