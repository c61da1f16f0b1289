package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"menu-highlights/internal/adapters/repo"
	"menu-highlights/internal/adapters/snapshot"
	"menu-highlights/internal/adapters/sqlite"
	"menu-highlights/internal/domain"
	"menu-highlights/internal/infra/cache"
	"menu-highlights/internal/infra/config"
	"menu-highlights/internal/infra/db"
	"menu-highlights/internal/infra/queue"
)

// Stores bundles the persistence ports selected by configuration.
type Stores struct {
	Snapshots domain.SnapshotRepo
	Catalog   domain.ProductCatalog
	Products  domain.ProductWriter
	// Cache is nil when REDIS_ADDR is empty.
	Cache domain.Cache
	Redis *redis.Client

	closers []func()
}

// OpenStores connects the configured snapshot backend and, when REDIS_ADDR is set,
// wraps it in a write-through Redis cache.
func OpenStores(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger) (*Stores, error) {
	s := &Stores{}

	switch cfg.Snapshot.Backend {
	case config.BackendPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("PG_DSN is required for the %s backend", config.BackendPostgres)
		}
		pool, err := db.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		pg := repo.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		s.Snapshots, s.Catalog, s.Products = pg, pg, pg
	case config.BackendSQLite, "":
		lite, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = lite.Close() })
		s.Snapshots, s.Catalog, s.Products = lite, lite, lite
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			s.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.closers = append(s.closers, func() { _ = client.Close() })
		s.Redis = client
		s.Cache = cache.NewRedis(client)
		s.Snapshots = snapshot.NewCached(s.Snapshots, s.Cache, cfg.Snapshot.CacheTTL, logger.With().Str("component", "snapshot_cache").Logger())
	}
	return s, nil
}

// AnnounceQueue opens the configured announce queue.
func (s *Stores) AnnounceQueue(cfg config.AppConfig) (domain.AnnounceQueue, error) {
	switch cfg.Queue.Backend {
	case config.QueueRabbitMQ:
		q, err := queue.NewRabbitAnnounceQueue(cfg.Queue.RabbitURL, cfg.Queue.Key)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = q.Close() })
		return q, nil
	case config.QueueRedis, "":
		if s.Redis == nil {
			return nil, fmt.Errorf("REDIS_ADDR is required for the %s queue", config.QueueRedis)
		}
		return queue.NewRedisAnnounceQueue(s.Redis, cfg.Queue.Key), nil
	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.Queue.Backend)
	}
}

// Close releases connections in reverse order.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
