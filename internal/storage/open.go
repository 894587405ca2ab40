package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/migrate"
)

const redisKeyPrefix = "storefront"

// Open builds the Backend named by cfg.Driver. The postgres driver applies the
// embedded migrations before returning.
func Open(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (Backend, error) {
	switch cfg.Driver {
	case "", "memory":
		logger.Warn().Msg("storage: using in-memory backend, snapshots are lost on restart")
		return NewMemory(), nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info().Msg("storage: postgres backend ready")
		return NewPostgres(pool), nil
	case "redis":
		client, err := NewRedisClient(ctx, RedisConfig{
			URL:          cfg.Redis.URL,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			DialTimeout:  cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info().Msg("storage: redis backend ready")
		return NewRedis(client, redisKeyPrefix), nil
	case "leveldb":
		backend, err := OpenLevelDB(cfg.LevelDBPath)
		if err != nil {
			return nil, fmt.Errorf("open leveldb %s: %w", cfg.LevelDBPath, err)
		}
		logger.Info().Str("path", cfg.LevelDBPath).Msg("storage: leveldb backend ready")
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
