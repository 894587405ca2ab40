package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures NewRedisClient. Timeouts are in seconds.
type RedisConfig struct {
	URL          string
	ReadTimeout  int
	WriteTimeout int
	DialTimeout  int
}

// NewRedisClient parses the URL, applies timeouts and pings the server.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(cfg.WriteTimeout) * time.Second
	opts.DialTimeout = time.Duration(cfg.DialTimeout) * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type redisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedis keeps one string key per (origin, key) under prefix.
func NewRedis(client *redis.Client, prefix string) Backend {
	return &redisBackend{client: client, prefix: prefix}
}

func (r *redisBackend) redisKey(origin, key string) string {
	return r.prefix + ":" + origin + ":" + key
}

func (r *redisBackend) Get(ctx context.Context, origin, key string) (string, error) {
	v, err := r.client.Get(ctx, r.redisKey(origin, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return v, nil
}

func (r *redisBackend) Set(ctx context.Context, origin, key, value string) error {
	return r.client.Set(ctx, r.redisKey(origin, key), value, 0).Err()
}

func (r *redisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisBackend) Close() error {
	return r.client.Close()
}
