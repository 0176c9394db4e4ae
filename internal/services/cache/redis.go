package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mclantax/content-pipeline/pkg/logger"
)

// RedisCache stores entries in Redis under a key prefix
type RedisCache struct {
	rdb    goredis.UniversalClient
	prefix string
	log    *logger.Logger
}

// RedisOptions configures NewRedisCache
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisCache connects and pings the server
func NewRedisCache(ctx context.Context, opts RedisOptions, log *logger.Logger) (*RedisCache, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisCacheFromClient(rdb, opts.Prefix, log), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(rdb goredis.UniversalClient, prefix string, log *logger.Logger) *RedisCache {
	if prefix == "" {
		prefix = "pipeline:"
	}
	return &RedisCache{rdb: rdb, prefix: prefix, log: log}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			r.log.Warn("Redis get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return r.rdb.Set(ctx, r.prefix+key, value, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.prefix+key).Err()
}

func (r *RedisCache) Close() error {
	return r.rdb.Close()
}
