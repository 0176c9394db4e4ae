package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/mclantax/content-pipeline/pkg/config"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// New builds the configured cache backend
func New(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryCache(cfg.CleanupInterval), nil
	case "redis":
		rc, err := NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log)
		if err != nil {
			return nil, err
		}
		log.Info("Using redis cache", "addr", cfg.RedisAddr)
		return rc, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %q", cfg.Backend)
	}
}
