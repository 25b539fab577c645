package cache

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/config"
)

// New returns the backend named by cfg.Driver. The close func is a no-op for
// the memory cache.
func New(ctx context.Context, cfg config.CacheConfig, timeProvider core.TimeProvider, logger core.Logger) (core.Cache, func() error, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryCache(timeProvider), func() error { return nil }, nil
	case "redis":
		c := NewRedisCache(cfg.Redis, logger)
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr(), err)
		}
		logger.Info("Redis cache connected", map[string]any{"addr": cfg.Redis.Addr(), "db": cfg.Redis.DB})
		return c, c.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}
