package cache

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/config"
	"github.com/triploop/routecore/internal/domain"
	domainrepo "github.com/triploop/routecore/internal/domain/repository"
)

// routeCache is the RouteCacheRepository implementation: Redis is the
// primary store, with a bounded in-process LRU serving reads and writes
// whenever Redis is unreachable. Callers never see Redis errors — a
// down cache degrades to cold-start latency, not a failed request
// (spec.md §4.2).
type routeCache struct {
	redis  *Redis
	local  *localLRU
	ttl    time.Duration
	logger *zap.Logger
}

func NewRouteCacheRepository(redisClient *Redis, cfg *config.CacheConfig, logger *zap.Logger) (domainrepo.RouteCacheRepository, error) {
	local, err := newLocalLRU(cfg.LRUMaxEntries, cfg.RouteCacheTTL, logger)
	if err != nil {
		return nil, err
	}
	return &routeCache{redis: redisClient, local: local, ttl: cfg.RouteCacheTTL, logger: logger}, nil
}

func (c *routeCache) Get(ctx context.Context, key string) ([]domain.Route, error) {
	data, err := c.redis.Client().Get(ctx, key).Bytes()
	switch {
	case err == nil:
		routes, expired, decodeErr := decodeEntry(data, c.ttl)
		if decodeErr != nil {
			c.logger.Warn("cache entry decode failed, treating as miss", zap.String("key", key), zap.Error(decodeErr))
			missesTotal.Inc()
			return nil, nil
		}
		if expired {
			missesTotal.Inc()
			return nil, nil
		}
		hitsTotal.WithLabelValues("redis").Inc()
		return routes, nil
	case errors.Is(err, goredis.Nil):
		// fall through to the local tier below
	default:
		c.logger.Warn("redis get failed, falling back to local cache", zap.Error(err))
		degradedTotal.Inc()
	}

	if routes, ok := c.local.get(key); ok {
		hitsTotal.WithLabelValues("local").Inc()
		return routes, nil
	}

	missesTotal.Inc()
	return nil, nil
}

func (c *routeCache) Put(ctx context.Context, key string, routes []domain.Route) error {
	data, err := encodeEntry(routes)
	if err != nil {
		return err
	}

	c.local.put(key, routes)

	if err := c.redis.Client().Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis put failed, route served from local cache only", zap.String("key", key), zap.Error(err))
		degradedTotal.Inc()
	}
	return nil
}
