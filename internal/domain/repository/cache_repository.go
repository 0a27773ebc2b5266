package repository

import (
	"context"

	"github.com/triploop/routecore/internal/domain"
)

// RouteCacheRepository is the content-addressed route cache capability
// (C3). Get returns (nil, nil) on a cache miss, matching the hit/miss
// idiom of the teacher's Redis-backed CacheRepository.
type RouteCacheRepository interface {
	Get(ctx context.Context, key string) ([]domain.Route, error)
	Put(ctx context.Context, key string, routes []domain.Route) error
}
