package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/triploop/routecore/internal/domain"
)

// lruEntry pairs a route set with the moment it was inserted, so the
// in-process fallback can apply the same TTL-on-read semantics as Redis
// (spec.md §4.2).
type lruEntry struct {
	routes     []domain.Route
	insertedAt time.Time
}

// localLRU is the bounded in-process fallback exercised when Redis is
// unreachable. It is never the primary store: Redis failures must not
// surface to callers as errors, per spec.md §4.2's "silently degrading
// is the design".
type localLRU struct {
	cache  *lru.Cache[string, lruEntry]
	ttl    time.Duration
	logger *zap.Logger
}

func newLocalLRU(maxEntries int, ttl time.Duration, logger *zap.Logger) (*localLRU, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	c, err := lru.New[string, lruEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &localLRU{cache: c, ttl: ttl, logger: logger}, nil
}

func (l *localLRU) get(key string) ([]domain.Route, bool) {
	entry, ok := l.cache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Since(entry.insertedAt) > l.ttl {
		l.cache.Remove(key)
		return nil, false
	}
	return entry.routes, true
}

func (l *localLRU) put(key string, routes []domain.Route) {
	l.cache.Add(key, lruEntry{routes: routes, insertedAt: time.Now().UTC()})
}
