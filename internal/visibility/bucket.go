package visibility

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/mediascope/visibility/internal/adapters/cache"
	"github.com/mediascope/visibility/pkg/logger"
)

// Requested windows snap up to one of these bucket sizes. Caching the
// larger bucket lets a 3-day and a 7-day request share one upstream
// fetch; the response is filtered back down to the requested window.
const (
	bucketShort = 7
	bucketLong  = 30
)

// bucketFor maps a requested window to its bucket size and TTL.
// Windows beyond the long bucket are cached at their exact size.
func bucketFor(days int) (int, time.Duration) {
	switch {
	case days <= bucketShort:
		return bucketShort, cache.TTLBucketShort
	case days <= bucketLong:
		return bucketLong, cache.TTLBucketLong
	default:
		return days, cache.TTLBucketLong
	}
}

// Bucketed caches one signal kind per entity in time buckets. The
// fetch callback loads the full bucket from upstream; filter projects
// a cached bucket down to the requested window, recomputing any
// aggregates. Concurrent misses may fetch the same bucket twice; the
// duplicate write is harmless, so there is no single-flight guard.
type Bucketed[T any] struct {
	store  cache.Store
	kind   string
	fetch  func(ctx context.Context, entityID string, from, to time.Time) (T, error)
	filter func(full T, from, to time.Time) T
}

// NewBucketed creates a bucketed cache for one signal kind.
func NewBucketed[T any](
	store cache.Store,
	kind string,
	fetch func(ctx context.Context, entityID string, from, to time.Time) (T, error),
	filter func(full T, from, to time.Time) T,
) *Bucketed[T] {
	return &Bucketed[T]{store: store, kind: kind, fetch: fetch, filter: filter}
}

// Get returns the signal for the requested window, serving it from the
// enclosing bucket when cached. The bool reports a cache hit.
func (b *Bucketed[T]) Get(ctx context.Context, entityID string, days int, now time.Time) (T, bool, error) {
	bucketDays, ttl := bucketFor(days)
	to := now
	from := now.AddDate(0, 0, -days)
	bucketFrom := now.AddDate(0, 0, -bucketDays)

	key := cache.BuildKey(b.kind, entityID, bucketDays)

	if data, ok := b.store.Get(ctx, key); ok {
		var full T
		if err := json.Unmarshal(data, &full); err == nil {
			return b.filter(full, from, to), true, nil
		}
		logger.Warn("dropping undecodable cache entry", zap.String("key", key))
	}

	full, err := b.fetch(ctx, entityID, bucketFrom, to)
	if err != nil {
		var zero T
		return zero, false, err
	}

	if data, err := json.Marshal(full); err == nil {
		b.store.Set(ctx, key, data, ttl)
	}

	return b.filter(full, from, to), false, nil
}
