package cache

import (
	"context"
	"fmt"
	"time"
)

// Noop is the store used when no cache backend is configured. Every
// get is a miss and every set is discarded, so the pipeline runs
// uncached instead of failing.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}

func (Noop) DeletePattern(ctx context.Context, pattern string) int { return 0 }

func (Noop) Keys(ctx context.Context, pattern string) []string { return nil }

func (Noop) Ping(ctx context.Context) error { return fmt.Errorf("cache store not configured") }
