package cache

import (
	"context"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/mediascope/visibility/internal/adapters/config"
	"github.com/mediascope/visibility/pkg/logger"
)

// TTLs per cached data kind. Shorter buckets refresh more often than
// longer ones because recent activity changes faster.
const (
	TTLTrends      = 12 * time.Hour
	TTLSentiment   = 24 * time.Hour
	TTLThemes      = 24 * time.Hour
	TTLBucketShort = 12 * time.Hour
	TTLBucketLong  = 24 * time.Hour
)

// Store is the key-value cache consumed by the core. Absence of an
// entry always means "unknown", never "zero". Implementations must
// degrade to misses instead of returning errors that abort a request.
type Store interface {
	// Get returns the raw entry and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores an entry with a TTL. Best-effort.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// DeletePattern removes all keys matching a glob pattern and
	// returns how many were dropped.
	DeletePattern(ctx context.Context, pattern string) int

	// Keys lists keys matching a glob pattern, for inspection.
	Keys(ctx context.Context, pattern string) []string

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// RedisStore backs Store with a Redis instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis. Connection failure is returned to
// the caller so startup can fall back to the no-op store.
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr(cfg),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info("redis cache store initialized",
		zap.String("address", addr(cfg)),
		zap.Int("db", cfg.DB),
	)

	return &RedisStore{client: client}, nil
}

func addr(cfg *config.RedisConfig) string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		logger.Debug("cache miss", zap.String("key", key))
		return nil, false
	}
	if err != nil {
		logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	logger.Debug("cache hit", zap.String("key", key))
	return data, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *RedisStore) DeletePattern(ctx context.Context, pattern string) int {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return 0
	}
	deleted, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		logger.Warn("cache delete failed", zap.String("pattern", pattern), zap.Error(err))
		return 0
	}
	return int(deleted)
}

func (s *RedisStore) Keys(ctx context.Context, pattern string) []string {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		logger.Warn("cache keys failed", zap.String("pattern", pattern), zap.Error(err))
		return nil
	}
	return keys
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
