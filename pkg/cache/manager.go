package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss indicates the requested key was not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// Prometheus metrics for cache operations.
var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plenty_cache_hits_total",
		Help: "Reference-data responses served from cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plenty_cache_misses_total",
		Help: "Reference-data cache misses",
	})

	cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plenty_cache_errors_total",
		Help: "Cache operation errors by operation",
	}, []string{"operation"})
)

// Manager handles caching operations with a Redis backend.
type Manager struct {
	redis *redis.Client
}

// NewManager creates a cache manager. The Redis client must not be
// nil; callers without Redis simply pass no manager to the API client.
func NewManager(redisClient *redis.Client) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Manager{redis: redisClient}
}

// Get retrieves a cached response body.
// Returns ErrCacheMiss if the key doesn't exist or has expired.
func (m *Manager) Get(ctx context.Context, key Key) ([]byte, error) {
	data, err := m.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			cacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		cacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	cacheHits.Inc()
	return data, nil
}

// Set stores a response body with the given TTL.
func (m *Manager) Set(ctx context.Context, key Key, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := m.redis.Set(ctx, key.String(), body, ttl).Err(); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a cache entry.
func (m *Manager) Delete(ctx context.Context, key Key) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		cacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}
