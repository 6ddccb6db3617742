package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"jobportal/internal/config"
	"jobportal/internal/logging"
)

const keyPrefix = "jobportal:resource"

// RedisCache stores generated resource guides keyed by audience and topic
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewRedisCache creates a Redis-backed cache from the redis and cache config sections
func NewRedisCache(cfg *config.Config) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	timeout := cfg.Redis.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	return NewRedisCacheWithClient(redis.NewClient(opts), cfg.Cache.TTL), nil
}

// NewRedisCacheWithClient wraps an existing client
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logging.GetGlobalLogger(),
	}
}

// Get returns the cached guide, or ok=false on a miss
func (r *RedisCache) Get(ctx context.Context, audience, topic string) (string, bool, error) {
	content, err := r.client.Get(ctx, Key(audience, topic)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cached resource: %w", err)
	}
	return content, true, nil
}

// Set stores a guide for the configured TTL
func (r *RedisCache) Set(ctx context.Context, audience, topic, content string) error {
	if err := r.client.Set(ctx, Key(audience, topic), content, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to cache resource content", map[string]interface{}{
			"audience": audience,
			"topic":    topic,
			"error":    err.Error(),
		})
		return fmt.Errorf("failed to cache resource: %w", err)
	}
	return nil
}

// Ping tests the Redis connection
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Key builds the cache key; topics are matched case-insensitively
func Key(audience, topic string) string {
	audience = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(audience), " ", "_"))
	topic = strings.ToLower(strings.TrimSpace(topic))
	return fmt.Sprintf("%s:%s:%s", keyPrefix, audience, topic)
}
