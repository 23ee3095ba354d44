package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zgsm-ai/tool-reply/internal/config"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

const defaultKeyPrefix = "tool-reply:response:"

// RedisCache is a ResponseCache backed by Redis, for deployments where
// several replicas should share formatted responses.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCache creates a Redis-backed response cache
func NewRedisCache(redisConf config.RedisConfig, cacheConf config.CacheConfig) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     redisConf.Addr,
		Password: redisConf.Password,
		DB:       redisConf.DB,
	})

	prefix := cacheConf.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &RedisCache{
		client:    client,
		keyPrefix: prefix,
	}
}

// Get returns the cached response for the fingerprint. redis.Nil is a miss,
// any other error is surfaced for the pipeline to absorb.
func (rc *RedisCache) Get(ctx context.Context, fingerprint string) (*types.FormattedResponse, bool, error) {
	data, err := rc.client.Get(ctx, rc.keyPrefix+fingerprint).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var response types.FormattedResponse
	if err := json.Unmarshal([]byte(data), &response); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached response: %w", err)
	}

	return &response, true, nil
}

// Set stores the response under the fingerprint with the given TTL
func (rc *RedisCache) Set(ctx context.Context, fingerprint string, response *types.FormattedResponse, ttl time.Duration) error {
	if response == nil {
		return nil
	}

	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	if err := rc.client.Set(ctx, rc.keyPrefix+fingerprint, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection
func (rc *RedisCache) Ping(ctx context.Context) error {
	if err := rc.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection unhealthy: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
