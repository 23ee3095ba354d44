package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/zgsm-ai/tool-reply/internal/config"
	"github.com/zgsm-ai/tool-reply/internal/types"
)

const (
	defaultNumCounters = 1e6
	defaultMaxCost     = 64 << 20 // 64MB
	defaultBufferItems = 64
)

// MemoryCache is an in-process ResponseCache backed by ristretto.
// Entries expire after their per-entry TTL; eviction beyond that is
// cost-based and handled by ristretto's admission policy.
type MemoryCache struct {
	cache *ristretto.Cache
}

// NewMemoryCache creates a memory cache sized from configuration
func NewMemoryCache(c config.CacheConfig) (*MemoryCache, error) {
	numCounters := c.NumCounters
	if numCounters <= 0 {
		numCounters = defaultNumCounters
	}
	maxCost := c.MaxCostMB << 20
	if maxCost <= 0 {
		maxCost = defaultMaxCost
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: defaultBufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &MemoryCache{cache: cache}, nil
}

// Get returns the cached response for the fingerprint
func (mc *MemoryCache) Get(_ context.Context, fingerprint string) (*types.FormattedResponse, bool, error) {
	value, found := mc.cache.Get(fingerprint)
	if !found {
		return nil, false, nil
	}

	cached, ok := value.(*types.FormattedResponse)
	if !ok {
		return nil, false, nil
	}

	// Hand out a copy so callers never mutate the stored entry
	clone := *cached
	return &clone, true, nil
}

// Set stores a copy of the response under the fingerprint
func (mc *MemoryCache) Set(_ context.Context, fingerprint string, response *types.FormattedResponse, ttl time.Duration) error {
	if response == nil {
		return nil
	}

	clone := *response
	mc.cache.SetWithTTL(fingerprint, &clone, int64(len(response.Content)+200), ttl)
	return nil
}

// Wait blocks until buffered writes are applied. Used by tests that read
// immediately after writing.
func (mc *MemoryCache) Wait() {
	mc.cache.Wait()
}

// Close releases the cache resources
func (mc *MemoryCache) Close() error {
	mc.cache.Close()
	return nil
}
