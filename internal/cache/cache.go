package cache

import (
	"context"
	"time"

	"github.com/zgsm-ai/tool-reply/internal/types"
)

// ResponseCache maps a request fingerprint to a previously generated
// formatted response. Implementations must be safe for concurrent use and
// must never block on the generation backend.
//
// Caching is a performance optimization, never a correctness dependency:
// the pipeline treats a failed read as a miss and swallows failed writes.
type ResponseCache interface {
	// Get returns the cached response for the fingerprint, or false when
	// absent or expired
	Get(ctx context.Context, fingerprint string) (*types.FormattedResponse, bool, error)

	// Set stores the response under the fingerprint for the given TTL
	Set(ctx context.Context, fingerprint string, response *types.FormattedResponse, ttl time.Duration) error

	// Close releases any resources held by the cache
	Close() error
}
