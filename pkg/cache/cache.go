// Package cache provides caching for reduction results.
//
// Reducing a large CPG export is cheap next to parsing it, but both are
// deterministic, so the serialized output for a given input graph and
// option set never changes. The cache keys on a hash of the canonical DOT
// encoding of the input graph plus the reduction options, letting repeat
// invocations skip the whole pipeline.
//
// Two backends are provided: a file-based cache for local CLI usage and a
// Redis-based cache for the serve mode, where several workers may share
// one cache. A null backend disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	// ReduceTTL is how long a reduction result stays valid. Results are
	// content-addressed, so the TTL only bounds disk growth.
	ReduceTTL = 7 * 24 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. Returns (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for pipeline stages.
type Keyer interface {
	// ReduceKey generates a key for a serialized reduction result.
	// graphHash identifies the input graph content.
	ReduceKey(graphHash string, opts ReduceKeyOpts) string
}

// ReduceKeyOpts captures the options that change a reduction's output.
type ReduceKeyOpts struct {
	NodeType string
	Format   string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ReduceKey generates a key for a serialized reduction result.
// The key format is: reduce:hash(graphHash, opts)
func (k *DefaultKeyer) ReduceKey(graphHash string, opts ReduceKeyOpts) string {
	return hashKey("reduce", graphHash, opts.NodeType, opts.Format)
}
