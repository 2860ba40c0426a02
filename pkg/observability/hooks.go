// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnReduceStart(ctx, graphName, nodeCount)
//	// ... do reduction ...
//	observability.Pipeline().OnReduceComplete(ctx, graphName, edgesRemoved, nodesRemoved, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the reduction pipeline.
type PipelineHooks interface {
	// Decode events
	OnDecodeStart(ctx context.Context, source string)
	OnDecodeComplete(ctx context.Context, source string, graphCount int, duration time.Duration, err error)

	// Reduce events
	OnReduceStart(ctx context.Context, graphName string, nodeCount int)
	OnReduceComplete(ctx context.Context, graphName string, edgesRemoved, nodesRemoved int, duration time.Duration, err error)

	// Merge events
	OnMergeStart(ctx context.Context, graphName string)
	OnMergeComplete(ctx context.Context, graphName string, compartmentCount int, duration time.Duration, err error)

	// Serialize events
	OnSerializeStart(ctx context.Context, format string)
	OnSerializeComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDecodeStart(context.Context, string) {}
func (NoopPipelineHooks) OnDecodeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnReduceStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnReduceComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnMergeStart(context.Context, string)                                  {}
func (NoopPipelineHooks) OnMergeComplete(context.Context, string, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnSerializeStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnSerializeComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
