// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout runs, cache operations, and HTTP requests.
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
//	    observability.SetRunHooks(&myRunHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Run().OnPlanStart(ctx, setName, variantCount)
//	// ... compute plan ...
//	observability.Run().OnPlanComplete(ctx, setName, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Run Hooks
// =============================================================================

// RunHooks receives events from a layout run.
type RunHooks interface {
	// Scan events
	OnScanStart(ctx context.Context, setName string)
	OnScanComplete(ctx context.Context, setName string, variantCount int, duration time.Duration)

	// Validation events
	OnValidateComplete(ctx context.Context, setName string, err error)

	// Plan events
	OnPlanStart(ctx context.Context, setName string, variantCount int)
	OnPlanComplete(ctx context.Context, setName string, duration time.Duration, err error)

	// Apply events
	OnApplyComplete(ctx context.Context, setName string, duration time.Duration, err error)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP server handling.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRunHooks is a no-op implementation of RunHooks.
type NoopRunHooks struct{}

func (NoopRunHooks) OnScanStart(context.Context, string)                           {}
func (NoopRunHooks) OnScanComplete(context.Context, string, int, time.Duration)    {}
func (NoopRunHooks) OnValidateComplete(context.Context, string, error)             {}
func (NoopRunHooks) OnPlanStart(context.Context, string, int)                      {}
func (NoopRunHooks) OnPlanComplete(context.Context, string, time.Duration, error)  {}
func (NoopRunHooks) OnApplyComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	runHooks   RunHooks   = NoopRunHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetRunHooks registers custom run hooks.
// This should be called once at application startup before any layout runs.
func SetRunHooks(h RunHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		runHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Run returns the registered run hooks.
func Run() RunHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return runHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	runHooks = NoopRunHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
