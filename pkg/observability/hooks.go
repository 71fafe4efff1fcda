// Package observability provides hooks for metrics, tracing, and logging
// around the layout legalization core and its ambient stack.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about catalog construction, layout
// materialization, the HTTP driver, and sweep progress. CacheHooks is
// defined, but no package in this module calls its methods, so cache
// operations emit no events.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by pkg/core)
//   - Keeps pkg/core dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, a plain logger)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLegalizeHooks(&myLegalizeHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Ambient packages call hooks to emit events:
//
//	observability.Legalize().OnCatalogsBuilt(ctx, level, ds, splitCount, packCount, duration)
//	observability.Legalize().OnConstruct(ctx, splittingID, packingID, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Legalize Hooks
// =============================================================================

// LegalizeHooks receives events from the design-space builder and
// materializer (pkg/core/designspace, pkg/core/materialize).
type LegalizeHooks interface {
	// OnConcordantBuilt records a successful concordant-layout build.
	OnConcordantBuilt(ctx context.Context, numLevels, numDataspaces int, duration time.Duration)

	// OnCatalogsBuilt records catalog construction for one (level, dataspace) slot.
	OnCatalogsBuilt(ctx context.Context, level int, dataspace string, splitCount, packCount int, duration time.Duration)

	// OnConstruct records one Construct(splittingID, packingID) call.
	OnConstruct(ctx context.Context, splittingID, packingID uint64, duration time.Duration, err error)
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

// HTTPHooks receives events from pkg/httpapi request handling.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request-handling error.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// Sweep Hooks
// =============================================================================

// SweepHooks receives progress events from pkg/sweepstore-backed sweeps.
type SweepHooks interface {
	// OnSweepProgress records that an ID pair has been explored.
	OnSweepProgress(ctx context.Context, runID string, explored, total uint64)

	// OnSweepComplete records completion of a sweep run.
	OnSweepComplete(ctx context.Context, runID string, legalCount uint64, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLegalizeHooks is a no-op implementation of LegalizeHooks.
type NoopLegalizeHooks struct{}

func (NoopLegalizeHooks) OnConcordantBuilt(context.Context, int, int, time.Duration) {}
func (NoopLegalizeHooks) OnCatalogsBuilt(context.Context, int, string, int, int, time.Duration) {
}
func (NoopLegalizeHooks) OnConstruct(context.Context, uint64, uint64, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// NoopSweepHooks is a no-op implementation of SweepHooks.
type NoopSweepHooks struct{}

func (NoopSweepHooks) OnSweepProgress(context.Context, string, uint64, uint64)        {}
func (NoopSweepHooks) OnSweepComplete(context.Context, string, uint64, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	legalizeHooks LegalizeHooks = NoopLegalizeHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	sweepHooks    SweepHooks    = NoopSweepHooks{}
	hooksMu       sync.RWMutex
)

// SetLegalizeHooks registers custom legalization hooks.
// This should be called once at application startup before any core operations.
func SetLegalizeHooks(h LegalizeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		legalizeHooks = h
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
// This should be called once at application startup before serving any requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetSweepHooks registers custom sweep-progress hooks.
func SetSweepHooks(h SweepHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sweepHooks = h
	}
}

// Legalize returns the registered legalization hooks.
func Legalize() LegalizeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return legalizeHooks
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

// Sweep returns the registered sweep hooks.
func Sweep() SweepHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sweepHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	legalizeHooks = NoopLegalizeHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
	sweepHooks = NoopSweepHooks{}
}
