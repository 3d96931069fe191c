// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks let the binary attach instrumentation without the libraries
// depending on a specific backend. Libraries call the registered hooks; the
// defaults are no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries emit events through the registry:
//
//	observability.Layout().OnLayoutStart(ctx, name, nodeCount)
//	// ... passes ...
//	observability.Layout().OnLayoutComplete(ctx, name, passes, duration, timedOut)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout sessions.
//
// Unlike the session's listener, OnLayoutComplete tells converged and
// timed-out sessions apart. Consumers of the layout itself never see that
// distinction.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, network string, nodeCount int, warm bool)
	OnPass(ctx context.Context, network string, pass int, delta float64)
	OnLayoutComplete(ctx context.Context, network string, passes int, duration time.Duration, timedOut bool)
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

// HTTPHooks receives events from the HTTP service.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int, bool)                   {}
func (NoopLayoutHooks) OnPass(context.Context, string, int, float64)                       {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, int, time.Duration, bool) {}

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

// registry is replaced as a whole on every Set call, so readers never lock.
type registry struct {
	layout LayoutHooks
	cache  CacheHooks
	http   HTTPHooks
}

var (
	current atomic.Pointer[registry]
	setMu   sync.Mutex
)

func init() { Reset() }

func update(fn func(r *registry)) {
	setMu.Lock()
	defer setMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetLayoutHooks registers the hooks that layout sessions report to.
// A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) {
	if h != nil {
		update(func(r *registry) { r.layout = h })
	}
}

// SetCacheHooks registers the hooks the pipeline reports cache traffic to.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers the hooks the layout server reports requests to.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

func Layout() LayoutHooks { return current.Load().layout }
func Cache() CacheHooks   { return current.Load().cache }
func HTTP() HTTPHooks     { return current.Load().http }

// Reset restores the no-op hooks. Tests that register hooks call it in
// t.Cleanup.
func Reset() {
	setMu.Lock()
	defer setMu.Unlock()
	current.Store(&registry{
		layout: NoopLayoutHooks{},
		cache:  NoopCacheHooks{},
		http:   NoopHTTPHooks{},
	})
}
