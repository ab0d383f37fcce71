// Package observability lets the binary watch surface lifecycles, cache
// traffic and tile downloads without the libraries knowing who listens.
//
// Each event category has a hooks interface with a no-op default. The CLI
// installs [LogHooks] before running a command; library code only ever reads
// the current hooks:
//
//	start := time.Now()
//	id, err := capability.CreateSurface(container)
//	observability.Lifecycle().OnAcquire(container.ID, string(id), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Lifecycle Hooks
// =============================================================================

// LifecycleHooks receives events from map surface lifecycles. Surface
// lifecycles are synchronous and carry no context.
type LifecycleHooks interface {
	// OnAcquire records a surface acquisition attempt.
	OnAcquire(container, surface string, duration time.Duration, err error)

	// OnRelease records a surface teardown and how many elements it removed.
	OnRelease(container, surface string, elements int, err error)

	// OnRender records a render pass over a surface.
	OnRender(surface string, markers, paths int, duration time.Duration, err error)
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

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLifecycleHooks is a no-op implementation of LifecycleHooks.
type NoopLifecycleHooks struct{}

func (NoopLifecycleHooks) OnAcquire(string, string, time.Duration, error)  {}
func (NoopLifecycleHooks) OnRelease(string, string, int, error)            {}
func (NoopLifecycleHooks) OnRender(string, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// slot holds the hooks registered for one event category.
type slot[T any] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T any](noop T) *slot[T] { return &slot[T]{cur: noop, noop: noop} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set installs h; a nil h leaves the current hooks in place.
func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	lifecycleSlot = newSlot[LifecycleHooks](NoopLifecycleHooks{})
	cacheSlot     = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot      = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetLifecycleHooks registers lifecycle hooks. Call it at startup, before the
// first surface is acquired.
func SetLifecycleHooks(h LifecycleHooks) { lifecycleSlot.set(h) }

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks registers HTTP client hooks.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

// Lifecycle returns the registered lifecycle hooks.
func Lifecycle() LifecycleHooks { return lifecycleSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores the no-op hooks everywhere. Tests call it in cleanup.
func Reset() {
	lifecycleSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
