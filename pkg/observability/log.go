package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug-level structured log line. It
// implements LifecycleHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnAcquire(container, surface string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("surface acquire failed", "container", container, "err", err)
		return
	}
	h.logger.Debug("surface acquired", "container", container, "surface", surface, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRelease(container, surface string, elements int, err error) {
	if err != nil {
		h.logger.Warn("surface release incomplete", "container", container, "surface", surface, "err", err)
		return
	}
	h.logger.Debug("surface released", "container", container, "surface", surface, "elements", elements)
}

func (h *LogHooks) OnRender(surface string, markers, paths int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "surface", surface, "err", err)
		return
	}
	h.logger.Debug("rendered", "surface", surface, "markers", markers, "paths", paths, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ LifecycleHooks = (*LogHooks)(nil)
	_ CacheHooks     = (*LogHooks)(nil)
	_ HTTPHooks      = (*LogHooks)(nil)
)
