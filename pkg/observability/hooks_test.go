package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Lifecycle hooks
	l := NoopLifecycleHooks{}
	l.OnAcquire("map", "s1", time.Millisecond, nil)
	l.OnRelease("map", "s1", 12, nil)
	l.OnRender("s1", 5, 7, time.Millisecond, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "tiles")
	c.OnCacheMiss(ctx, "tiles")
	c.OnCacheSet(ctx, "tiles", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "raw.githubusercontent.com", "/land.geojson")
	h.OnResponse(ctx, "GET", "raw.githubusercontent.com", "/land.geojson", 200, time.Second)
	h.OnError(ctx, "GET", "raw.githubusercontent.com", "/land.geojson", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Lifecycle().(NoopLifecycleHooks); !ok {
		t.Error("Lifecycle() should return NoopLifecycleHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLifecycle := &testLifecycleHooks{}
	SetLifecycleHooks(customLifecycle)
	if Lifecycle() != customLifecycle {
		t.Error("SetLifecycleHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Lifecycle().(NoopLifecycleHooks); !ok {
		t.Error("Reset() should restore NoopLifecycleHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLifecycleHooks{}
	SetLifecycleHooks(custom)

	// Setting nil should be ignored
	SetLifecycleHooks(nil)

	if Lifecycle() != custom {
		t.Error("SetLifecycleHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	h.OnAcquire("map", "s1", time.Millisecond, nil)
	h.OnRelease("map", "s1", 3, errors.New("boom"))
	h.OnCacheMiss(context.Background(), "tiles")

	out := buf.String()
	for _, want := range []string{"surface acquired", "container=map", "surface release incomplete", "err=boom", "cache miss"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

// Test implementations
type testLifecycleHooks struct{ NoopLifecycleHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
