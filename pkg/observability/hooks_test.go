package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Legalize hooks
	l := NoopLegalizeHooks{}
	l.OnConcordantBuilt(ctx, 3, 2, time.Second)
	l.OnCatalogsBuilt(ctx, 1, "Weights", 4, 0, time.Millisecond)
	l.OnConstruct(ctx, 0, 0, time.Microsecond, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/catalogs")
	h.OnResponse(ctx, "GET", "/catalogs", 200, time.Second)
	h.OnError(ctx, "GET", "/catalogs", nil)

	// Sweep hooks
	s := NoopSweepHooks{}
	s.OnSweepProgress(ctx, "run-1", 10, 100)
	s.OnSweepComplete(ctx, "run-1", 7, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Legalize().(NoopLegalizeHooks); !ok {
		t.Error("Legalize() should return NoopLegalizeHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}
	if _, ok := Sweep().(NoopSweepHooks); !ok {
		t.Error("Sweep() should return NoopSweepHooks by default")
	}

	// Set custom hooks
	customLegalize := &testLegalizeHooks{}
	SetLegalizeHooks(customLegalize)
	if Legalize() != customLegalize {
		t.Error("SetLegalizeHooks should set custom hooks")
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

	customSweep := &testSweepHooks{}
	SetSweepHooks(customSweep)
	if Sweep() != customSweep {
		t.Error("SetSweepHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Legalize().(NoopLegalizeHooks); !ok {
		t.Error("Reset() should restore NoopLegalizeHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testLegalizeHooks{}
	SetLegalizeHooks(custom)

	// Setting nil should be ignored
	SetLegalizeHooks(nil)

	if Legalize() != custom {
		t.Error("SetLegalizeHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testLegalizeHooks struct{ NoopLegalizeHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
type testSweepHooks struct{ NoopSweepHooks }
