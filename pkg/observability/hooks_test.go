package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Editor hooks
	e := NoopEditorHooks{}
	e.OnGestureStart(ctx, "0b6c", "drag", "seat 12")
	e.OnGestureEnd(ctx, "0b6c", "drag", 42)
	e.OnRotate(ctx, 12, 90)
	e.OnMount(ctx, 2, time.Second, nil)
	e.OnSave(ctx, 7, 4, 1, time.Second)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "diagram")
	c.OnCacheMiss(ctx, "employee")
	c.OnCacheSet(ctx, "diagram", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "localhost:8080", "/api/rooms/7")
	h.OnResponse(ctx, "GET", "localhost:8080", "/api/rooms/7", 200, time.Second)
	h.OnError(ctx, "GET", "localhost:8080", "/api/rooms/7", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Editor() should return NoopEditorHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customEditor := &testEditorHooks{}
	SetEditorHooks(customEditor)
	if Editor() != customEditor {
		t.Error("SetEditorHooks should set custom hooks")
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
	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Reset() should restore NoopEditorHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEditorHooks{}
	SetEditorHooks(custom)

	// Setting nil should be ignored
	SetEditorHooks(nil)

	if Editor() != custom {
		t.Error("SetEditorHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testEditorHooks struct{ NoopEditorHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
