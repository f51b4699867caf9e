package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	b := NoopBundleHooks{}
	b.OnBundleStart(ctx, 100)
	b.OnCompatibility(ctx, 4950, 300, 120)
	b.OnBundleComplete(ctx, 100, 3400, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "bundle")
	c.OnCacheMiss(ctx, "bundle")
	c.OnCacheSet(ctx, "bundle", 1024)
	c.OnCacheError(ctx, "bundle", "get", errors.New("boom"))

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/bundle")
	h.OnResponse(ctx, "POST", "/v1/bundle", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Bundle().(NoopBundleHooks); !ok {
		t.Error("Bundle() should return NoopBundleHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customBundle := &testBundleHooks{}
	SetBundleHooks(customBundle)
	if Bundle() != customBundle {
		t.Error("SetBundleHooks should set custom hooks")
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

	Reset()
	if _, ok := Bundle().(NoopBundleHooks); !ok {
		t.Error("Reset() should restore NoopBundleHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testBundleHooks{}
	SetBundleHooks(custom)
	SetBundleHooks(nil)

	if Bundle() != custom {
		t.Error("SetBundleHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf strings.Builder
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnBundleStart(ctx, 3)
	h.OnBundleComplete(ctx, 3, 102, time.Millisecond, nil)
	h.OnBundleComplete(ctx, 3, 0, time.Millisecond, errors.New("canceled"))
	h.OnCacheError(ctx, "bundle", "set", errors.New("disk full"))
	h.OnResponse(ctx, "POST", "/v1/bundle", 400, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"bundle start", "bundle complete", "bundle failed", "disk full", "status=400"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testBundleHooks struct{ NoopBundleHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
