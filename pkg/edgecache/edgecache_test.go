package edgecache

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/niprobin/curated-digging/pkg/fetch"
	"github.com/niprobin/curated-digging/pkg/kv"
	"github.com/tidwall/gjson"
)

const goodBody = `[{"track":"Blue in Green","curator":"ana"}]`

type upstream struct {
	srv  *httptest.Server
	hits int64
	body atomic.Value
	code int64
}

func newUpstream(body string) *upstream {
	u := &upstream{}
	u.body.Store(body)
	atomic.StoreInt64(&u.code, http.StatusOK)
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&u.hits, 1)
		w.WriteHeader(int(atomic.LoadInt64(&u.code)))
		w.Write([]byte(u.body.Load().(string)))
	}))
	return u
}

func (u *upstream) requests() int64 { return atomic.LoadInt64(&u.hits) }

func testCache(t *testing.T, u *upstream) *Cache {
	t.Helper()
	return &Cache{
		Upstream: u.srv.URL,
		Client:   fetch.NewClient(0),
		Store:    kv.NewMemory(),
		Key:      "feed-tracks",
		Now:      time.Now,
	}
}

func get(t *testing.T, c *Cache, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestMissThenHit(t *testing.T) {
	u := newUpstream(goodBody)
	defer u.srv.Close()
	c := testCache(t, u)

	first := get(t, c, "/tracks")
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", first.Code)
	}
	if state := first.Header().Get("X-Cache"); state != StateMiss {
		t.Errorf("X-Cache = %q, want MISS", state)
	}
	if first.Body.String() != goodBody {
		t.Errorf("body = %q", first.Body.String())
	}
	if cc := first.Header().Get("Cache-Control"); cc != "public, max-age=60" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if origin := first.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", origin)
	}

	second := get(t, c, "/tracks")
	if state := second.Header().Get("X-Cache"); state != StateHit {
		t.Errorf("X-Cache = %q, want HIT", state)
	}
	if u.requests() != 1 {
		t.Errorf("upstream requests = %d, want 1", u.requests())
	}
}

func TestForceBypassesFreshCache(t *testing.T) {
	u := newUpstream(goodBody)
	defer u.srv.Close()
	c := testCache(t, u)

	get(t, c, "/tracks")
	u.body.Store(`[{"track":"So What"}]`)

	rec := get(t, c, "/tracks?force=1")
	if state := rec.Header().Get("X-Cache"); state != StateRefresh {
		t.Errorf("X-Cache = %q, want REFRESH", state)
	}
	if got := gjson.Get(rec.Body.String(), "0.track").String(); got != "So What" {
		t.Errorf("body not refreshed, got track %q", got)
	}
	if u.requests() != 2 {
		t.Errorf("upstream requests = %d, want 2", u.requests())
	}
}

func TestStaleServedWhenUpstreamBreaks(t *testing.T) {
	u := newUpstream(goodBody)
	defer u.srv.Close()

	clock := time.Now()
	c := testCache(t, u)
	c.Now = func() time.Time { return clock }

	get(t, c, "/tracks")

	// Let the entry expire, then break the upstream. The old body must
	// still come back rather than an error page.
	clock = clock.Add(DefaultTTL + time.Minute)
	atomic.StoreInt64(&u.code, http.StatusInternalServerError)

	rec := get(t, c, "/tracks")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if state := rec.Header().Get("X-Cache"); state != StateStale {
		t.Errorf("X-Cache = %q, want STALE", state)
	}
	if rec.Body.String() != goodBody {
		t.Errorf("body = %q, want the cached copy", rec.Body.String())
	}
}

func TestUpstreamStatusMirroredWithoutCache(t *testing.T) {
	u := newUpstream(goodBody)
	defer u.srv.Close()
	atomic.StoreInt64(&u.code, http.StatusInternalServerError)

	rec := get(t, testCache(t, u), "/tracks")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if state := rec.Header().Get("X-Cache"); state != StateError {
		t.Errorf("X-Cache = %q, want ERROR", state)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
	if msg := gjson.Get(rec.Body.String(), "error").String(); msg != "Upstream source responded with 500" {
		t.Errorf("error = %q", msg)
	}
}

func TestNonArrayPayloadIsBadGateway(t *testing.T) {
	u := newUpstream(`{"rows": []}`)
	defer u.srv.Close()

	rec := get(t, testCache(t, u), "/tracks")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if state := rec.Header().Get("X-Cache"); state != StateError {
		t.Errorf("X-Cache = %q, want ERROR", state)
	}
}

func TestTransportFailureIsBadGateway(t *testing.T) {
	u := newUpstream(goodBody)
	u.srv.Close()

	rec := get(t, testCache(t, u), "/tracks")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestDurableTierSurvivesRestart(t *testing.T) {
	u := newUpstream(goodBody)
	defer u.srv.Close()

	store := kv.NewMemory()
	first := testCache(t, u)
	first.Store = store
	get(t, first, "/tracks")

	// A fresh handler sharing the durable store starts with an empty
	// in-process tier and must still answer from cache.
	second := testCache(t, u)
	second.Store = store

	rec := get(t, second, "/tracks")
	if state := rec.Header().Get("X-Cache"); state != StateHit {
		t.Errorf("X-Cache = %q, want HIT", state)
	}
	if u.requests() != 1 {
		t.Errorf("upstream requests = %d, want 1", u.requests())
	}
}

func TestForceParamVariants(t *testing.T) {
	cases := map[string]bool{
		"1":     true,
		"true":  true,
		"YES":   true,
		" true": true,
		"0":     false,
		"":      false,
		"no":    false,
	}
	for value, want := range cases {
		if got := forceRequested(value); got != want {
			t.Errorf("forceRequested(%q) = %v, want %v", value, got, want)
		}
	}
}
