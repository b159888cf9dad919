// Package edgecache serves a sheet feed through a two-tier cache: an
// in-process copy for speed and a durable kv entry that survives
// restarts. Every response says what happened through the X-Cache
// header, and a broken upstream degrades to the last good body instead
// of failing the page.
package edgecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/niprobin/curated-digging/internal/utils"
	"github.com/niprobin/curated-digging/pkg/fetch"
	"github.com/niprobin/curated-digging/pkg/kv"
	"github.com/tidwall/gjson"
)

// DefaultTTL is how long a cached body counts as fresh.
const DefaultTTL = 5 * time.Minute

// X-Cache values.
const (
	StateHit     = "HIT"
	StateMiss    = "MISS"
	StateRefresh = "REFRESH"
	StateStale   = "STALE"
	StateError   = "ERROR"
)

var errNotAnArray = errors.New("upstream payload is not a JSON array")

type upstreamStatusError struct {
	status int
}

func (e *upstreamStatusError) Error() string {
	return fmt.Sprintf("Upstream source responded with %d", e.status)
}

type entryRecord struct {
	Body      string `json:"body"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Cache is an http.Handler that proxies one upstream feed URL.
type Cache struct {
	Upstream string
	Client   *http.Client
	Store    kv.Store
	Key      string
	TTL      time.Duration
	Now      func() time.Time

	mu  sync.Mutex
	mem *entryRecord
}

func (c *Cache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Cache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultTTL
}

func forceRequested(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	force := forceRequested(r.URL.Query().Get("force"))

	if !force {
		if entry := c.read(false); entry != nil {
			writeBody(w, http.StatusOK, StateHit, entry.Body)
			return
		}
	}

	body, status, err := c.refresh(r.Context())
	if err == nil {
		state := StateMiss
		if force {
			state = StateRefresh
		}
		writeBody(w, http.StatusOK, state, body)
		return
	}

	utils.Log.Warnf("upstream %s failed: %v", c.Upstream, err)

	// Any surviving copy beats an error page, however old it is.
	if entry := c.read(true); entry != nil {
		writeBody(w, http.StatusOK, StateStale, entry.Body)
		return
	}

	writeError(w, status, err.Error())
}

// refresh fetches the upstream and, when the payload is a usable JSON
// array, stores it in both tiers. The returned status is what the
// handler should answer with when nothing cached can cover the failure.
func (c *Cache) refresh(ctx context.Context) (string, int, error) {
	res, err := fetch.Do(ctx, c.Client, &fetch.Request{URL: c.Upstream})
	if err != nil {
		return "", http.StatusBadGateway, err
	}
	if !res.OK() {
		return "", res.StatusCode, &upstreamStatusError{status: res.StatusCode}
	}
	if !gjson.Valid(res.Body) || !gjson.Parse(res.Body).IsArray() {
		return "", http.StatusBadGateway, errNotAnArray
	}

	c.write(res.Body)
	return res.Body, 0, nil
}

// read returns the cached entry, checking the in-process copy before
// the durable store. With includeExpired the freshness check is
// skipped, which is what the stale-on-error path wants.
func (c *Cache) read(includeExpired bool) *entryRecord {
	nowMillis := c.now().UnixMilli()

	c.mu.Lock()
	mem := c.mem
	c.mu.Unlock()
	if mem != nil && (includeExpired || mem.ExpiresAt > nowMillis) {
		return mem
	}

	if c.Store == nil || c.Key == "" {
		return nil
	}
	raw, ok, err := c.Store.Get(c.Key)
	if err != nil {
		utils.Log.Warnf("reading cache entry %q: %v", c.Key, err)
		return nil
	}
	if !ok {
		return nil
	}
	var entry entryRecord
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		utils.Log.Warnf("corrupt cache entry %q: %v", c.Key, err)
		return nil
	}
	if !includeExpired && entry.ExpiresAt <= nowMillis {
		return nil
	}

	c.mu.Lock()
	c.mem = &entry
	c.mu.Unlock()
	return &entry
}

func (c *Cache) write(body string) {
	entry := &entryRecord{
		Body:      body,
		ExpiresAt: c.now().Add(c.ttl()).UnixMilli(),
	}

	c.mu.Lock()
	c.mem = entry
	c.mu.Unlock()

	if c.Store == nil || c.Key == "" {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		utils.Log.Warnf("encoding cache entry %q: %v", c.Key, err)
		return
	}
	if err := c.Store.Set(c.Key, string(raw)); err != nil {
		utils.Log.Warnf("persisting cache entry %q: %v", c.Key, err)
	}
}

func writeBody(w http.ResponseWriter, status int, state, body string) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "public, max-age=60")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("X-Cache", state)
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, status int, message string) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("X-Cache", StateError)
	w.WriteHeader(status)
	payload, _ := json.Marshal(map[string]string{"error": message})
	w.Write(payload)
}
