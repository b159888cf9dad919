// Package feed pulls raw rows from a spreadsheet-backed JSON endpoint.
// Rows come back untyped; pkg/entity decides what survives.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/niprobin/curated-digging/internal/utils"
	"github.com/niprobin/curated-digging/pkg/fetch"
)

// FetchRows GETs url and returns the payload's rows. Any non-2xx status,
// invalid JSON, or non-array payload is an error.
func FetchRows(ctx context.Context, client *http.Client, rawURL string) ([]gjson.Result, error) {
	res, err := fetch.Do(ctx, client, &fetch.Request{URL: rawURL})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	if !res.OK() {
		return nil, fmt.Errorf("source responded with %d", res.StatusCode)
	}
	if !gjson.Valid(res.Body) {
		return nil, fmt.Errorf("source returned invalid JSON")
	}
	parsed := gjson.Parse(res.Body)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("source payload was not an array")
	}
	return parsed.Array(), nil
}

// FetchWithFallback tries the edge-cache API first and falls back to the
// sheet source directly when the API is unreachable or errors. force asks
// the edge cache to refresh; on the direct path it becomes a cache-buster.
func FetchWithFallback(ctx context.Context, client *http.Client, apiURL, sourceURL string, force bool) ([]gjson.Result, error) {
	if apiURL != "" {
		target := apiURL
		if force {
			target = appendQuery(target, "force", "1")
		}
		rows, err := FetchRows(ctx, client, target)
		if err == nil {
			return rows, nil
		}
		utils.Log.Warnf("feed: API unavailable, falling back to source fetch: %v", err)
	}

	target := sourceURL
	if force {
		target = appendQuery(target, "t", fmt.Sprint(time.Now().UnixMilli()))
	}
	return FetchRows(ctx, client, target)
}

func appendQuery(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
