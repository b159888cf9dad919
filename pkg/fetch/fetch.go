// Package fetch wraps outbound HTTP for every collaborator: the sheet
// feed, the lookup providers and the webhooks. It reads bodies into
// strings so callers can hand them straight to gjson.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

const userAgent = "curated-digging/1.0 (+https://curated-digging.netlify.app)"

// NewClient builds the shared HTTP client. retries applies only to
// transport-level failures and 5xx responses; webhook and lookup callers
// pass 0 because those actions are fire-once.
func NewClient(retries int) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.Logger = nil
	return rc.StandardClient()
}

// Request describes one outbound call.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    []byte
}

// Response carries the status and the full body as a string.
type Response struct {
	StatusCode int
	Body       string
}

// Do sends the request with the common headers applied. A non-2xx status
// is not an error here; callers decide what a bad status means.
func Do(ctx context.Context, client *http.Client, req *Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "application/json")
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(bodyBytes)}, nil
}

// OK reports whether the response status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
