package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"curator":"Dan","track":"A"},{"curator":"Eve","track":"B"}]`))
	}))
	defer srv.Close()

	rows, err := FetchRows(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if got := rows[0].Get("curator").String(); got != "Dan" {
		t.Fatalf("unexpected first row: %q", got)
	}
}

func TestFetchRowsRejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"non-2xx", 500, `[]`},
		{"invalid json", 200, `{"broken`},
		{"non-array", 200, `{"rows": []}`},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(tc.body))
		}))
		if _, err := FetchRows(context.Background(), srv.Client(), srv.URL); err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
		srv.Close()
	}
}

func TestFetchWithFallback(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer api.Close()

	var sourceHits int
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sourceHits++
		w.Write([]byte(`[{"curator":"Dan"}]`))
	}))
	defer source.Close()

	rows, err := FetchWithFallback(context.Background(), http.DefaultClient, api.URL, source.URL, false)
	if err != nil {
		t.Fatalf("fallback should have succeeded: %v", err)
	}
	if len(rows) != 1 || sourceHits != 1 {
		t.Fatalf("expected one row from the source, got %d rows, %d hits", len(rows), sourceHits)
	}
}

func TestFetchWithFallbackForcePropagates(t *testing.T) {
	var gotForce string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotForce = r.URL.Query().Get("force")
		w.Write([]byte(`[]`))
	}))
	defer api.Close()

	if _, err := FetchWithFallback(context.Background(), http.DefaultClient, api.URL, "", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotForce != "1" {
		t.Fatalf("force flag not forwarded, got %q", gotForce)
	}
}
