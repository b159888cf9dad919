package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/niprobin/curated-digging/pkg/entity"
	"github.com/tidwall/gjson"
)

var sampleTrack = entity.Entity{
	DisplayName:   "Blue in Green",
	SecondaryName: "Miles Davis",
	Curator:       "ana",
	NaturalKey:    "3rL9o6",
}

func TestPostTrackStatusPayload(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		got = string(body)
	}))
	defer srv.Close()

	c := &Client{StatusURL: srv.URL}
	if err := c.PostTrackStatus(context.Background(), sampleTrack, true); err != nil {
		t.Fatalf("PostTrackStatus: %v", err)
	}

	if v := gjson.Get(got, "spotify_id").String(); v != "3rL9o6" {
		t.Errorf("spotify_id = %q", v)
	}
	if v := gjson.Get(got, "artist").String(); v != "Miles Davis" {
		t.Errorf("artist = %q", v)
	}
	if v := gjson.Get(got, "title").String(); v != "Blue in Green" {
		t.Errorf("title = %q", v)
	}
	if !gjson.Get(got, "checked").Bool() {
		t.Error("checked = false, want true")
	}
}

func TestPostAlbumHidePayload(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = string(body)
	}))
	defer srv.Close()

	album := entity.Entity{DisplayName: "Kind of Blue", Curator: "ana"}
	c := &Client{HideURL: srv.URL}
	if err := c.PostAlbumHide(context.Background(), album, true); err != nil {
		t.Fatalf("PostAlbumHide: %v", err)
	}

	if v := gjson.Get(got, "release_name").String(); v != "Kind of Blue" {
		t.Errorf("release_name = %q", v)
	}
	if !gjson.Get(got, "hide").Bool() {
		t.Error("hide = false, want true")
	}
}

func TestAddToPlaylistPayload(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = string(body)
	}))
	defer srv.Close()

	c := &Client{PlaylistURL: srv.URL}
	if err := c.AddToPlaylist(context.Background(), sampleTrack, "digging"); err != nil {
		t.Fatalf("AddToPlaylist: %v", err)
	}

	if v := gjson.Get(got, "playlist").String(); v != "digging" {
		t.Errorf("playlist = %q", v)
	}
	if v := gjson.Get(got, "spotify_id").String(); v != "3rL9o6" {
		t.Errorf("spotify_id = %q", v)
	}
}

func TestNon2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{StatusURL: srv.URL}
	if err := c.PostTrackStatus(context.Background(), sampleTrack, false); err == nil {
		t.Fatal("expected an error for a 502 response")
	}
}

func TestMissingURLIsAnError(t *testing.T) {
	c := &Client{}
	if err := c.AddToPlaylist(context.Background(), sampleTrack, "digging"); err == nil {
		t.Fatal("expected an error when the URL is not configured")
	}
}
