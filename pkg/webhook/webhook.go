// Package webhook posts user actions (checked state, album hides,
// playlist additions) to the automation endpoints. Posts are fire-once;
// response bodies are ignored and a non-2xx status is the only failure.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/niprobin/curated-digging/pkg/entity"
	"github.com/niprobin/curated-digging/pkg/fetch"
)

// Client knows the three automation endpoints. Empty URLs disable the
// corresponding post.
type Client struct {
	HTTP        *http.Client
	PlaylistURL string
	StatusURL   string
	HideURL     string
}

type trackStatusPayload struct {
	SpotifyID string `json:"spotify_id"`
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	Checked   bool   `json:"checked"`
}

type albumHidePayload struct {
	ReleaseName string `json:"release_name"`
	Hide        bool   `json:"hide"`
}

type playlistPayload struct {
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	SpotifyID string `json:"spotify_id"`
	Playlist  string `json:"playlist"`
}

// PostTrackStatus reports a track's checked transition.
func (c *Client) PostTrackStatus(ctx context.Context, e entity.Entity, checkedState bool) error {
	return c.post(ctx, c.StatusURL, trackStatusPayload{
		SpotifyID: e.NaturalKey,
		Artist:    e.SecondaryName,
		Title:     e.DisplayName,
		Checked:   checkedState,
	})
}

// PostAlbumHide reports an album's hide transition.
func (c *Client) PostAlbumHide(ctx context.Context, e entity.Entity, hidden bool) error {
	return c.post(ctx, c.HideURL, albumHidePayload{
		ReleaseName: e.DisplayName,
		Hide:        hidden,
	})
}

// AddToPlaylist sends a track to the named playlist.
func (c *Client) AddToPlaylist(ctx context.Context, e entity.Entity, playlist string) error {
	return c.post(ctx, c.PlaylistURL, playlistPayload{
		Artist:    e.SecondaryName,
		Title:     e.DisplayName,
		SpotifyID: e.NaturalKey,
		Playlist:  playlist,
	})
}

func (c *Client) post(ctx context.Context, url string, payload interface{}) error {
	if url == "" {
		return fmt.Errorf("webhook URL not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	res, err := fetch.Do(ctx, client, &fetch.Request{
		URL:     url,
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	})
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("webhook responded with %d", res.StatusCode)
	}
	return nil
}
