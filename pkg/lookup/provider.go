// Package lookup resolves playable or browsable links for entities via
// third-party search APIs. Lookups are fire-once: a failure is reported,
// never retried.
package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/niprobin/curated-digging/pkg/entity"
	"github.com/niprobin/curated-digging/pkg/fetch"
)

// Link is a resolved result from one provider.
type Link struct {
	Provider string
	Label    string
	URL      string
	RemoteID string
}

// Provider searches one upstream catalog by free text.
type Provider interface {
	Name() string
	Find(ctx context.Context, query string) (Link, error)
}

// Query builds the search text for an entity the way the dashboards do:
// secondary name (artist) first, then the display name.
func Query(e entity.Entity) string {
	return strings.TrimSpace(e.SecondaryName + " " + e.DisplayName)
}

// TrackSearch finds track previews on a qqdl-style API.
type TrackSearch struct {
	BaseURL string
	Client  *http.Client
}

func (p *TrackSearch) Name() string { return "qqdl" }

func (p *TrackSearch) Find(ctx context.Context, query string) (Link, error) {
	u, err := url.Parse(p.BaseURL + "/api/get-music")
	if err != nil {
		return Link{}, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("offset", "0")
	u.RawQuery = q.Encode()

	res, err := fetch.Do(ctx, p.Client, &fetch.Request{URL: u.String()})
	if err != nil {
		return Link{}, err
	}
	if !res.OK() {
		return Link{}, fmt.Errorf("qqdl responded with %d", res.StatusCode)
	}

	payload := gjson.Parse(res.Body)
	if success := payload.Get("success"); success.Exists() && !success.Bool() {
		reason := payload.Get("error.message").String()
		if reason == "" {
			reason = "lookup failed"
		}
		return Link{}, fmt.Errorf("qqdl: %s", reason)
	}

	// The items array has moved around across API versions.
	var item gjson.Result
	for _, path := range []string{"data.tracks.items", "tracks.items", "data.items", "items"} {
		if items := payload.Get(path); items.IsArray() {
			arr := items.Array()
			if len(arr) > 0 {
				item = arr[0]
			}
			break
		}
	}
	if !item.Exists() {
		return Link{}, fmt.Errorf("qqdl: no results found")
	}

	remoteID := item.Get("id").String()
	if remoteID == "" {
		return Link{}, fmt.Errorf("qqdl: preview unavailable, result has no id")
	}

	performer := item.Get("performer.name").String()
	if performer == "" {
		performer = "Unknown performer"
	}
	title := item.Get("title").String()
	if title == "" {
		title = "Unknown title"
	}

	streamURL := fmt.Sprintf("%s/api/download-music?track_id=%s&quality=27", p.BaseURL, url.QueryEscape(remoteID))
	return Link{
		Provider: p.Name(),
		Label:    performer + " - " + title,
		URL:      streamURL,
		RemoteID: remoteID,
	}, nil
}

// AlbumSearch finds full releases on a YAMS-style API.
type AlbumSearch struct {
	BaseURL string // search API host
	SiteURL string // public site the result links into
	Client  *http.Client
}

func (p *AlbumSearch) Name() string { return "yams" }

func (p *AlbumSearch) Find(ctx context.Context, query string) (Link, error) {
	u, err := url.Parse(p.BaseURL + "/search")
	if err != nil {
		return Link{}, err
	}
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	res, err := fetch.Do(ctx, p.Client, &fetch.Request{URL: u.String()})
	if err != nil {
		return Link{}, err
	}
	if !res.OK() {
		return Link{}, fmt.Errorf("yams lookup failed with %d", res.StatusCode)
	}

	albums := gjson.Get(res.Body, "albums")
	if !albums.IsArray() || len(albums.Array()) == 0 {
		return Link{}, fmt.Errorf("yams: no albums in response")
	}
	albumID := albums.Array()[0].Get("id").String()
	if albumID == "" {
		return Link{}, fmt.Errorf("yams: album id missing in response")
	}

	return Link{
		Provider: p.Name(),
		Label:    query,
		URL:      fmt.Sprintf("%s/#/album/2/%s", p.SiteURL, albumID),
		RemoteID: albumID,
	}, nil
}
