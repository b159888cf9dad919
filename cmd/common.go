package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/niprobin/curated-digging/pkg/checked"
	"github.com/niprobin/curated-digging/pkg/entity"
	"github.com/niprobin/curated-digging/pkg/feed"
	"github.com/niprobin/curated-digging/pkg/fetch"
	"github.com/niprobin/curated-digging/pkg/kv"
	"github.com/niprobin/curated-digging/pkg/webhook"
)

const (
	surfaceTracks = "tracks"
	surfaceAlbums = "albums"
)

func surfaceSchema(surface string) (entity.Schema, string, error) {
	switch surface {
	case surfaceTracks:
		return entity.TrackSchema, "track", nil
	case surfaceAlbums:
		return entity.AlbumSchema, "album", nil
	}
	return entity.Schema{}, "", fmt.Errorf("unknown surface %q (want tracks or albums)", surface)
}

func storageDir() (string, error) {
	if dir := viper.GetString("storage.dir"); dir != "" {
		return dir, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".curated-digging"), nil
}

// openCheckedStore opens the per-surface checked-state store under the
// storage directory.
func openCheckedStore(surface string) (*checked.Store, error) {
	dir, err := storageDir()
	if err != nil {
		return nil, err
	}
	statePath := filepath.Join(dir, "state", surface)
	if err := os.MkdirAll(statePath, 0o755); err != nil {
		return nil, err
	}
	return checked.New(kv.OpenDisk(statePath)), nil
}

// loadSurface fetches and normalizes one surface, preferring the cached
// API endpoint and falling back to the sheet source.
func loadSurface(ctx context.Context, client *http.Client, surface string, force bool) ([]entity.Entity, error) {
	schema, _, err := surfaceSchema(surface)
	if err != nil {
		return nil, err
	}
	apiURL := viper.GetString("api." + surface)
	sourceURL := viper.GetString("sources." + surface)
	if apiURL == "" && sourceURL == "" {
		return nil, fmt.Errorf("no source configured for %s (set sources.%s or api.%s)", surface, surface, surface)
	}
	rows, err := feed.FetchWithFallback(ctx, client, apiURL, sourceURL, force)
	if err != nil {
		return nil, err
	}
	return entity.Normalize(rows, schema), nil
}

func webhookClient() *webhook.Client {
	return &webhook.Client{
		HTTP:        fetch.NewClient(0),
		PlaylistURL: viper.GetString("webhooks.playlist"),
		StatusURL:   viper.GetString("webhooks.status"),
		HideURL:     viper.GetString("webhooks.hide"),
	}
}

// findEntity resolves an id argument against a normalized set, accepting
// either the entity id or the natural key (eg. a Spotify id).
func findEntity(entities []entity.Entity, id string) (entity.Entity, bool) {
	for _, e := range entities {
		if e.ID == id || (e.NaturalKey != "" && e.NaturalKey == id) {
			return e, true
		}
	}
	return entity.Entity{}, false
}
