package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/niprobin/curated-digging/internal/server"
	"github.com/niprobin/curated-digging/pkg/archive"
	"github.com/niprobin/curated-digging/pkg/edgecache"
	"github.com/niprobin/curated-digging/pkg/fetch"
	"github.com/niprobin/curated-digging/pkg/kv"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the track and album feeds through the edge cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		if listenAddr == "" {
			listenAddr = viper.GetString("listen")
		}
		user, _ := cmd.Flags().GetString("user")
		pass, _ := cmd.Flags().GetString("pass")

		dir, err := storageDir()
		if err != nil {
			return err
		}
		cacheDir := filepath.Join(dir, "cache")
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return err
		}
		store := kv.OpenDisk(cacheDir)
		client := fetch.NewClient(2)

		buildCache := func(surface string) *edgecache.Cache {
			source := viper.GetString("sources." + surface)
			if source == "" {
				return nil
			}
			return &edgecache.Cache{
				Upstream: source,
				Client:   client,
				Store:    store,
				Key:      "feed-" + surface,
			}
		}
		tracks := buildCache(surfaceTracks)
		albums := buildCache(surfaceAlbums)
		if tracks == nil && albums == nil {
			return fmt.Errorf("nothing to serve: set sources.tracks or sources.albums")
		}

		db, err := archive.Open(filepath.Join(dir, "archive.db"))
		if err != nil {
			return err
		}
		defer db.Close()

		return server.New(tracks, albums, db, user, pass).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (defaults to the listen config key)")
	serveCmd.Flags().String("user", "", "Basic auth username for /api endpoints (empty disables auth)")
	serveCmd.Flags().String("pass", "", "Basic auth password for /api endpoints")
}
