package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/niprobin/curated-digging/internal/utils"
	"github.com/niprobin/curated-digging/pkg/archive"
	"github.com/niprobin/curated-digging/pkg/fetch"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Snapshot the feeds into the local archive",
	Long: `Fetches both sheets, normalizes them, and replaces the local sqlite
archive so curator history stays queryable offline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		dir, err := storageDir()
		if err != nil {
			return err
		}
		db, err := archive.Open(filepath.Join(dir, "archive.db"))
		if err != nil {
			return err
		}
		defer db.Close()

		client := fetch.NewClient(2)
		synced := 0
		for _, surface := range []string{surfaceTracks, surfaceAlbums} {
			entities, err := loadSurface(cmd.Context(), client, surface, force)
			if err != nil {
				utils.Log.Warnf("skipping %s: %v", surface, err)
				continue
			}
			if err := db.ReplaceSurface(cmd.Context(), surface, entities); err != nil {
				return fmt.Errorf("archiving %s: %w", surface, err)
			}
			fmt.Printf("Synced %d %s\n", len(entities), surface)
			synced++
		}
		if synced == 0 {
			return fmt.Errorf("nothing synced: no surface is configured or reachable")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().Bool("force", false, "Bypass the edge cache and refetch")
}
