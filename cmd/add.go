package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/niprobin/curated-digging/pkg/fetch"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Send a track to a playlist",
	Long: `Posts a track to the playlist webhook. On success the track is also
marked as checked, since a track you queued is a track you have dug.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		playlist, _ := cmd.Flags().GetString("playlist")

		entities, err := loadSurface(cmd.Context(), fetch.NewClient(2), surfaceTracks, false)
		if err != nil {
			return err
		}
		e, ok := findEntity(entities, args[0])
		if !ok {
			return fmt.Errorf("no track matches %q", args[0])
		}

		if err := webhookClient().AddToPlaylist(cmd.Context(), e, playlist); err != nil {
			return fmt.Errorf("adding to playlist: %w", err)
		}

		store, err := openCheckedStore(surfaceTracks)
		if err != nil {
			return err
		}
		store.SetChecked(e.ID, true)

		fmt.Printf("Added %s - %s to %s\n", e.SecondaryName, e.DisplayName, playlist)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("playlist", "P", "digging", "Playlist name to add the track to")
}
