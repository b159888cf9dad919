package cmd

import (
	"github.com/spf13/cobra"
)

// albumsCmd represents the albums command
var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List curated albums",
	Long:  "Fetches the curated albums sheet and prints one page of it, newest first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, surfaceAlbums)
	},
}

func init() {
	rootCmd.AddCommand(albumsCmd)
	addListFlags(albumsCmd)
}
