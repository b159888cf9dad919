package cmd

import (
	"github.com/spf13/cobra"
)

// tracksCmd represents the tracks command
var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List curated tracks",
	Long:  "Fetches the curated tracks sheet and prints one page of it, newest first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, surfaceTracks)
	},
}

func init() {
	rootCmd.AddCommand(tracksCmd)
	addListFlags(tracksCmd)
}
