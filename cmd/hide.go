package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/niprobin/curated-digging/pkg/fetch"
)

// hideCmd represents the hide command
var hideCmd = &cobra.Command{
	Use:   "hide <id>",
	Short: "Hide an album from the feed",
	Long: `Posts an album to the hide webhook, which flips the hide column in
the sheet. Hidden albums disappear from the feed on the next refresh.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unhide, _ := cmd.Flags().GetBool("unhide")

		entities, err := loadSurface(cmd.Context(), fetch.NewClient(2), surfaceAlbums, false)
		if err != nil {
			return err
		}
		e, ok := findEntity(entities, args[0])
		if !ok {
			return fmt.Errorf("no album matches %q", args[0])
		}

		if err := webhookClient().PostAlbumHide(cmd.Context(), e, !unhide); err != nil {
			return fmt.Errorf("hide webhook: %w", err)
		}

		verb := "hidden"
		if unhide {
			verb = "restored"
		}
		fmt.Printf("%s %s\n", e.DisplayName, verb)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hideCmd)
	hideCmd.Flags().Bool("unhide", false, "Restore a hidden album instead")
}
