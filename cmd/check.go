package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/niprobin/curated-digging/internal/utils"
	"github.com/niprobin/curated-digging/pkg/fetch"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <id>",
	Short: "Toggle a track's checked state",
	Long: `Toggles the checked state of a track, identified by its id (as shown
by the tracks command) or its Spotify id, and reports the change to the
status webhook when one is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entities, err := loadSurface(cmd.Context(), fetch.NewClient(2), surfaceTracks, false)
		if err != nil {
			return err
		}
		e, ok := findEntity(entities, args[0])
		if !ok {
			return fmt.Errorf("no track matches %q", args[0])
		}

		store, err := openCheckedStore(surfaceTracks)
		if err != nil {
			return err
		}

		nowChecked := !store.IsChecked(e.ID)
		store.SetChecked(e.ID, nowChecked)

		if err := webhookClient().PostTrackStatus(cmd.Context(), e, nowChecked); err != nil {
			utils.Log.Warnf("status webhook failed: %v", err)
		}

		state := "unchecked"
		if nowChecked {
			state = "checked"
		}
		fmt.Printf("%s - %s is now %s\n", e.SecondaryName, e.DisplayName, state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
