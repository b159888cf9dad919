package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/niprobin/curated-digging/pkg/fetch"
	"github.com/niprobin/curated-digging/pkg/view"
)

// runList is the shared body of the tracks and albums commands: fetch,
// normalize, drive the view controller with the flag values, print.
func runList(cmd *cobra.Command, surface string) error {
	curator, _ := cmd.Flags().GetString("curator")
	filter, _ := cmd.Flags().GetString("filter")
	page, _ := cmd.Flags().GetInt("page")
	showChecked, _ := cmd.Flags().GetBool("show-checked")
	force, _ := cmd.Flags().GetBool("force")

	_, noun, err := surfaceSchema(surface)
	if err != nil {
		return err
	}

	entities, err := loadSurface(cmd.Context(), fetch.NewClient(2), surface, force)
	if err != nil {
		return err
	}

	store, err := openCheckedStore(surface)
	if err != nil {
		return err
	}

	ctrl := view.NewController(store, view.Config{Noun: noun})
	ctrl.LoadEntities(entities)
	if curator != "" {
		ctrl.SelectCurator(curator)
	}
	if filter != "" {
		ctrl.SelectFilter(filter)
	}
	if showChecked != ctrl.View().ShowChecked {
		ctrl.ToggleShowChecked()
	}
	if page > 1 {
		ctrl.ChangePage(page - 1)
	}

	v := ctrl.View()

	if len(v.Page.Items) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tNAME\tBY\t")
		for _, e := range v.Page.Items {
			date := e.RawDate
			if date == "" {
				date = "Unspecified"
			}
			name := e.DisplayName
			if store.IsChecked(e.ID) {
				name = "[x] " + name
			}
			by := e.SecondaryName
			if by == "" {
				by = e.Curator
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", e.ID, date, name, by)
		}
		w.Flush()
		fmt.Println()
	}

	fmt.Println(v.Status)
	return nil
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("curator", "c", "", "Curator to show (defaults to the first one)")
	cmd.Flags().StringP("filter", "f", "all", "Time window: all, last7, last14, last30")
	cmd.Flags().IntP("page", "p", 1, "Page number")
	cmd.Flags().Bool("show-checked", false, "Include items already marked as checked")
	cmd.Flags().Bool("force", false, "Bypass the edge cache and refetch")
}
