package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/niprobin/curated-digging/pkg/fetch"
	"github.com/niprobin/curated-digging/pkg/lookup"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <id or free text>",
	Short: "Find stream and download links for a track or album",
	Long: `Resolves links through the configured search providers. The argument
is matched against the feed first; anything that matches nothing is
used verbatim as the search text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		albumsOnly, _ := cmd.Flags().GetBool("albums")

		client := fetch.NewClient(0)
		var providers []lookup.Provider
		if !albumsOnly {
			providers = append(providers, &lookup.TrackSearch{
				BaseURL: viper.GetString("lookup.qqdl"),
				Client:  client,
			})
		}
		providers = append(providers, &lookup.AlbumSearch{
			BaseURL: viper.GetString("lookup.yams_api"),
			SiteURL: viper.GetString("lookup.yams_site"),
			Client:  client,
		})

		query := strings.Join(args, " ")
		surface := surfaceTracks
		if albumsOnly {
			surface = surfaceAlbums
		}
		if entities, err := loadSurface(cmd.Context(), client, surface, false); err == nil {
			if e, ok := findEntity(entities, args[0]); ok && len(args) == 1 {
				query = lookup.Query(e)
			}
		}

		links, failures := lookup.FindAll(cmd.Context(), providers, query)
		for _, l := range links {
			fmt.Printf("%s\t%s\t%s\n", l.Provider, l.Label, l.URL)
		}
		for _, f := range failures {
			fmt.Printf("%s\tfailed: %v\n", f.Provider, f.Err)
		}
		if len(links) == 0 {
			return fmt.Errorf("no provider found %q", query)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().BoolP("albums", "a", false, "Search albums only")
}
