package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/niprobin/curated-digging/pkg/archive"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints per-curator statistics from the local archive.",
	Long:  "Prints per-curator statistics from the local archive. Run sync first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := storageDir()
		if err != nil {
			return err
		}

		db, err := archive.Open(filepath.Join(dir, "archive.db"))
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No data in the archive yet. Run sync first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "SURFACE\tCURATOR\tITEMS\tLAST SYNC\t")

		total := 0
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t\n", s.Surface, s.Curator, s.EntityCount, s.LastSynced.Format("2006-01-02 15:04"))
			total += s.EntityCount
		}

		fmt.Fprintln(w, " \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t \t%d\t \t\n", total)

		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
