package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcannon068nw/clinical-score-2/internal/searchset"
)

var (
	flagDGIdb     string
	flagSearchDir string
)

// searchSetCmd builds the (gene, drug) reference table for a gene from a
// DGIdb interactions export.
var searchSetCmd = &cobra.Command{
	Use:   "search-set <gene>",
	Short: "Generate a (gene, drug) search set from DGIdb",
	Long: `Filter a DGIdb interactions export to the given gene symbol, keep
interactions that carry a score, and write the search set ordered by
interaction score descending.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dgidb := flagDGIdb
		if dgidb == "" {
			dgidb = viper.GetString("data.dgidb")
		}
		dir := flagSearchDir
		if dir == "" {
			dir = viper.GetString("search.dir")
		}

		path, err := searchset.Generate(dgidb, dir, args[0], time.Now())
		if err != nil {
			return fmt.Errorf("generating search set: %w", err)
		}

		cmd.Printf("Search set saved to %s\n", path)
		return nil
	},
}

func init() {
	searchSetCmd.Flags().StringVar(&flagDGIdb, "dgidb", "", "DGIdb interactions CSV (default from config)")
	searchSetCmd.Flags().StringVar(&flagSearchDir, "out-dir", "", "Directory for generated search sets")

	rootCmd.AddCommand(searchSetCmd)
}
