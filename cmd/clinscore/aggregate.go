package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcannon068nw/clinical-score-2/internal/output"
	"github.com/mcannon068nw/clinical-score-2/internal/results"
)

var (
	flagAggMethod string
	flagAggOutDir string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <archive.zip>",
	Short: "Concatenate the per-pair results of a run archive",
	Long: `Extract a run archive produced by score and concatenate every
per-pair result CSV into one table, deriving the gene and drug of each
row from the file name. Files that fail to parse are skipped with a
warning; an archive with no loadable file at all is an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir := flagAggOutDir
		if outDir == "" {
			var err error
			outDir, err = os.MkdirTemp("", "clinscore-aggregate-*")
			if err != nil {
				return fmt.Errorf("creating extraction dir: %w", err)
			}
			defer os.RemoveAll(outDir)
		}

		assessments, err := results.LoadAssessments(args[0], flagAggMethod, outDir)
		if err != nil {
			return err
		}

		return output.FormatAssessments(cmd.OutOrStdout(), assessments, outputCfg())
	},
}

func init() {
	aggregateCmd.Flags().StringVar(&flagAggMethod, "method", "", "Search method label attached to every row")
	aggregateCmd.Flags().StringVar(&flagAggOutDir, "out-dir", "", "Extraction directory (default: a temp dir)")

	rootCmd.AddCommand(aggregateCmd)
}
