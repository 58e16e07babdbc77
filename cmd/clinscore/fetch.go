package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcannon068nw/clinical-score-2/internal/output"
)

// fetchCmd retrieves abstracts for explicit PMIDs.
var fetchCmd = &cobra.Command{
	Use:   "fetch <pmid> [pmid...]",
	Short: "Fetch abstracts for one or more PMIDs",
	Long: `Retrieve abstract text for the given PMIDs in batches. Articles
without an abstract are dropped; a batch that keeps failing is skipped
with a warning rather than aborting the fetch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pmids, err := normalizePMIDArgs(args)
		if err != nil {
			return err
		}

		client := newEutilsClient()
		abstracts, err := client.FetchAbstracts(cmd.Context(), pmids)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}

		return output.FormatAbstracts(cmd.OutOrStdout(), abstracts, outputCfg())
	},
}

// normalizePMIDArgs flattens space- or comma-separated PMID arguments into
// one list and rejects anything non-numeric.
func normalizePMIDArgs(args []string) ([]string, error) {
	var pmids []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			pmid := strings.TrimSpace(part)
			if pmid == "" {
				continue
			}
			for _, r := range pmid {
				if r < '0' || r > '9' {
					return nil, fmt.Errorf("invalid PMID %q: must be numeric", pmid)
				}
			}
			pmids = append(pmids, pmid)
		}
	}
	if len(pmids) == 0 {
		return nil, fmt.Errorf("no PMIDs given")
	}
	return pmids, nil
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
