package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcannon068nw/clinical-score-2/internal/eutils"
	"github.com/mcannon068nw/clinical-score-2/internal/output"
	"github.com/mcannon068nw/clinical-score-2/internal/pubtator"
	"github.com/mcannon068nw/clinical-score-2/internal/score"
)

var (
	flagMethod string
	flagLimit  int
	flagDrug   string
)

// pmidsCmd resolves a search term or gene symbol to a PMID list via one of
// the retrieval methods.
var pmidsCmd = &cobra.Command{
	Use:   "pmids <term>",
	Short: "Find PMIDs for a search term or gene symbol",
	Long: `Resolve a term to PubMed identifiers.

Methods:
  string        free-text ESearch against PubMed (default)
  gene          NCBI Gene lookup, then linked PubMed articles
  pubtator      precomputed PubTator3 gene reference set
  pubtator-drug PubTator3 gene+chemical join (requires --drug)`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := strings.Join(args, " ")
		limit := flagLimit
		if limit <= 0 {
			limit = viper.GetInt("search.retmax")
		}

		switch flagMethod {
		case "string":
			client := newEutilsClient()
			result, err := client.Search(cmd.Context(), term, &eutils.SearchOptions{Limit: limit})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			return output.FormatPMIDs(cmd.OutOrStdout(), result, outputCfg())

		case "gene":
			client := newEutilsClient()
			pmids, err := client.GenePMIDs(cmd.Context(), term, limit)
			if err != nil {
				return fmt.Errorf("gene lookup failed: %w", err)
			}
			result := &eutils.SearchResult{Count: len(pmids), IDs: pmids}
			return output.FormatPMIDs(cmd.OutOrStdout(), result, outputCfg())

		case "pubtator":
			pmids, err := pubtator.PMIDsByGene(viper.GetString("data.gene_pubtator"), term)
			if err != nil {
				return fmt.Errorf("pubtator lookup failed: %w", err)
			}
			result := &eutils.SearchResult{Count: len(pmids), IDs: pmids}
			return output.FormatPMIDs(cmd.OutOrStdout(), result, outputCfg())

		case "pubtator-drug":
			if flagDrug == "" {
				return fmt.Errorf("--drug is required with --method pubtator-drug")
			}
			drugs := score.ParseDrugTerms(flagDrug)
			byDrug, err := pubtator.PMIDsByGeneAndDrugs(
				viper.GetString("data.gene_pubtator"),
				viper.GetString("data.chemical_pubtator"),
				term, drugs)
			if err != nil {
				return fmt.Errorf("pubtator join failed: %w", err)
			}
			for _, drug := range drugs {
				pmids := byDrug[drug]
				cmd.Printf("%s: %d PMIDs\n", drug, len(pmids))
				result := &eutils.SearchResult{Count: len(pmids), IDs: pmids}
				if err := output.FormatPMIDs(cmd.OutOrStdout(), result, outputCfg()); err != nil {
					return err
				}
			}
			return nil

		default:
			return fmt.Errorf("unknown method %q", flagMethod)
		}
	},
}

func init() {
	pmidsCmd.Flags().StringVar(&flagMethod, "method", "string", "Retrieval method: string, gene, pubtator, or pubtator-drug")
	pmidsCmd.Flags().IntVar(&flagLimit, "limit", 0, "Maximum number of PMIDs (default from config)")
	pmidsCmd.Flags().StringVar(&flagDrug, "drug", "", "Drug field for pubtator-drug (may be a literal list of variants)")

	rootCmd.AddCommand(pmidsCmd)
}
