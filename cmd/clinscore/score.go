package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcannon068nw/clinical-score-2/internal/eutils"
	"github.com/mcannon068nw/clinical-score-2/internal/output"
	"github.com/mcannon068nw/clinical-score-2/internal/runner"
	"github.com/mcannon068nw/clinical-score-2/internal/score"
	"github.com/mcannon068nw/clinical-score-2/internal/searchset"
	"github.com/mcannon068nw/clinical-score-2/internal/text"
)

var (
	flagReference string
	flagCorpus    string
	flagMode      string
	flagStart     int
	flagStop      int
	flagOutDir    string
)

// scoreCmd runs the scoring pipeline for one gene: reference pairs times
// corpus abstracts, one result log per pair, one archive per run.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score abstracts against a (gene, drug) reference table",
	Long: `For every (gene, drug) pair in the reference table, score each
abstract in the corpus and append the result to the pair's log. Without
--corpus, abstracts are fetched live: the first pair's gene and drug
drive a PubMed search and the hits become the corpus.

Clinical mode counts study-design indicator terms; interaction mode
counts gene-drug relation lemmas over normalized tokens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := runner.ParseMode(flagMode)
		if err != nil {
			return err
		}

		pairs, err := searchset.Load(flagReference)
		if err != nil {
			return fmt.Errorf("loading reference table: %w", err)
		}
		if len(pairs) == 0 {
			return fmt.Errorf("reference table %s has no rows", flagReference)
		}

		corpus, tagged, err := resolveCorpus(cmd, pairs)
		if err != nil {
			return err
		}

		var normalizer *text.Normalizer
		if mode == runner.ModeInteraction {
			normalizer, err = text.NewNormalizer()
			if err != nil {
				return err
			}
		}

		summary, err := runner.Run(cmd.Context(), runner.Config{
			Mode:     mode,
			Pairs:    pairs,
			Corpus:   corpus,
			Start:    flagStart,
			Stop:     flagStop,
			Tagged:   tagged,
			OutDir:   flagOutDir,
			Progress: os.Stderr,
		}, normalizer)
		if err != nil {
			return fmt.Errorf("scoring run failed: %w", err)
		}

		return output.FormatRunSummary(cmd.OutOrStdout(), summary, outputCfg())
	},
}

// resolveCorpus loads the corpus file when given, otherwise searches
// PubMed for the first pair's gene and drug and fetches the hits. Tagged
// reports whether the corpus carries pre-tagged drug columns; fetched
// corpora never do.
func resolveCorpus(cmd *cobra.Command, pairs []searchset.Pair) ([]eutils.Abstract, bool, error) {
	if flagCorpus != "" {
		return runner.LoadCorpus(flagCorpus)
	}

	client := newEutilsClient()
	drugs := score.ParseDrugTerms(pairs[0].Drug)
	term := fmt.Sprintf("%s AND %s", pairs[0].Gene, drugs[0])

	result, err := client.Search(cmd.Context(), term, &eutils.SearchOptions{Limit: viper.GetInt("search.retmax")})
	if err != nil {
		return nil, false, fmt.Errorf("corpus search failed: %w", err)
	}
	if len(result.IDs) == 0 {
		return nil, false, fmt.Errorf("no PubMed results for %q", term)
	}
	fmt.Fprintf(os.Stderr, "%d PMIDs found!\nFetching...\n", len(result.IDs))

	corpus, err := client.FetchAbstracts(cmd.Context(), result.IDs)
	if err != nil {
		return nil, false, fmt.Errorf("corpus fetch failed: %w", err)
	}
	if len(corpus) == 0 {
		return nil, false, fmt.Errorf("no abstracts retrieved for %q", term)
	}
	return corpus, false, nil
}

func init() {
	scoreCmd.Flags().StringVar(&flagReference, "reference", "", "Reference table CSV with Gene and Drug columns (required)")
	scoreCmd.Flags().StringVar(&flagCorpus, "corpus", "", "Abstract corpus CSV (pmid,text); fetched live when omitted")
	scoreCmd.Flags().StringVar(&flagMode, "mode", "clinical", "Scoring mode: clinical or interaction")
	scoreCmd.Flags().IntVar(&flagStart, "start", 0, "First corpus index to score")
	scoreCmd.Flags().IntVar(&flagStop, "stop", 0, "Corpus index to stop before (0 = end)")
	scoreCmd.Flags().StringVar(&flagOutDir, "out-dir", ".", "Directory for the run archive")
	_ = scoreCmd.MarkFlagRequired("reference")

	rootCmd.AddCommand(scoreCmd)
}
