package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcannon068nw/clinical-score-2/internal/concepts"
	"github.com/mcannon068nw/clinical-score-2/internal/output"
	"github.com/mcannon068nw/clinical-score-2/internal/tagger"
)

var (
	flagTagPMID  string
	flagTagGroup string
)

var tagCmd = &cobra.Command{
	Use:   "tag [text|file]",
	Short: "Tag genes, chemicals, and diseases in text",
	Long: `Tag biomedical entities in free text using token-classification
models, then resolve each tagged span to a normalized concept. The
argument is either literal text or a path to a text file; with --pmid
the abstract of that PubMed article is tagged instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := tagInput(cmd, args)
		if err != nil {
			return err
		}

		client := tagger.NewClient(viper.GetString("tagger.base_url"), tagger.ModelEndpoints{}, nil)

		var entities []tagger.Entity
		switch flagTagGroup {
		case "all":
			entities, err = client.TagAll(cmd.Context(), text)
		case "genetic":
			entities, err = client.TagGenes(cmd.Context(), text)
		case "chemical":
			entities, err = client.TagChemicals(cmd.Context(), text)
		case "disease":
			entities, err = client.TagDiseases(cmd.Context(), text)
		default:
			return fmt.Errorf("invalid group %q (want all, genetic, chemical, or disease)", flagTagGroup)
		}
		if err != nil {
			return fmt.Errorf("tagging failed: %w", err)
		}

		normalizer := concepts.NewNormalizer(viper.GetString("concepts.base_url"), nil)
		tagged := make([]output.TaggedEntity, 0, len(entities))
		for _, e := range entities {
			tagged = append(tagged, output.TaggedEntity{
				Entity:  e,
				Concept: normalizer.Normalize(cmd.Context(), e),
			})
		}

		return output.FormatEntities(cmd.OutOrStdout(), tagged, outputCfg())
	},
}

// tagInput resolves the text to tag: the positional argument (literal
// text, or a file path when one exists), or the abstract of --pmid.
func tagInput(cmd *cobra.Command, args []string) (string, error) {
	if flagTagPMID != "" {
		if len(args) > 0 {
			return "", fmt.Errorf("pass either text or --pmid, not both")
		}
		abstracts, err := newEutilsClient().FetchAbstracts(cmd.Context(), []string{flagTagPMID})
		if err != nil {
			return "", fmt.Errorf("fetching abstract for PMID %s: %w", flagTagPMID, err)
		}
		if len(abstracts) == 0 {
			return "", fmt.Errorf("no abstract found for PMID %s", flagTagPMID)
		}
		return abstracts[0].Text, nil
	}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("nothing to tag: pass text or --pmid")
	}
	if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	return args[0], nil
}

func init() {
	tagCmd.Flags().StringVar(&flagTagPMID, "pmid", "", "Tag the abstract of this PMID instead of argument text")
	tagCmd.Flags().StringVar(&flagTagGroup, "group", "all", "Entity group to tag: all, genetic, chemical, or disease")
	rootCmd.AddCommand(tagCmd)
}
