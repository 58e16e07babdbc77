// Command clinscore mines PubMed literature for gene-drug evidence:
// it builds (gene, drug) search sets, retrieves abstracts, scores them for
// evidence-type indicators or interaction signals, and packages the
// results into per-run archives.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcannon068nw/clinical-score-2/internal/eutils"
	"github.com/mcannon068nw/clinical-score-2/internal/ncbi"
	"github.com/mcannon068nw/clinical-score-2/internal/output"
)

var (
	flagJSON   bool
	flagHuman  bool
	flagCSV    string
	flagAPIKey string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clinscore",
	Short: "Gene-drug literature evidence scoring",
	Long: `clinscore is a literature-mining pipeline for biomedical research:
given a gene (and optionally a drug), it retrieves PubMed abstracts,
scores each abstract for evidence-type indicators or gene-drug
interaction signals, and packages the per-pair results into a zip
archive. A tagging subsystem annotates genes, chemicals, and diseases
in free text and normalizes them against a concept-resolution API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Load .env if present (for NCBI_API_KEY).
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as structured JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagHuman, "human", "H", false, "Rich colorful terminal output")
	rootCmd.PersistentFlags().StringVar(&flagCSV, "csv", "", "Export results to CSV file")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "NCBI API key (or set NCBI_API_KEY env var)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("clinscore v0.2.0")
	},
}

func outputCfg() output.Config {
	return output.Config{
		JSON:    flagJSON,
		Human:   flagHuman,
		CSVFile: flagCSV,
	}
}

func newEutilsClient() *eutils.Client {
	apiKey := flagAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("NCBI_API_KEY")
	}
	if apiKey == "" {
		apiKey = viper.GetString("ncbi.api_key")
	}

	var opts []ncbi.Option
	if apiKey != "" {
		opts = append(opts, ncbi.WithAPIKey(apiKey))
	}
	if email := viper.GetString("ncbi.email"); email != "" {
		opts = append(opts, ncbi.WithEmail(email))
	}
	return eutils.NewClient(opts...)
}
