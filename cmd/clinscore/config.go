package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mcannon068nw/clinical-score-2/internal/concepts"
)

var cfgFile string

// Configuration hierarchy (highest to lowest priority): CLI flags,
// CLINSCORE_* environment variables, ~/.clinscore/config.yaml, defaults.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".clinscore"))
			viper.SetConfigType("yaml")
			viper.SetConfigName("config")
		}
	}

	viper.SetEnvPrefix("CLINSCORE")
	viper.AutomaticEnv()

	setDefaults()

	// A missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

func setDefaults() {
	viper.SetDefault("ncbi.api_key", "")
	viper.SetDefault("ncbi.email", "")
	viper.SetDefault("data.dgidb", filepath.Join("data", "dgidb", "interactions.csv"))
	viper.SetDefault("data.gene_pubtator", filepath.Join("data", "pubtator", "gene2pubtator3"))
	viper.SetDefault("data.chemical_pubtator", filepath.Join("data", "pubtator", "chemical2pubtator3"))
	viper.SetDefault("search.dir", "search")
	viper.SetDefault("search.retmax", 1000)
	viper.SetDefault("tagger.base_url", "https://api-inference.huggingface.co")
	viper.SetDefault("concepts.base_url", concepts.DefaultBaseURL)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage clinscore configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", used)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		data, err := yaml.Marshal(viper.AllSettings())
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		cmd.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.clinscore/config.yaml)")

	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
