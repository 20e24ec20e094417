package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagebuilder/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pagebuilder",
	Short: "Render page-builder listings from an article database",
	Long: `pagebuilder expands the blog and post-detail regions of page-builder
HTML with articles from a local database. Pages can be rendered once from
the command line or served over HTTP with ajax pagination.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

