// Command agentdir scrapes the AI agents directory and transforms the
// scraped catalog into spreadsheets and word-cloud images.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentdir/agentdir/internal/config"
)

const version = "0.1.0"

var (
	cfg     *config.Config
	cfgPath string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agentdir",
		Short:         "Scrape the AI agents directory and transform the results",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgPath != "" {
				cfg, err = config.LoadConfigFile(cfgPath)
			} else {
				cfg, err = config.LoadConfig()
			}
			return err
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (optional, uses env vars by default)")

	root.AddCommand(newScrapeCmd())
	root.AddCommand(newExcelCmd())
	root.AddCommand(newWordcloudCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "AI Agent Directory Scraper v%s\n", version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
