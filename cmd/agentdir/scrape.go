package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentdir/agentdir/internal/catalog"
	"github.com/agentdir/agentdir/internal/scraper"
)

func newScrapeCmd() *cobra.Command {
	var (
		output   string
		details  bool
		failFast bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the AI agent directory and write the JSON catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := cfg.Scrape
			if cmd.Flags().Changed("details") {
				sc.FetchDetails = details
			}
			if cmd.Flags().Changed("fail-fast") {
				sc.FailFast = failFast
			}
			dataPath := cfg.Output.DataPath
			if output != "" {
				dataPath = output
			}

			fetcher := scraper.NewHTTPFetcher(scraper.FetcherConfig{
				Timeout:           time.Duration(sc.TimeoutSeconds) * time.Second,
				MaxRetries:        sc.MaxRetries,
				RequestsPerSecond: sc.RequestsPerSecond,
			})
			s, err := scraper.New(fetcher, scraper.Options{
				BaseURL:      sc.BaseURL,
				FetchDetails: sc.FetchDetails,
				FailFast:     sc.FailFast,
			})
			if err != nil {
				return err
			}

			cat, summary, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}

			if err := catalog.NewStore(dataPath).Save(cat); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Scraped %d agents across %d categories in %s (details: %d fetched, %d skipped)\n",
				summary.AgentsFound, summary.Categories, summary.Duration.Round(time.Second),
				summary.DetailsFetched, summary.DetailsSkipped)
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog written to %s\n", dataPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Catalog output path (overrides config)")
	cmd.Flags().BoolVar(&details, "details", true, "Fetch each agent's detail page (--details=false for listing fields only)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Abort on the first exhausted page fetch")
	return cmd
}
