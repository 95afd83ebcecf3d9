package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentdir/agentdir/internal/catalog"
	"github.com/agentdir/agentdir/internal/export"
)

func newExcelCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "transform_to_excel [category]",
		Short: "Export scraped agents to an Excel spreadsheet",
		Long: `Export scraped agents to an Excel spreadsheet.

Records are selected by exact, case-sensitive match on the category field.
Without a category, every record is exported. A category that matches no
records still produces a valid spreadsheet with just the header row.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := ""
			if len(args) == 1 {
				category = args[0]
			}

			dir := cfg.Output.ExcelDir
			if outDir != "" {
				dir = outDir
			}

			store := catalog.NewStore(cfg.Output.DataPath)
			path, rows, err := export.New(store, dir).Run(category)
			if err != nil {
				if errors.Is(err, catalog.ErrNoData) {
					return fmt.Errorf("no data available, run scrape first (%v)", err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d agents to %s\n", rows, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "d", "", "Output directory for the spreadsheet (overrides config)")
	return cmd
}
