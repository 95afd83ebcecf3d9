package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentdir/agentdir/internal/catalog"
	"github.com/agentdir/agentdir/internal/wordcloud"
)

func newWordcloudCmd() *cobra.Command {
	var (
		output   string
		fontPath string
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "generate_wordcloud",
		Short: "Render a Minecraft-style word cloud from agent use cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wc := cfg.WordCloud
			if output != "" {
				wc.ImagePath = output
			}
			if fontPath != "" {
				wc.FontPath = fontPath
			}
			if cmd.Flags().Changed("seed") {
				wc.Seed = seed
			}

			renderer := wordcloud.NewMinecraftRenderer(wordcloud.RenderOptions{
				Width:    wc.Width,
				Height:   wc.Height,
				FontPath: wc.FontPath,
				Seed:     wc.Seed,
			})
			store := catalog.NewStore(cfg.Output.DataPath)
			gen := wordcloud.NewGenerator(store, renderer, wc.ImagePath, wc.MaxWords)

			path, words, err := gen.Run()
			if err != nil {
				if errors.Is(err, catalog.ErrNoData) {
					return fmt.Errorf("no data available, run scrape first (%v)", err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Word cloud with %d words saved as %s\n", words, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PNG path (overrides config)")
	cmd.Flags().StringVar(&fontPath, "font", "", "TTF font file for rendering (overrides config)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Layout RNG seed for reproducible output")
	return cmd
}
