package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"urlguard/internal/domain/services"
	"urlguard/internal/render"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url-or-text>",
	Short: "Analyze a single URL or extract and analyze URLs from text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		analyzer, err := buildAnalyzer(cfg, log)
		if err != nil {
			return err
		}

		urls := services.ExtractURLs(args[0])
		if len(urls) == 0 {
			urls = []string{args[0]}
		}

		results, err := analyzer.BatchAnalyze(urls)
		if err != nil {
			return err
		}

		if save {
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			for i := range results {
				if err := store.SaveAnalysis(cmd.Context(), &results[i]); err != nil {
					return err
				}
			}
		}

		render.AnalysisTable(os.Stdout, results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
