package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"urlguard/internal/render"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze URLs from a file (one per line or free-form text)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}

		analyzer, err := buildAnalyzer(cfg, log)
		if err != nil {
			return err
		}

		results, err := analyzer.AnalyzeText(string(content))
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
	rootCmd.AddCommand(batchCmd)
}
