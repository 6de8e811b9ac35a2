package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"urlguard/internal/render"
	"urlguard/internal/storage"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recently stored analysis results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}

		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		results, err := store.FetchRecent(cmd.Context(), recentLimit)
		if err != nil {
			return err
		}

		render.AnalysisTable(os.Stdout, results)
		return nil
	},
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", storage.DefaultRecentLimit, "maximum number of results")
	rootCmd.AddCommand(recentCmd)
}
