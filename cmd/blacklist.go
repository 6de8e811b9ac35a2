package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"urlguard/internal/lists"
)

var blacklistCmd = &cobra.Command{
	Use:   "blacklist",
	Short: "Manage the domain blacklist",
}

var blacklistAddCmd = &cobra.Command{
	Use:   "add <domain>",
	Short: "Add a domain to the blacklist file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}

		domain := args[0]
		if !lists.ValidDomainToken(domain) {
			return fmt.Errorf("invalid domain format: %s", domain)
		}

		source := lists.NewFileSource(cfg.Lists.BlacklistPath())
		if err := source.Append(domain); err != nil {
			return err
		}

		fmt.Printf("added %s to blacklist\n", domain)
		return nil
	},
}

func init() {
	blacklistCmd.AddCommand(blacklistAddCmd)
	rootCmd.AddCommand(blacklistCmd)
}
