package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"urlguard/internal/config"
	"urlguard/internal/domain/services"
	"urlguard/internal/lists"
	"urlguard/internal/storage"
	"urlguard/internal/storage/postgres"
	"urlguard/internal/storage/sqlite"
	"urlguard/pkg/logger"
)

var (
	cfgFile string
	save    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "urlguard",
	Short: "URL reputation and risk-scoring engine",
	Long: `Urlguard extracts URLs from text, validates them, unwraps known
link shorteners, checks allow/deny lists, and scores each URL for spam,
phishing, malicious-content, and authenticity risk. Analysis is performed
entirely on the URL string; nothing is fetched over the network.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., ./config, /etc/urlguard)")
	rootCmd.PersistentFlags().BoolVar(&save, "save", true, "persist results to the analysis store")
}

// setup loads configuration and builds the logger every command needs.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
	})
	logger.SetGlobal(log)

	return cfg, log, nil
}

// buildAnalyzer constructs the analyzer from the configured list files and
// rate limit.
func buildAnalyzer(cfg *config.Config, log *logger.Logger) (*services.Analyzer, error) {
	return services.NewAnalyzer(services.AnalyzerOptions{
		Blacklist:          lists.NewFileSource(cfg.Lists.BlacklistPath()),
		Whitelist:          lists.NewFileSource(cfg.Lists.WhitelistPath()),
		SuspiciousKeywords: lists.NewFileSource(cfg.Lists.SuspiciousKeywordsPath()),
		RateLimiter:        services.NewRateLimiter(cfg.RateLimit.MaxPerWindow, cfg.RateLimit.Window),
		BatchLimit:         cfg.Analyzer.BatchLimit,
		Logger:             log,
	})
}

// openStore opens the configured store backend.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return postgres.New(ctx, cfg.Storage.PostgresDSN)
	case "sqlite", "":
		return sqlite.New(ctx, cfg.Storage.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
