package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"urlguard/internal/api"
	"urlguard/internal/api/handlers"
	"urlguard/internal/infrastructure/cache"
	"urlguard/internal/lists"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		log.Info().
			Str("app", cfg.App.Name).
			Str("env", cfg.App.Environment).
			Str("version", cfg.App.Version).
			Msg("starting urlguard")

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		analyzer, err := buildAnalyzer(cfg, log)
		if err != nil {
			return err
		}

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		var redisCache *cache.RedisCache
		if cfg.Redis.Enabled {
			redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
			if err != nil {
				return err
			}
			defer redisCache.Close()
		}

		h := handlers.NewHandlers(handlers.Dependencies{
			Analyzer:  analyzer,
			Store:     store,
			Cache:     redisCache,
			Blacklist: lists.NewFileSource(cfg.Lists.BlacklistPath()),
			CacheTTL:  cfg.Redis.TTL,
			Logger:    log,
		})

		router := api.NewRouter(cfg, h, log)
		server := api.NewServer(cfg.Server, router.Setup(), log)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
