package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rushteam/gamerec/config"
	"github.com/rushteam/gamerec/logging"
	"github.com/rushteam/gamerec/recommender"
	"github.com/rushteam/gamerec/server"
	"github.com/rushteam/gamerec/steam"
)

func runServe() error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	path := fs.String("config", "", "Path to the YAML config file (default $GAMEREC_CONFIG)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := catalogProvider(cfg.Catalog)
	if err != nil {
		return err
	}
	games, err := provider.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	prefs, kv, closePrefs, err := preferenceBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePrefs()

	if cfg.Steam.APIKey == "" {
		logging.Warn().Msg("steam.api_key is empty; ownership lookups will be rejected upstream")
	}

	opts := []recommender.Option{
		recommender.WithOwnership(steam.NewClient(cfg.Steam)),
		recommender.WithPreferences(prefs),
		recommender.WithProvider(provider),
	}
	if kv != nil {
		opts = append(opts, recommender.WithBlacklistStore(kv))
	}
	rec, err := recommender.New(ctx, cfg.Recommender, games, opts...)
	if err != nil {
		return err
	}
	logging.Info().
		Str("catalog", cfg.Catalog.Source).
		Str("preferences", prefs.Name()).
		Msg("recommender ready")

	go rec.Watch(ctx, cfg.Catalog.ReloadInterval)
	return server.New(rec, cfg.Server).Run(ctx)
}
