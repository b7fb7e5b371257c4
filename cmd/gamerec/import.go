package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/config"
	"github.com/rushteam/gamerec/logging"
)

func runImport() error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	path := fs.String("config", "", "Path to the YAML config file (default $GAMEREC_CONFIG)")
	file := fs.String("file", "", "Steam metadata JSON file to import")
	batch := fs.Int("batch-size", 500, "Rows per insert batch")
	_ = fs.Parse(os.Args[1:])

	if *file == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}
	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	games, err := catalog.NewFileLoader(*file).Load(ctx)
	if err != nil {
		return err
	}
	db, err := openDB(cfg.Catalog.Database)
	if err != nil {
		return err
	}
	repo := catalog.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return err
	}
	n, err := repo.Import(ctx, games, *batch)
	if err != nil {
		return err
	}
	logging.Info().Int("games", n).Str("database", cfg.Catalog.Database).Msg("catalog imported")
	return nil
}
