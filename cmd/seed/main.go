package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logx"
	"storefront/internal/seed"
	"storefront/internal/session"
	"storefront/internal/storage"
)

func main() {
	origin := flag.String("origin", seed.DemoOrigin, "Origin whose cart and wishlist are seeded")
	flag.Parse()

	_ = godotenv.Load()
	logger := logx.New(logx.Development, "seed")

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := session.ValidateOrigin(*origin); err != nil {
		logger.Fatal().Err(err).Msg("bad origin")
	}

	products, err := catalog.Default()
	if cfg.CatalogFile != "" {
		products, err = catalog.Load(cfg.CatalogFile)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("load catalog")
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open storage")
	}
	defer backend.Close()

	if err := seed.Apply(ctx, backend, products, *origin, logger); err != nil {
		logger.Fatal().Err(err).Msg("seed apply")
	}
}
