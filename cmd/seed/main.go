package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"telegram-affiliate-bot/internal/config"
	pg "telegram-affiliate-bot/internal/infra/db/postgres"
	"telegram-affiliate-bot/internal/infra/logging"
	"telegram-affiliate-bot/internal/usecase"
)

// One-shot catalog seeder. Safe to re-run: seeding is a checked no-op when
// offers already exist.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema migration failed")
	}

	offerRepo := pg.NewPostgresOfferRepo(pool)
	catalogUC := usecase.NewCatalogUseCase(offerRepo, pg.NewTxManager(pool), logger)

	inserted, err := catalogUC.Seed(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}
	total, err := catalogUC.Count(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("count failed")
	}

	if inserted == 0 {
		fmt.Printf("%d offers already present. No changes.\n", total)
		return
	}
	fmt.Printf("Seeded %d offers (%d total).\n", inserted, total)
}
