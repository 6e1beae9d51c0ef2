package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/shopwatchhq/shopwatch/internal/airtable"
	"github.com/shopwatchhq/shopwatch/internal/config"
	"github.com/shopwatchhq/shopwatch/internal/log"
	"github.com/shopwatchhq/shopwatch/internal/repository"
	"github.com/shopwatchhq/shopwatch/internal/service"
	"github.com/shopwatchhq/shopwatch/internal/storefront"
	"github.com/shopwatchhq/shopwatch/pkg/validator"
)

// defaultCollection is synced when no collection handle is given.
const defaultCollection = "short-dated-but-delicious"

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running catalog sync: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	_ = godotenv.Load() // .env is optional

	collection := defaultCollection
	if len(os.Args) > 1 && os.Args[1] != "" {
		collection = os.Args[1]
	}

	type Config struct {
		Log      config.Log
		Airtable config.Airtable
		Shopify  config.Shopify
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log).With(slog.String("run_id", uuid.NewString()))

	store := airtable.NewClient(cfg.Airtable)
	lister := storefront.NewClient(cfg.Shopify, validator.NewDefaultValidator())
	productRepo := repository.NewProductRepository(store, cfg.Airtable)

	syncer := service.NewSyncService(logger, lister, productRepo)

	if _, err := syncer.Sync(ctx, collection); err != nil {
		return fmt.Errorf("error syncing collection %q: %w", collection, err)
	}

	return nil
}
