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

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running price check: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	_ = godotenv.Load() // .env is optional

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
	fetcher := storefront.NewClient(cfg.Shopify, validator.NewDefaultValidator())
	productRepo := repository.NewProductRepository(store, cfg.Airtable)

	checker := service.NewCheckService(logger, fetcher, productRepo)

	summary, err := checker.CheckAll(ctx)
	if err != nil {
		return fmt.Errorf("error running price check: %w", err)
	}

	logger.InfoContext(ctx, "price check complete",
		slog.Int("checked", summary.Checked),
		slog.Int("skipped", summary.Skipped),
		slog.Int("errors", summary.Failed),
	)

	// Every product was attempted; a non-zero exit still signals the run
	// had failures.
	if summary.Failed > 0 {
		return fmt.Errorf("%d product check(s) failed", summary.Failed)
	}

	return nil
}
