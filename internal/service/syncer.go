package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopwatchhq/shopwatch/internal/model"
	"github.com/shopwatchhq/shopwatch/internal/repository"
)

// CatalogLister is the slice of the storefront client the sync workflow needs.
type CatalogLister interface {
	ListCollection(ctx context.Context, collection string) ([]model.CollectionProduct, error)
}

// SyncSummary aggregates one catalog sync run.
type SyncSummary struct {
	Added    int
	Existing int
}

type SyncService interface {
	// Sync reconciles a collection listing against the record store,
	// creating missing products and leaving existing ones untouched.
	// The first unrecoverable source or store error aborts the sync.
	Sync(ctx context.Context, collection string) (SyncSummary, error)
}

type syncService struct {
	logger      *slog.Logger
	lister      CatalogLister
	productRepo repository.ProductRepository
}

func NewSyncService(logger *slog.Logger, lister CatalogLister, productRepo repository.ProductRepository) SyncService {
	return &syncService{
		logger:      logger.With(slog.String("service", "syncer")),
		lister:      lister,
		productRepo: productRepo,
	}
}

func (s *syncService) Sync(ctx context.Context, collection string) (SyncSummary, error) {
	s.logger.InfoContext(ctx, "fetching collection", slog.String("collection", collection))

	listing, err := s.lister.ListCollection(ctx, collection)
	if err != nil {
		return SyncSummary{}, fmt.Errorf("list collection %q: %w", collection, err)
	}

	s.logger.InfoContext(ctx, "collection fetched", slog.Int("count", len(listing)))

	var summary SyncSummary
	for _, item := range listing {
		product, created, err := s.productRepo.Upsert(ctx, repository.UpsertProductParams{
			Handle: item.Handle,
			Name:   item.Title,
			URL:    item.URL,
			Price:  item.Price,
			Vendor: item.Vendor,
		})
		if err != nil {
			return summary, fmt.Errorf("upsert product %q: %w", item.Handle, err)
		}

		if created {
			summary.Added++
			s.logger.InfoContext(ctx, "product added", slog.String("name", product.Name))
		} else {
			summary.Existing++
			s.logger.InfoContext(ctx, "product exists", slog.String("name", product.Name))
		}
	}

	s.logger.InfoContext(ctx, "sync complete",
		slog.Int("added", summary.Added),
		slog.Int("existing", summary.Existing),
	)

	return summary, nil
}
