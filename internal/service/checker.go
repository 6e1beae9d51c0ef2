package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopwatchhq/shopwatch/internal/model"
	"github.com/shopwatchhq/shopwatch/internal/repository"
)

// PriceFetcher is the slice of the storefront client the check workflow needs.
type PriceFetcher interface {
	FetchProduct(ctx context.Context, handle string) (model.ProductPrice, error)
}

// Outcome classifies a completed price check.
type Outcome uint8

const (
	OutcomeFirstCheck Outcome = iota
	OutcomeDrop
	OutcomeNoChange
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeFirstCheck:
		return "first_check"
	case OutcomeDrop:
		return "drop"
	case OutcomeNoChange:
		return "no_change"
	default:
		return "unknown"
	}
}

// CheckStatus tells checked, skipped and failed products apart. A skipped
// product is not an error.
type CheckStatus uint8

const (
	StatusChecked CheckStatus = iota
	StatusSkipped
	StatusFailed
)

// CheckResult is the per-product result of one check pass.
type CheckResult struct {
	Product       model.Product
	Status        CheckStatus
	Outcome       Outcome
	Price         decimal.Decimal
	PreviousPrice *decimal.Decimal
	Err           error
}

// CheckSummary aggregates one pass over all monitored products.
type CheckSummary struct {
	Checked int
	Skipped int
	Failed  int
	Results []CheckResult
}

type CheckService interface {
	// CheckAll runs the price check for every monitored product. One
	// product's failure never aborts the rest of the pass; failures are
	// counted in the summary and the caller decides the process outcome.
	CheckAll(ctx context.Context) (CheckSummary, error)

	// CheckProduct runs the price check for a single product.
	CheckProduct(ctx context.Context, product model.Product) CheckResult
}

type checkService struct {
	logger      *slog.Logger
	fetcher     PriceFetcher
	productRepo repository.ProductRepository
	now         func() time.Time
}

func NewCheckService(logger *slog.Logger, fetcher PriceFetcher, productRepo repository.ProductRepository) CheckService {
	return &checkService{
		logger:      logger.With(slog.String("service", "checker")),
		fetcher:     fetcher,
		productRepo: productRepo,
		now:         time.Now,
	}
}

func (s *checkService) CheckAll(ctx context.Context) (CheckSummary, error) {
	products, err := s.productRepo.ListMonitored(ctx)
	if err != nil {
		return CheckSummary{}, fmt.Errorf("list monitored products: %w", err)
	}

	if len(products) == 0 {
		s.logger.WarnContext(ctx, "no monitored products found")
		return CheckSummary{}, nil
	}

	s.logger.InfoContext(ctx, "checking monitored products", slog.Int("count", len(products)))

	summary := CheckSummary{Results: make([]CheckResult, 0, len(products))}
	for _, product := range products {
		res := s.CheckProduct(ctx, product)
		summary.Results = append(summary.Results, res)

		switch res.Status {
		case StatusChecked:
			summary.Checked++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
			s.logger.ErrorContext(ctx, "product check failed",
				slog.String("name", product.Name),
				slog.Any("error", res.Err),
			)
		}
	}

	return summary, nil
}

func (s *checkService) CheckProduct(ctx context.Context, product model.Product) CheckResult {
	if product.Handle == "" {
		s.logger.WarnContext(ctx, "skipping product without handle", slog.String("name", product.Name))
		return CheckResult{Product: product, Status: StatusSkipped}
	}

	// The prior price is captured before any write so this pass never
	// compares against a value it just recorded.
	prior := product.CurrentPrice

	fetched, err := s.fetcher.FetchProduct(ctx, product.Handle)
	if err != nil {
		return CheckResult{Product: product, Status: StatusFailed, Err: fmt.Errorf("fetch product %q: %w", product.Handle, err)}
	}

	outcome := classify(prior, fetched.Price)
	checkedAt := s.now().UTC()

	switch outcome {
	case OutcomeDrop:
		s.logger.InfoContext(ctx, "price drop detected",
			slog.String("name", product.Name),
			slog.String("previous", prior.StringFixed(2)),
			slog.String("current", fetched.Price.StringFixed(2)),
			slog.String("currency", fetched.Currency),
		)
	case OutcomeFirstCheck:
		s.logger.InfoContext(ctx, "first check recorded",
			slog.String("name", product.Name),
			slog.String("current", fetched.Price.StringFixed(2)),
		)
	default:
		s.logger.InfoContext(ctx, "no price change", slog.String("name", product.Name))
	}

	// History is written first: a failure between the two writes must leave
	// the observation recorded even if current state lags behind it.
	if _, err := s.productRepo.AppendHistory(ctx, repository.AppendHistoryParams{
		ProductID:     product.ID,
		Price:         fetched.Price,
		PreviousPrice: prior,
		Dropped:       outcome == OutcomeDrop,
		CheckedAt:     checkedAt,
	}); err != nil {
		return CheckResult{Product: product, Status: StatusFailed, Err: fmt.Errorf("append history: %w", err)}
	}

	if err := s.productRepo.UpdatePrice(ctx, product.ID, fetched.Price, checkedAt); err != nil {
		return CheckResult{Product: product, Status: StatusFailed, Err: fmt.Errorf("update current price: %w", err)}
	}

	return CheckResult{
		Product:       product,
		Status:        StatusChecked,
		Outcome:       outcome,
		Price:         fetched.Price,
		PreviousPrice: prior,
	}
}

// classify applies the drop rule: a drop needs a prior price and a strictly
// lower fetched price; equal prices are no change.
func classify(prior *decimal.Decimal, fetched decimal.Decimal) Outcome {
	switch {
	case prior == nil:
		return OutcomeFirstCheck
	case fetched.LessThan(*prior):
		return OutcomeDrop
	default:
		return OutcomeNoChange
	}
}
