package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/shopwatchhq/shopwatch/internal/airtable"
	"github.com/shopwatchhq/shopwatch/internal/config"
	"github.com/shopwatchhq/shopwatch/internal/model"
)

// Field names of the Airtable base schema.
const (
	fieldName         = "Name"
	fieldHandle       = "Shopify Handle"
	fieldCurrentPrice = "Current Price"
	fieldLastChecked  = "Last Checked"
	fieldMonitor      = "Monitor"
	fieldURL          = "URL"
	fieldVendor       = "Vendor"

	fieldHistoryProduct  = "Product"
	fieldHistoryPrice    = "Price"
	fieldHistoryPrevious = "Previous Price"
	fieldHistoryDropped  = "Price Dropped"
	fieldHistoryChecked  = "Checked At"
)

type AppendHistoryParams struct {
	ProductID     string
	Price         decimal.Decimal
	PreviousPrice *decimal.Decimal // nil on the first check; omitted from the written record
	Dropped       bool
	CheckedAt     time.Time
}

type UpsertProductParams struct {
	Handle string
	Name   string
	URL    string
	Price  decimal.Decimal
	Vendor string
}

type ProductRepository interface {
	// FindByHandle returns the product with the given storefront handle, or
	// nil when none exists. If the store holds duplicates the first match
	// wins; duplicates are a data-quality condition, not corrected here.
	FindByHandle(ctx context.Context, handle string) (*model.Product, error)

	// ListMonitored returns every product with the monitor flag set.
	ListMonitored(ctx context.Context) ([]model.Product, error)

	// UpdatePrice sets a product's current price and last-checked timestamp.
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal, checkedAt time.Time) error

	// AppendHistory creates one immutable price-history entry.
	AppendHistory(ctx context.Context, params AppendHistoryParams) (model.PriceHistory, error)

	// Upsert creates the product if no record carries its handle, otherwise
	// returns the existing record unmodified. The second return reports
	// whether a record was created. New products start unmonitored.
	//
	// Implemented as lookup-then-create: two concurrent upserts of the same
	// handle can both create a record. Accepted limitation; the store offers
	// no conditional create.
	Upsert(ctx context.Context, params UpsertProductParams) (model.Product, bool, error)
}

type productRepository struct {
	store         *airtable.Client
	productsTable string
	historyTable  string
}

func NewProductRepository(store *airtable.Client, cfg config.Airtable) ProductRepository {
	return &productRepository{
		store:         store,
		productsTable: cfg.ProductsTable,
		historyTable:  cfg.PriceHistoryTable,
	}
}

func (r *productRepository) FindByHandle(ctx context.Context, handle string) (*model.Product, error) {
	records, err := r.store.ListRecords(ctx, r.productsTable, airtable.ListOptions{
		FilterByFormula: fmt.Sprintf("{%s} = '%s'", fieldHandle, escapeFormulaValue(handle)),
	})
	if err != nil {
		return nil, fmt.Errorf("find product by handle: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	product := recordToProduct(records[0])
	return &product, nil
}

func (r *productRepository) ListMonitored(ctx context.Context) ([]model.Product, error) {
	records, err := r.store.ListRecords(ctx, r.productsTable, airtable.ListOptions{
		FilterByFormula: fmt.Sprintf("{%s} = TRUE()", fieldMonitor),
	})
	if err != nil {
		return nil, fmt.Errorf("list monitored products: %w", err)
	}

	products := make([]model.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, recordToProduct(rec))
	}

	return products, nil
}

func (r *productRepository) UpdatePrice(ctx context.Context, id string, price decimal.Decimal, checkedAt time.Time) error {
	fields := map[string]any{
		fieldCurrentPrice: price.InexactFloat64(),
		fieldLastChecked:  checkedAt.UTC().Format(time.RFC3339),
	}

	if _, err := r.store.UpdateRecord(ctx, r.productsTable, id, fields); err != nil {
		return fmt.Errorf("update product price: %w", err)
	}

	return nil
}

func (r *productRepository) AppendHistory(ctx context.Context, params AppendHistoryParams) (model.PriceHistory, error) {
	fields := map[string]any{
		fieldHistoryProduct: []string{params.ProductID},
		fieldHistoryPrice:   params.Price.InexactFloat64(),
		fieldHistoryDropped: params.Dropped,
		fieldHistoryChecked: params.CheckedAt.UTC().Format(time.RFC3339),
	}
	// An absent previous price marks the first check; writing 0 instead
	// would make it indistinguishable from a free product.
	if params.PreviousPrice != nil {
		fields[fieldHistoryPrevious] = params.PreviousPrice.InexactFloat64()
	}

	rec, err := r.store.CreateRecord(ctx, r.historyTable, fields)
	if err != nil {
		return model.PriceHistory{}, fmt.Errorf("append price history: %w", err)
	}

	return model.PriceHistory{
		ID:            rec.ID,
		ProductID:     params.ProductID,
		Price:         params.Price,
		PreviousPrice: params.PreviousPrice,
		Dropped:       params.Dropped,
		CheckedAt:     params.CheckedAt,
	}, nil
}

func (r *productRepository) Upsert(ctx context.Context, params UpsertProductParams) (model.Product, bool, error) {
	existing, err := r.FindByHandle(ctx, params.Handle)
	if err != nil {
		return model.Product{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	fields := map[string]any{
		fieldName:         params.Name,
		fieldHandle:       params.Handle,
		fieldURL:          params.URL,
		fieldCurrentPrice: params.Price.InexactFloat64(),
		fieldVendor:       params.Vendor,
		fieldMonitor:      false,
	}

	rec, err := r.store.CreateRecord(ctx, r.productsTable, fields)
	if err != nil {
		return model.Product{}, false, fmt.Errorf("create product: %w", err)
	}

	return recordToProduct(rec), true, nil
}

func recordToProduct(rec airtable.Record) model.Product {
	p := model.Product{ID: rec.ID}

	p.Name, _ = rec.Fields[fieldName].(string)
	p.Handle, _ = rec.Fields[fieldHandle].(string)
	p.URL, _ = rec.Fields[fieldURL].(string)
	p.Vendor, _ = rec.Fields[fieldVendor].(string)
	p.Monitored, _ = rec.Fields[fieldMonitor].(bool)

	if d, ok := numberField(rec.Fields, fieldCurrentPrice); ok {
		p.CurrentPrice = &d
	}
	if s, ok := rec.Fields[fieldLastChecked].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			p.LastChecked = &t
		}
	}

	return p
}

func numberField(fields map[string]any, name string) (decimal.Decimal, bool) {
	switch v := fields[name].(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(v), true
	}
	return decimal.Decimal{}, false
}

// escapeFormulaValue escapes single quotes so a handle cannot break out of
// the quoted formula literal.
func escapeFormulaValue(v string) string {
	return strings.ReplaceAll(v, "'", `\'`)
}
