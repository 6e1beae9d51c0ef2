// Package storefront fetches product and collection documents from a
// Shopify storefront's public JSON endpoints.
package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/shopwatchhq/shopwatch/internal/apperr"
	"github.com/shopwatchhq/shopwatch/internal/config"
	"github.com/shopwatchhq/shopwatch/internal/model"
	"github.com/shopwatchhq/shopwatch/pkg/validator"
)

// defaultCurrency is used when the storefront omits the currency code.
const defaultCurrency = "GBP"

type Client struct {
	baseURL  string
	pageSize int
	client   *http.Client
	validate validator.Validator
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the base URL derived from the store domain.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a new storefront client for the configured store domain.
func NewClient(cfg config.Shopify, v validator.Validator, opts ...Option) *Client {
	c := &Client{
		baseURL:  "https://" + cfg.StoreDomain,
		pageSize: cfg.PageSize,
		client:   &http.Client{Timeout: cfg.Timeout},
		validate: v,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire documents. Prices arrive as strings ("12.00") and optional fields as
// null, so everything optional is a pointer here and resolved once in
// normalization.
type productDoc struct {
	Title       string       `json:"title" validate:"required"`
	Handle      string       `json:"handle" validate:"required"`
	Vendor      string       `json:"vendor"`
	ProductType string       `json:"product_type"`
	Variants    []variantDoc `json:"variants" validate:"min=1,dive"`
	Image       *imageDoc    `json:"image"`
}

type variantDoc struct {
	Price             string  `json:"price" validate:"required"`
	CompareAtPrice    *string `json:"compare_at_price"`
	PriceCurrency     string  `json:"price_currency"`
	InventoryQuantity int     `json:"inventory_quantity"`
}

type imageDoc struct {
	Src string `json:"src"`
}

// FetchProduct resolves a single product document by handle.
//
// Multi-variant products are represented by their first variant only.
func (c *Client) FetchProduct(ctx context.Context, handle string) (model.ProductPrice, error) {
	endpoint := fmt.Sprintf("%s/products/%s.json", c.baseURL, url.PathEscape(handle))

	var doc struct {
		Product productDoc `json:"product"`
	}
	if err := c.getJSON(ctx, endpoint, &doc); err != nil {
		return model.ProductPrice{}, err
	}

	price, compareAt, currency, err := c.firstVariant(doc.Product)
	if err != nil {
		return model.ProductPrice{}, err
	}

	quantity := doc.Product.Variants[0].InventoryQuantity

	var imageURL string
	if doc.Product.Image != nil {
		imageURL = doc.Product.Image.Src
	}

	return model.ProductPrice{
		Title:             doc.Product.Title,
		Handle:            doc.Product.Handle,
		Price:             price,
		CompareAtPrice:    compareAt,
		Currency:          currency,
		Available:         quantity > 0,
		InventoryQuantity: quantity,
		ImageURL:          imageURL,
	}, nil
}

// ListCollection pages through a collection listing until the source returns
// an empty page, preserving source order. Re-invoking refetches from page 1.
func (c *Client) ListCollection(ctx context.Context, collection string) ([]model.CollectionProduct, error) {
	var out []model.CollectionProduct

	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("%s/collections/%s/products.json?limit=%d&page=%d",
			c.baseURL, url.PathEscape(collection), c.pageSize, page)

		var doc struct {
			Products []productDoc `json:"products"`
		}
		if err := c.getJSON(ctx, endpoint, &doc); err != nil {
			return nil, err
		}

		if len(doc.Products) == 0 {
			return out, nil
		}

		for _, p := range doc.Products {
			price, compareAt, currency, err := c.firstVariant(p)
			if err != nil {
				return nil, err
			}

			out = append(out, model.CollectionProduct{
				Title:          p.Title,
				Handle:         p.Handle,
				Vendor:         p.Vendor,
				ProductType:    p.ProductType,
				Price:          price,
				CompareAtPrice: compareAt,
				Currency:       currency,
				URL:            fmt.Sprintf("%s/products/%s", c.baseURL, p.Handle),
			})
		}
	}
}

// firstVariant validates a product document and normalizes the pricing
// fields of its first variant.
func (c *Client) firstVariant(p productDoc) (decimal.Decimal, *decimal.Decimal, string, error) {
	if err := c.validate.Validate(p); err != nil {
		return decimal.Decimal{}, nil, "", apperr.MalformedDocumentErr.WrapParent(err)
	}

	v := p.Variants[0]

	price, err := decimal.NewFromString(v.Price)
	if err != nil {
		return decimal.Decimal{}, nil, "", apperr.MalformedDocumentErr.WrapParent(fmt.Errorf("parse price %q: %w", v.Price, err))
	}

	var compareAt *decimal.Decimal
	if v.CompareAtPrice != nil && *v.CompareAtPrice != "" {
		d, err := decimal.NewFromString(*v.CompareAtPrice)
		if err != nil {
			return decimal.Decimal{}, nil, "", apperr.MalformedDocumentErr.WrapParent(fmt.Errorf("parse compare_at_price %q: %w", *v.CompareAtPrice, err))
		}
		compareAt = &d
	}

	currency := v.PriceCurrency
	if currency == "" {
		currency = defaultCurrency
	}

	return price, compareAt, currency, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return apperr.SourceUnavailableErr.WrapParent(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperr.SourceUnavailableErr.WrapParent(fmt.Errorf("GET %s: unexpected status %d", endpoint, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.MalformedDocumentErr.WrapParent(fmt.Errorf("decode response: %w", err))
	}

	return nil
}
