// Package airtable is a thin client for the Airtable records API, covering
// the filtered-list, create and update calls the record store needs.
package airtable

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/shopwatchhq/shopwatch/internal/apperr"
	"github.com/shopwatchhq/shopwatch/internal/config"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// Record is a raw Airtable record. Field values keep their wire types;
// numbers decode as json.Number so prices convert to decimal without drift.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// ListOptions narrows a ListRecords call.
type ListOptions struct {
	// FilterByFormula is an Airtable formula applied server side,
	// e.g. {Shopify Handle} = 'acacia-honey'.
	FilterByFormula string
}

type Client struct {
	baseURL string
	apiKey  string
	baseID  string
	client  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the Airtable API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a new Airtable client for the configured base.
func NewClient(cfg config.Airtable, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  cfg.APIKey,
		baseID:  cfg.BaseID,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRecords returns every record of a table matching the options,
// following offset pagination until the API stops returning one.
func (c *Client) ListRecords(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	var out []Record

	offset := ""
	for {
		q := url.Values{}
		if opts.FilterByFormula != "" {
			q.Set("filterByFormula", opts.FilterByFormula)
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		endpoint := c.tableURL(table)
		if enc := q.Encode(); enc != "" {
			endpoint += "?" + enc
		}

		var page struct {
			Records []Record `json:"records"`
			Offset  string   `json:"offset"`
		}
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		out = append(out, page.Records...)

		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// CreateRecord creates a single record with the given fields.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]any) (Record, error) {
	body := map[string]any{"fields": fields}

	var rec Record
	if err := c.do(ctx, http.MethodPost, c.tableURL(table), body, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// UpdateRecord applies a partial update to a single record.
func (c *Client) UpdateRecord(ctx context.Context, table, recordID string, fields map[string]any) (Record, error) {
	body := map[string]any{"fields": fields}
	endpoint := c.tableURL(table) + "/" + url.PathEscape(recordID)

	var rec Record
	if err := c.do(ctx, http.MethodPatch, endpoint, body, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperr.StoreErr.WrapParent(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return apperr.StoreErr.WrapParent(fmt.Errorf("%s %s: status %d: %s", method, endpoint, resp.StatusCode, bytes.TrimSpace(b)))
	}

	if out != nil {
		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		if err := dec.Decode(out); err != nil {
			return apperr.StoreErr.WrapParent(fmt.Errorf("decode response: %w", err))
		}
	}

	return nil
}
