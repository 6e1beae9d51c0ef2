package airtable_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopwatchhq/shopwatch/internal/airtable"
	"github.com/shopwatchhq/shopwatch/internal/config"
	"github.com/shopwatchhq/shopwatch/pkg/zerror"
)

func newTestClient(t *testing.T, handler http.Handler) *airtable.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Airtable{
		APIKey:            "key123",
		BaseID:            "appABC",
		ProductsTable:     "Products",
		PriceHistoryTable: "Price History",
		Timeout:           5 * time.Second,
	}

	return airtable.NewClient(cfg, airtable.WithBaseURL(srv.URL))
}

func TestListRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("Should send auth header and follow offset pagination", func(t *testing.T) {
		var offsets []string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
			assert.Equal(t, "/appABC/Products", r.URL.Path)

			offset := r.URL.Query().Get("offset")
			offsets = append(offsets, offset)

			if offset == "" {
				fmt.Fprint(w, `{"records":[{"id":"rec1","fields":{"Name":"A"}}],"offset":"itr2"}`)
				return
			}
			fmt.Fprint(w, `{"records":[{"id":"rec2","fields":{"Name":"B"}}]}`)
		}))

		records, err := client.ListRecords(ctx, "Products", airtable.ListOptions{})
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, "rec1", records[0].ID)
		assert.Equal(t, "rec2", records[1].ID)
		assert.Equal(t, []string{"", "itr2"}, offsets)
	})

	t.Run("Should pass filterByFormula through", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "{Shopify Handle} = 'acacia-honey'", r.URL.Query().Get("filterByFormula"))
			fmt.Fprint(w, `{"records":[]}`)
		}))

		records, err := client.ListRecords(ctx, "Products", airtable.ListOptions{
			FilterByFormula: "{Shopify Handle} = 'acacia-honey'",
		})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Should decode numbers as json.Number", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"records":[{"id":"rec1","fields":{"Current Price":12.5}}]}`)
		}))

		records, err := client.ListRecords(ctx, "Products", airtable.ListOptions{})
		require.NoError(t, err)

		require.Len(t, records, 1)
		assert.Equal(t, json.Number("12.5"), records[0].Fields["Current Price"])
	})
}

func TestCreateRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("Should post fields and return the created record", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/appABC/Price%20History", r.URL.EscapedPath())
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"fields":{"Price":8.5,"Price Dropped":true}}`, string(body))

			fmt.Fprint(w, `{"id":"recNew","createdTime":"2026-09-01T10:00:00.000Z","fields":{"Price":8.5,"Price Dropped":true}}`)
		}))

		rec, err := client.CreateRecord(ctx, "Price History", map[string]any{
			"Price":         8.5,
			"Price Dropped": true,
		})
		require.NoError(t, err)

		assert.Equal(t, "recNew", rec.ID)
		assert.Equal(t, json.Number("8.5"), rec.Fields["Price"])
	})
}

func TestUpdateRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("Should patch the record by id", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/appABC/Products/rec1", r.URL.Path)

			fmt.Fprint(w, `{"id":"rec1","fields":{"Current Price":8.5}}`)
		}))

		rec, err := client.UpdateRecord(ctx, "Products", "rec1", map[string]any{"Current Price": 8.5})
		require.NoError(t, err)
		assert.Equal(t, "rec1", rec.ID)
	})
}

func TestErrorKinds(t *testing.T) {
	ctx := context.Background()

	t.Run("Should report StoreError on an error status", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"error":{"type":"INVALID_REQUEST_UNKNOWN","message":"Unknown field name"}}`)
		}))

		_, err := client.CreateRecord(ctx, "Products", map[string]any{"Bogus": 1})
		require.Error(t, err)
		assert.Equal(t, zerror.KindStoreError, zerror.KindOf(err))
		assert.Contains(t, err.Error(), "status 422")
	})

	t.Run("Should report StoreError on a transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // force connection refused

		cfg := config.Airtable{APIKey: "k", BaseID: "appABC", Timeout: time.Second}
		client := airtable.NewClient(cfg, airtable.WithBaseURL(srv.URL))

		_, err := client.ListRecords(ctx, "Products", airtable.ListOptions{})
		require.Error(t, err)
		assert.Equal(t, zerror.KindStoreError, zerror.KindOf(err))
	})
}
