package config

import "time"

type Airtable struct {
	APIKey string `env:"AIRTABLE_API_KEY,required"`
	BaseID string `env:"AIRTABLE_BASE_ID,required"`

	ProductsTable     string `env:"AIRTABLE_PRODUCTS_TABLE" envDefault:"Products"`
	PriceHistoryTable string `env:"AIRTABLE_PRICE_HISTORY_TABLE" envDefault:"Price History"`

	Timeout time.Duration `env:"AIRTABLE_TIMEOUT" envDefault:"15s"`
}
