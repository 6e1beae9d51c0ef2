package config

import "time"

type Shopify struct {
	StoreDomain string `env:"SHOPIFY_STORE_DOMAIN" envDefault:"feastitaly.com"`

	Timeout  time.Duration `env:"SHOPIFY_TIMEOUT" envDefault:"15s"`
	PageSize int           `env:"SHOPIFY_PAGE_SIZE" envDefault:"250"`
}
