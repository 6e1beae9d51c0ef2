package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product mirrors the current state of a tracked storefront product in the
// record store. The storefront handle is the natural key; at most one
// product exists per handle.
type Product struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Handle       string           `json:"handle"`
	URL          string           `json:"url"`
	Vendor       string           `json:"vendor"`
	CurrentPrice *decimal.Decimal `json:"current_price,omitempty"` // nil until the first check
	LastChecked  *time.Time       `json:"last_checked,omitempty"`
	Monitored    bool             `json:"monitored"`
}

// PriceHistory is one immutable price observation. Exactly one entry is
// written per successful check and entries are never mutated or deleted.
type PriceHistory struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	Price         decimal.Decimal  `json:"price"`
	PreviousPrice *decimal.Decimal `json:"previous_price,omitempty"` // nil on the first check
	Dropped       bool             `json:"dropped"`
	CheckedAt     time.Time        `json:"checked_at"`
}
