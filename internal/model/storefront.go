package model

import "github.com/shopspring/decimal"

// ProductPrice is the normalized result of fetching a single product
// document from the storefront. It carries no identity beyond the handle
// and is never persisted directly.
type ProductPrice struct {
	Title             string           `json:"title"`
	Handle            string           `json:"handle"`
	Price             decimal.Decimal  `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price,omitempty"`
	Currency          string           `json:"currency"`
	Available         bool             `json:"available"`
	InventoryQuantity int              `json:"inventory_quantity"`
	ImageURL          string           `json:"image_url,omitempty"`
}

// CollectionProduct is one entry of a collection listing, used only while
// syncing the catalog into the record store.
type CollectionProduct struct {
	Title          string           `json:"title"`
	Handle         string           `json:"handle"`
	Vendor         string           `json:"vendor"`
	ProductType    string           `json:"product_type"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Currency       string           `json:"currency"`
	URL            string           `json:"url"`
}
