package dto

import "time"

// ProductRequest payload for create/update.
type ProductRequest struct {
	StoreID     string `json:"store_id,omitempty"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Quantity    int    `json:"quantity"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// StockAdjustRequest payload for stock deltas.
type StockAdjustRequest struct {
	Delta int `json:"delta"`
}

// ProductResponse is the wire shape for products.
type ProductResponse struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Quantity    int       `json:"quantity"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
