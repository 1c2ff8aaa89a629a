package domain

import "time"

// Product models a store-scoped inventory item.
type Product struct {
	ID          string
	StoreID     string
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Quantity    int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
