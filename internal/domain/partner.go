package domain

import "time"

// Supplier models a store-scoped goods supplier.
type Supplier struct {
	ID        string
	StoreID   string
	Name      string
	Email     string
	Phone     string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Customer models a store-scoped customer record.
type Customer struct {
	ID        string
	StoreID   string
	Name      string
	Email     string
	Phone     string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
