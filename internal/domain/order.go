package domain

import "time"

// OrderStatus enumerates point-of-sale order states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusFulfilled OrderStatus = "FULFILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// CanTransitionTo reports whether a status change is allowed.
// Orders move pending -> paid -> fulfilled; cancellation is only
// possible while pending.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusPaid || next == OrderStatusCancelled
	case OrderStatusPaid:
		return next == OrderStatusFulfilled
	}
	return false
}

// OrderItem is a single line on an order.
type OrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Name       string
	UnitCents  int64
	Quantity   int
	TotalCents int64
}

// Order models a point-of-sale order for a store.
type Order struct {
	ID          string
	Number      string
	StoreID     string
	CustomerID  *string
	CashierID   string
	Status      OrderStatus
	TotalCents  int64
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}
