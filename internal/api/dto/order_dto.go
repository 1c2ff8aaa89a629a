package dto

import "time"

// OrderLineRequest is one requested line item.
type OrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderCreateRequest payload for order creation.
type OrderCreateRequest struct {
	Items      []OrderLineRequest `json:"items"`
	CustomerID *string            `json:"customer_id,omitempty"`
}

// OrderStatusRequest payload for status transitions.
type OrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse is the wire shape for order lines.
type OrderItemResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	UnitCents  int64  `json:"unit_cents"`
	Quantity   int    `json:"quantity"`
	TotalCents int64  `json:"total_cents"`
}

// OrderResponse is the wire shape for orders.
type OrderResponse struct {
	ID          string              `json:"id"`
	Number      string              `json:"number"`
	StoreID     string              `json:"store_id"`
	CustomerID  *string             `json:"customer_id,omitempty"`
	CashierID   string              `json:"cashier_id"`
	Status      string              `json:"status"`
	TotalCents  int64               `json:"total_cents"`
	Items       []OrderItemResponse `json:"items,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}
