package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/events"
	"github.com/spec-kit/store-service/internal/repository"
	apperrors "github.com/spec-kit/store-service/pkg/util"
)

// OrderService manages point-of-sale orders.
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	access     *auth.AccessControl
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewOrderService constructs the service.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, access *auth.AccessControl, dispatcher events.Dispatcher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:     orders,
		products:   products,
		access:     access,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// OrderLine is one requested line item.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// CreateOrder builds an order from line items, decrements stock and
// computes the total from current prices. Requires orders.create.
func (s *OrderService) CreateOrder(ctx context.Context, actor *domain.User, lines []OrderLine, customerID *string) (*domain.Order, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "orders", "create") {
		return nil, apperrors.NewForbidden("orders.create required")
	}
	if len(lines) == 0 {
		return nil, apperrors.NewValidationError("order requires at least one item", nil)
	}
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	storeID, ok := scope.Filter.StoreID()
	if !ok {
		if actor.StoreID == nil {
			return nil, apperrors.NewValidationError("caller has no store to order against", nil)
		}
		storeID = *actor.StoreID
	}

	order := &domain.Order{
		Number:     uuid.NewString(),
		StoreID:    storeID,
		CustomerID: customerID,
		CashierID:  actor.ID,
		Status:     domain.OrderStatusPending,
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperrors.NewValidationError("item quantity must be positive", map[string]any{"product_id": line.ProductID})
		}
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("product", map[string]any{"product_id": line.ProductID})
			}
			return nil, apperrors.MapError(err)
		}
		if product.StoreID != storeID || !product.IsActive {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": line.ProductID})
		}

		if _, err := s.products.AdjustQuantity(ctx, product.ID, -line.Quantity); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewConflict("insufficient stock", map[string]any{"product_id": product.ID})
			}
			return nil, apperrors.MapError(err)
		}

		itemTotal := product.PriceCents * int64(line.Quantity)
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			UnitCents:  product.PriceCents,
			Quantity:   line.Quantity,
			TotalCents: itemTotal,
		})
		order.TotalCents += itemTotal
	}

	if err := s.orders.Create(ctx, order); err != nil {
		// best effort restock; the storage layer is the source of truth
		for _, item := range order.Items {
			if _, restockErr := s.products.AdjustQuantity(ctx, item.ProductID, item.Quantity); restockErr != nil {
				s.logger.Error("restock after failed order create",
					zap.String("product_id", item.ProductID), zap.Error(restockErr))
			}
		}
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventOrderCreated,
			UserID:    actor.ID,
			Timestamp: time.Now(),
			Payload: events.OrderCreatedPayload{
				OrderID:    order.ID,
				Number:     order.Number,
				StoreID:    order.StoreID,
				TotalCents: order.TotalCents,
				ItemCount:  len(order.Items),
			},
		})
	}

	return order, nil
}

// ListOrders returns orders within the caller's scope.
func (s *OrderService) ListOrders(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Order, error) {
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	orders, err := s.orders.List(ctx, scope.Filter, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

// GetOrder fetches an order, enforcing the caller's scope.
func (s *OrderService) GetOrder(ctx context.Context, actor *domain.User, id string) (*domain.Order, error) {
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if storeID, ok := scope.Filter.StoreID(); ok && order.StoreID != storeID {
		return nil, apperrors.NewNotFound("order", map[string]any{"order_id": id})
	}
	return order, nil
}

// UpdateOrderStatus applies a status transition. Requires orders.update;
// illegal transitions are rejected before any write.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actor *domain.User, id string, next domain.OrderStatus) (*domain.Order, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "orders", "update") {
		return nil, apperrors.NewForbidden("orders.update required")
	}
	order, err := s.GetOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, apperrors.NewConflict("illegal status transition", map[string]any{
			"from": order.Status,
			"to":   next,
		})
	}
	if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, apperrors.MapError(err)
	}
	order.Status = next
	return order, nil
}
