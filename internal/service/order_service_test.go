package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/events"
	apperrors "github.com/spec-kit/store-service/pkg/util"
)

type memoryProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	seq      int
}

func newMemoryProductRepo(products ...*domain.Product) *memoryProductRepo {
	repo := &memoryProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		copied := *p
		repo.products[p.ID] = &copied
	}
	return repo
}

func (r *memoryProductRepo) get(id string) *domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		copied := *p
		return &copied
	}
	return nil
}

func (r *memoryProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if product.ID == "" {
		product.ID = "p" + string(rune('0'+r.seq))
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memoryProductRepo) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memoryProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p := r.get(id); p != nil {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryProductRepo) GetBySKU(_ context.Context, storeID, sku string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.StoreID == storeID && p.SKU == sku {
			copied := *p
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryProductRepo) List(_ context.Context, filter domain.ScopeFilter, _, _ int) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	storeID, scoped := filter.StoreID()
	for _, p := range r.products {
		if scoped && p.StoreID != storeID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *memoryProductRepo) AdjustQuantity(_ context.Context, id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	if p.Quantity+delta < 0 {
		return 0, pgx.ErrNoRows
	}
	p.Quantity += delta
	return p.Quantity, nil
}

type memoryOrderRepo struct {
	mu         sync.Mutex
	orders     map[string]*domain.Order
	seq        int
	failCreate error
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *memoryOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	r.seq++
	order.ID = "o" + string(rune('0'+r.seq))
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *memoryOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryOrderRepo) List(_ context.Context, filter domain.ScopeFilter, _, _ int) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	storeID, scoped := filter.StoreID()
	for _, o := range r.orders {
		if scoped && o.StoreID != storeID {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *memoryOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.Status = status
	return nil
}

type grantPolicies struct {
	grants map[string]map[string]bool
}

func (p grantPolicies) HasPermission(_ context.Context, userID, key string) (bool, error) {
	return p.grants[userID][key], nil
}

func testProduct(id, storeID, sku string, priceCents int64, quantity int) *domain.Product {
	return &domain.Product{
		ID:         id,
		StoreID:    storeID,
		SKU:        sku,
		Name:       "Product " + sku,
		PriceCents: priceCents,
		Quantity:   quantity,
		IsActive:   true,
	}
}

func newTestOrderService(users *memoryUserRepo, products *memoryProductRepo, orders *memoryOrderRepo, grants map[string]map[string]bool) (*OrderService, events.Dispatcher) {
	logger := zap.NewNop()
	access := auth.NewAccessControl(users, grantPolicies{grants: grants}, nil, logger)
	dispatcher := events.NewInMemoryDispatcher()
	return NewOrderService(orders, products, access, dispatcher, logger), dispatcher
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	storeA := strPtr("store-a")

	cashierGrants := map[string]map[string]bool{
		"c1": {"orders.create": true, "orders.update": true},
	}

	t.Run("computes totals and decrements stock", func(t *testing.T) {
		cashier := activeUser("c1", "cashier@example.com", domain.RoleCashier, storeA)
		users := newMemoryUserRepo(cashier)
		products := newMemoryProductRepo(
			testProduct("p1", "store-a", "SKU-1", 250, 10),
			testProduct("p2", "store-a", "SKU-2", 1000, 3),
		)
		orders := newMemoryOrderRepo()
		svc, dispatcher := newTestOrderService(users, products, orders, cashierGrants)

		var published []events.Event
		dispatcher.Subscribe(events.EventOrderCreated, func(_ context.Context, e events.Event) error {
			published = append(published, e)
			return nil
		})

		order, err := svc.CreateOrder(ctx, cashier, []OrderLine{
			{ProductID: "p1", Quantity: 4},
			{ProductID: "p2", Quantity: 2},
		}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if want := int64(4*250 + 2*1000); order.TotalCents != want {
			t.Errorf("total %d, want %d", order.TotalCents, want)
		}
		if len(order.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(order.Items))
		}
		if order.Number == "" {
			t.Error("order must be assigned a number")
		}
		if order.StoreID != "store-a" {
			t.Errorf("order store %q, want store-a", order.StoreID)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("new order status %q, want PENDING", order.Status)
		}

		if got := products.get("p1").Quantity; got != 6 {
			t.Errorf("p1 stock %d, want 6", got)
		}
		if got := products.get("p2").Quantity; got != 1 {
			t.Errorf("p2 stock %d, want 1", got)
		}

		if len(published) != 1 {
			t.Fatalf("expected 1 OrderCreated event, got %d", len(published))
		}
	})

	t.Run("without orders.create forbidden", func(t *testing.T) {
		cashier := activeUser("c1", "cashier@example.com", domain.RoleCashier, storeA)
		users := newMemoryUserRepo(cashier)
		products := newMemoryProductRepo(testProduct("p1", "store-a", "SKU-1", 250, 10))
		svc, _ := newTestOrderService(users, products, newMemoryOrderRepo(), nil)

		_, err := svc.CreateOrder(ctx, cashier, []OrderLine{{ProductID: "p1", Quantity: 1}}, nil)
		if !apperrors.IsCode(err, "FORBIDDEN") {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("insufficient stock conflicts", func(t *testing.T) {
		cashier := activeUser("c1", "cashier@example.com", domain.RoleCashier, storeA)
		users := newMemoryUserRepo(cashier)
		products := newMemoryProductRepo(testProduct("p1", "store-a", "SKU-1", 250, 3))
		svc, _ := newTestOrderService(users, products, newMemoryOrderRepo(), cashierGrants)

		_, err := svc.CreateOrder(ctx, cashier, []OrderLine{{ProductID: "p1", Quantity: 4}}, nil)
		if !apperrors.IsCode(err, "CONFLICT") {
			t.Fatalf("expected conflict, got %v", err)
		}
		if got := products.get("p1").Quantity; got != 3 {
			t.Errorf("stock must be untouched, got %d", got)
		}
	})

	t.Run("cross-store product hidden", func(t *testing.T) {
		cashier := activeUser("c1", "cashier@example.com", domain.RoleCashier, storeA)
		users := newMemoryUserRepo(cashier)
		products := newMemoryProductRepo(testProduct("p9", "store-b", "SKU-9", 250, 10))
		svc, _ := newTestOrderService(users, products, newMemoryOrderRepo(), cashierGrants)

		_, err := svc.CreateOrder(ctx, cashier, []OrderLine{{ProductID: "p9", Quantity: 1}}, nil)
		if !apperrors.IsCode(err, "NOT_FOUND") {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("failed persist restocks items", func(t *testing.T) {
		cashier := activeUser("c1", "cashier@example.com", domain.RoleCashier, storeA)
		users := newMemoryUserRepo(cashier)
		products := newMemoryProductRepo(testProduct("p1", "store-a", "SKU-1", 250, 10))
		orders := newMemoryOrderRepo()
		orders.failCreate = context.DeadlineExceeded
		svc, _ := newTestOrderService(users, products, orders, cashierGrants)

		if _, err := svc.CreateOrder(ctx, cashier, []OrderLine{{ProductID: "p1", Quantity: 4}}, nil); err == nil {
			t.Fatal("expected error from failed persist")
		}
		if got := products.get("p1").Quantity; got != 10 {
			t.Errorf("stock must be restored after failed persist, got %d", got)
		}
	})

	t.Run("empty order rejected", func(t *testing.T) {
		cashier := activeUser("c1", "cashier@example.com", domain.RoleCashier, storeA)
		users := newMemoryUserRepo(cashier)
		svc, _ := newTestOrderService(users, newMemoryProductRepo(), newMemoryOrderRepo(), cashierGrants)

		if _, err := svc.CreateOrder(ctx, cashier, nil, nil); !apperrors.IsCode(err, "VALIDATION_FAILED") {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestOrderScopeAndTransitions(t *testing.T) {
	ctx := context.Background()
	storeA := strPtr("store-a")

	grants := map[string]map[string]bool{
		"c1": {"orders.create": true, "orders.update": true},
	}

	setup := func(t *testing.T) (*OrderService, *memoryOrderRepo, *domain.User) {
		t.Helper()
		cashier := activeUser("c1", "cashier@example.com", domain.RoleCashier, storeA)
		users := newMemoryUserRepo(cashier)
		products := newMemoryProductRepo(testProduct("p1", "store-a", "SKU-1", 250, 10))
		orders := newMemoryOrderRepo()
		svc, _ := newTestOrderService(users, products, orders, grants)

		if _, err := svc.CreateOrder(ctx, cashier, []OrderLine{{ProductID: "p1", Quantity: 1}}, nil); err != nil {
			t.Fatalf("seed order: %v", err)
		}
		return svc, orders, cashier
	}

	t.Run("pending to paid allowed", func(t *testing.T) {
		svc, _, cashier := setup(t)
		order, err := svc.UpdateOrderStatus(ctx, cashier, "o1", domain.OrderStatusPaid)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != domain.OrderStatusPaid {
			t.Errorf("status %q, want PAID", order.Status)
		}
	})

	t.Run("pending straight to fulfilled rejected", func(t *testing.T) {
		svc, _, cashier := setup(t)
		if _, err := svc.UpdateOrderStatus(ctx, cashier, "o1", domain.OrderStatusFulfilled); !apperrors.IsCode(err, "CONFLICT") {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("cancel after payment rejected", func(t *testing.T) {
		svc, _, cashier := setup(t)
		if _, err := svc.UpdateOrderStatus(ctx, cashier, "o1", domain.OrderStatusPaid); err != nil {
			t.Fatalf("pay: %v", err)
		}
		if _, err := svc.UpdateOrderStatus(ctx, cashier, "o1", domain.OrderStatusCancelled); !apperrors.IsCode(err, "CONFLICT") {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("orders outside the caller's store are hidden", func(t *testing.T) {
		svc, orders, cashier := setup(t)
		orders.mu.Lock()
		orders.orders["o1"].StoreID = "store-b"
		orders.mu.Unlock()

		if _, err := svc.GetOrder(ctx, cashier, "o1"); !apperrors.IsCode(err, "NOT_FOUND") {
			t.Fatalf("expected not found, got %v", err)
		}
		listed, err := svc.ListOrders(ctx, cashier, 10, 0)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(listed) != 0 {
			t.Errorf("expected no visible orders, got %d", len(listed))
		}
	})
}
