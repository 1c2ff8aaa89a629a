package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/repository"
	apperrors "github.com/spec-kit/store-service/pkg/util"
)

// InventoryService manages store-scoped products.
type InventoryService struct {
	products repository.ProductRepository
	access   *auth.AccessControl
}

// NewInventoryService constructs the service.
func NewInventoryService(products repository.ProductRepository, access *auth.AccessControl) *InventoryService {
	return &InventoryService{products: products, access: access}
}

// resolveStore picks the store a mutation applies to: scoped callers are
// pinned to their own store, super admins must name one explicitly.
func resolveStore(scope *domain.UserScope, requested string) (string, error) {
	if storeID, ok := scope.Filter.StoreID(); ok {
		return storeID, nil
	}
	if requested == "" {
		return "", apperrors.NewValidationError("store_id required", nil)
	}
	return requested, nil
}

// ListProducts returns products within the caller's scope.
func (s *InventoryService) ListProducts(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Product, error) {
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	products, err := s.products.List(ctx, scope.Filter, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return products, nil
}

// GetProduct fetches a product, enforcing the caller's scope.
func (s *InventoryService) GetProduct(ctx context.Context, actor *domain.User, id string) (*domain.Product, error) {
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if storeID, ok := scope.Filter.StoreID(); ok && product.StoreID != storeID {
		return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
	}
	return product, nil
}

// CreateProduct adds an inventory item. Requires products.create.
func (s *InventoryService) CreateProduct(ctx context.Context, actor *domain.User, product *domain.Product) (*domain.Product, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "products", "create") {
		return nil, apperrors.NewForbidden("products.create required")
	}
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := resolveStore(scope, product.StoreID)
	if err != nil {
		return nil, err
	}
	product.StoreID = storeID

	if product.SKU == "" || product.Name == "" {
		return nil, apperrors.NewValidationError("sku and name required", nil)
	}
	if product.PriceCents < 0 || product.Quantity < 0 {
		return nil, apperrors.NewValidationError("price and quantity must be non-negative", nil)
	}

	if _, err := s.products.GetBySKU(ctx, storeID, product.SKU); err == nil {
		return nil, apperrors.NewConflict("sku already exists", map[string]any{"sku": product.SKU})
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	product.IsActive = true
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// UpdateProduct modifies item metadata. Requires products.update.
func (s *InventoryService) UpdateProduct(ctx context.Context, actor *domain.User, product *domain.Product) (*domain.Product, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "products", "update") {
		return nil, apperrors.NewForbidden("products.update required")
	}
	existing, err := s.GetProduct(ctx, actor, product.ID)
	if err != nil {
		return nil, err
	}
	product.StoreID = existing.StoreID
	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// AdjustStock applies a quantity delta and returns the new level.
// Requires products.update.
func (s *InventoryService) AdjustStock(ctx context.Context, actor *domain.User, productID string, delta int) (int, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "products", "update") {
		return 0, apperrors.NewForbidden("products.update required")
	}
	if _, err := s.GetProduct(ctx, actor, productID); err != nil {
		return 0, err
	}
	quantity, err := s.products.AdjustQuantity(ctx, productID, delta)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, apperrors.NewConflict("insufficient stock", map[string]any{"product_id": productID})
		}
		return 0, apperrors.MapError(err)
	}
	return quantity, nil
}
