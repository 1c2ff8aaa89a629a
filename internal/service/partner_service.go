package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/repository"
	apperrors "github.com/spec-kit/store-service/pkg/util"
)

// PartnerService manages store-scoped suppliers and customers.
type PartnerService struct {
	suppliers repository.SupplierRepository
	customers repository.CustomerRepository
	access    *auth.AccessControl
}

// NewPartnerService constructs the service.
func NewPartnerService(suppliers repository.SupplierRepository, customers repository.CustomerRepository, access *auth.AccessControl) *PartnerService {
	return &PartnerService{suppliers: suppliers, customers: customers, access: access}
}

// ListSuppliers returns suppliers within the caller's scope.
func (s *PartnerService) ListSuppliers(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Supplier, error) {
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	suppliers, err := s.suppliers.List(ctx, scope.Filter, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return suppliers, nil
}

// CreateSupplier adds a supplier. Requires suppliers.create.
func (s *PartnerService) CreateSupplier(ctx context.Context, actor *domain.User, supplier *domain.Supplier) (*domain.Supplier, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "suppliers", "create") {
		return nil, apperrors.NewForbidden("suppliers.create required")
	}
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := resolveStore(scope, supplier.StoreID)
	if err != nil {
		return nil, err
	}
	supplier.StoreID = storeID

	if supplier.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	supplier.IsActive = true
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, apperrors.MapError(err)
	}
	return supplier, nil
}

// UpdateSupplier modifies a supplier inside the caller's scope.
// Requires suppliers.update.
func (s *PartnerService) UpdateSupplier(ctx context.Context, actor *domain.User, supplier *domain.Supplier) (*domain.Supplier, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "suppliers", "update") {
		return nil, apperrors.NewForbidden("suppliers.update required")
	}
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	existing, err := s.suppliers.GetByID(ctx, supplier.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("supplier", map[string]any{"supplier_id": supplier.ID})
		}
		return nil, apperrors.MapError(err)
	}
	if storeID, ok := scope.Filter.StoreID(); ok && existing.StoreID != storeID {
		return nil, apperrors.NewNotFound("supplier", map[string]any{"supplier_id": supplier.ID})
	}
	supplier.StoreID = existing.StoreID
	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return nil, apperrors.MapError(err)
	}
	return supplier, nil
}

// ListCustomers returns customers within the caller's scope.
func (s *PartnerService) ListCustomers(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Customer, error) {
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	customers, err := s.customers.List(ctx, scope.Filter, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// CreateCustomer adds a customer. Requires customers.create.
func (s *PartnerService) CreateCustomer(ctx context.Context, actor *domain.User, customer *domain.Customer) (*domain.Customer, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "customers", "create") {
		return nil, apperrors.NewForbidden("customers.create required")
	}
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	storeID, err := resolveStore(scope, customer.StoreID)
	if err != nil {
		return nil, err
	}
	customer.StoreID = storeID

	if customer.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	customer.IsActive = true
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// UpdateCustomer modifies a customer inside the caller's scope.
// Requires customers.update.
func (s *PartnerService) UpdateCustomer(ctx context.Context, actor *domain.User, customer *domain.Customer) (*domain.Customer, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "customers", "update") {
		return nil, apperrors.NewForbidden("customers.update required")
	}
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	existing, err := s.customers.GetByID(ctx, customer.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": customer.ID})
		}
		return nil, apperrors.MapError(err)
	}
	if storeID, ok := scope.Filter.StoreID(); ok && existing.StoreID != storeID {
		return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": customer.ID})
	}
	customer.StoreID = existing.StoreID
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}
