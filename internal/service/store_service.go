package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/repository"
	apperrors "github.com/spec-kit/store-service/pkg/util"
)

// StoreService manages store records. Listing and reads follow the
// caller's scope; creation is reserved for super_admin.
type StoreService struct {
	stores repository.StoreRepository
	access *auth.AccessControl
}

// NewStoreService constructs the service.
func NewStoreService(stores repository.StoreRepository, access *auth.AccessControl) *StoreService {
	return &StoreService{stores: stores, access: access}
}

// ListStores returns every store for super_admin and the caller's own
// store otherwise.
func (s *StoreService) ListStores(ctx context.Context, actor *domain.User) ([]domain.Store, error) {
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	stores, err := s.stores.List(ctx, scope.Filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stores, nil
}

// GetStore fetches a store, enforcing the caller's scope.
func (s *StoreService) GetStore(ctx context.Context, actor *domain.User, id string) (*domain.Store, error) {
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if storeID, ok := scope.Filter.StoreID(); ok && storeID != id {
		return nil, apperrors.NewNotFound("store", map[string]any{"store_id": id})
	}

	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("store", map[string]any{"store_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return store, nil
}

// CreateStore registers a new location. Only super_admin may add stores.
func (s *StoreService) CreateStore(ctx context.Context, actor *domain.User, store *domain.Store) (*domain.Store, error) {
	if actor.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbidden("only super_admin may create stores")
	}
	if store.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	store.IsActive = true
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, apperrors.MapError(err)
	}
	return store, nil
}

// UpdateStore modifies a store. super_admin may update any store; a
// store owner may update their own.
func (s *StoreService) UpdateStore(ctx context.Context, actor *domain.User, store *domain.Store) (*domain.Store, error) {
	if actor.Role != domain.RoleSuperAdmin {
		owner := actor.IsStoreOwner && actor.StoreID != nil && *actor.StoreID == store.ID
		if !owner {
			return nil, apperrors.NewForbidden("store update requires super_admin or ownership")
		}
	}
	if store.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	existing, err := s.stores.GetByID(ctx, store.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("store", map[string]any{"store_id": store.ID})
		}
		return nil, apperrors.MapError(err)
	}
	store.OrganizationID = existing.OrganizationID

	if err := s.stores.Update(ctx, store); err != nil {
		return nil, apperrors.MapError(err)
	}
	return store, nil
}
