package auth

import (
	"context"

	"github.com/spec-kit/store-service/internal/domain"
	apperrors "github.com/spec-kit/store-service/pkg/util"
)

// allowUnscopedWithoutStore preserves the observed behavior where a
// non-super-admin profile without a store assignment receives an
// unrestricted filter instead of being denied. Known issue: this
// broadens access for store-less accounts; kept until the intended
// behavior is confirmed.
const allowUnscopedWithoutStore = true

// GetUserScope resolves the caller's role and derives the data-access
// filter applied to tenant-scoped queries. A failed profile lookup is
// surfaced to the caller, not swallowed.
func (a *AccessControl) GetUserScope(ctx context.Context, userID string) (*domain.UserScope, error) {
	profile, err := a.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewNotFound("profile", map[string]any{"user_id": userID})
	}

	scope := &domain.UserScope{
		UserID:         profile.ID,
		Role:           profile.Role,
		StoreID:        profile.StoreID,
		OrganizationID: profile.OrganizationID,
		IsStoreOwner:   profile.IsStoreOwner,
		IsSuperAdmin:   profile.Role == domain.RoleSuperAdmin,
		Filter:         domain.ScopeFilter{},
	}

	if scope.IsSuperAdmin {
		return scope, nil
	}
	if profile.StoreID != nil {
		scope.Filter = domain.StoreScope(*profile.StoreID)
		return scope, nil
	}
	if allowUnscopedWithoutStore {
		return scope, nil
	}
	return nil, apperrors.NewForbidden("no store assignment")
}
