package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/domain"
)

// Decision is the tri-state answer of a PolicyOracle.
type Decision int

const (
	DecisionUnknown Decision = iota
	DecisionAllow
	DecisionDeny
)

// PolicyOracle answers business-rule derived admin checks, typically
// backed by a database-computed flag. Unknown (or an error) is folded
// to a denial by the caller, keeping the evaluation fail-closed.
type PolicyOracle interface {
	IsAdmin(ctx context.Context, userID string) (Decision, error)
}

// OracleFunc adapts a function to the PolicyOracle interface.
type OracleFunc func(ctx context.Context, userID string) (Decision, error)

// IsAdmin implements PolicyOracle.
func (f OracleFunc) IsAdmin(ctx context.Context, userID string) (Decision, error) {
	return f(ctx, userID)
}

// ProfileStore resolves a caller's profile.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// PolicyStore answers fine-grained permission lookups keyed by
// "<resource>.<action>".
type PolicyStore interface {
	HasPermission(ctx context.Context, userID, key string) (bool, error)
}

// AccessControl evaluates role and permission checks for a caller.
type AccessControl struct {
	profiles ProfileStore
	policies PolicyStore
	oracle   PolicyOracle
	logger   *zap.Logger
}

// NewAccessControl constructs the evaluator. The oracle may be nil, in
// which case the business-rule fallback never grants access.
func NewAccessControl(profiles ProfileStore, policies PolicyStore, oracle PolicyOracle, logger *zap.Logger) *AccessControl {
	return &AccessControl{profiles: profiles, policies: policies, oracle: oracle, logger: logger}
}

// CheckAdminPermissions reports whether the user holds admin rights.
// Checks short-circuit in order of cost: role, store ownership, then the
// business-rule oracle. Any lookup failure is treated as a denial.
func (a *AccessControl) CheckAdminPermissions(ctx context.Context, userID string) bool {
	profile, err := a.profiles.GetByID(ctx, userID)
	if err != nil {
		a.logger.Debug("admin check profile lookup failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}

	if profile.Role == domain.RoleSuperAdmin {
		return true
	}
	if profile.Role == domain.RoleAdmin {
		return true
	}
	if profile.IsStoreOwner && profile.StoreID != nil {
		return true
	}

	if a.oracle != nil {
		decision, err := a.oracle.IsAdmin(ctx, userID)
		if err != nil {
			// oracle failure must not fail the whole check
			a.logger.Debug("policy oracle error", zap.String("user_id", userID), zap.Error(err))
			decision = DecisionUnknown
		}
		if decision == DecisionAllow {
			return true
		}
	}

	return false
}

// CheckPermission reports whether the user may perform action on resource.
// Admins bypass fine-grained checks; the profile is already resolved and
// the policy store is a second round trip, so the bypass runs first.
// Policy lookup errors and absent keys deny.
func (a *AccessControl) CheckPermission(ctx context.Context, userID, resource, action string) bool {
	if a.CheckAdminPermissions(ctx, userID) {
		return true
	}

	key := resource + "." + action
	allowed, err := a.policies.HasPermission(ctx, userID, key)
	if err != nil {
		a.logger.Debug("permission lookup failed",
			zap.String("user_id", userID), zap.String("key", key), zap.Error(err))
		return false
	}
	return allowed
}
