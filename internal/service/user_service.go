package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/config"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/repository"
	apperrors "github.com/spec-kit/store-service/pkg/util"
)

// UserService handles admin user management.
type UserService struct {
	users       repository.UserRepository
	permissions repository.PermissionRepository
	access      *auth.AccessControl
	bcryptCost  int
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, users repository.UserRepository, permissions repository.PermissionRepository, access *auth.AccessControl) *UserService {
	return &UserService{
		users:       users,
		permissions: permissions,
		access:      access,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// CreateUserParams are the inputs for account creation.
type CreateUserParams struct {
	Name         string
	Email        string
	Password     string
	Role         domain.Role
	StoreID      *string
	IsStoreOwner bool
}

// ListUsers returns accounts visible within the caller's scope.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.User, error) {
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	users, err := s.users.List(ctx, scope.Filter, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// GetUser fetches an account, enforcing the caller's scope.
func (s *UserService) GetUser(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	scope, err := s.access.GetUserScope(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if storeID, ok := scope.Filter.StoreID(); ok {
		if user.StoreID == nil || *user.StoreID != storeID {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
	}
	return user, nil
}

// CreateUser creates an account. Requires the users.create permission;
// non-super-admin callers can only create accounts in their own store
// and can never mint super_admin accounts.
func (s *UserService) CreateUser(ctx context.Context, actor *domain.User, params CreateUserParams) (*domain.User, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "users", "create") {
		return nil, apperrors.NewForbidden("users.create required")
	}
	if !params.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": params.Role})
	}
	if params.Role == domain.RoleSuperAdmin && actor.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbidden("only super admins can create super admins")
	}
	if actor.Role != domain.RoleSuperAdmin {
		params.StoreID = actor.StoreID
	}

	if _, err := s.users.GetByEmail(ctx, params.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": params.Email})
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(params.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         params.Role,
		StoreID:      params.StoreID,
		IsStoreOwner: params.IsStoreOwner,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateUserRole changes a target's role. Requires users.update; role
// escalation to super_admin is reserved for super admins, and non-super
// admins stay inside their own store.
func (s *UserService) UpdateUserRole(ctx context.Context, actor *domain.User, targetID string, role domain.Role) (*domain.User, error) {
	if !s.access.CheckPermission(ctx, actor.ID, "users", "update") {
		return nil, apperrors.NewForbidden("users.update required")
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	if role == domain.RoleSuperAdmin && actor.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbidden("only super admins can grant super_admin")
	}

	target, err := s.GetUser(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}
	target.Role = role
	if err := s.users.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

// DeactivateUser suspends an account within the caller's scope.
func (s *UserService) DeactivateUser(ctx context.Context, actor *domain.User, targetID string) error {
	if !s.access.CheckPermission(ctx, actor.ID, "users", "delete") {
		return apperrors.NewForbidden("users.delete required")
	}
	target, err := s.GetUser(ctx, actor, targetID)
	if err != nil {
		return err
	}
	target.Status = domain.UserStatusSuspended
	if err := s.users.Update(ctx, target); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// GrantPermission grants a fine-grained permission key to a user.
func (s *UserService) GrantPermission(ctx context.Context, actor *domain.User, targetID, resource, action string) error {
	if !s.access.CheckAdminPermissions(ctx, actor.ID) {
		return apperrors.NewForbidden("admin rights required")
	}
	if _, err := s.GetUser(ctx, actor, targetID); err != nil {
		return err
	}
	if err := s.permissions.Grant(ctx, targetID, resource+"."+action); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// RevokePermission removes a fine-grained permission key from a user.
func (s *UserService) RevokePermission(ctx context.Context, actor *domain.User, targetID, resource, action string) error {
	if !s.access.CheckAdminPermissions(ctx, actor.ID) {
		return apperrors.NewForbidden("admin rights required")
	}
	if _, err := s.GetUser(ctx, actor, targetID); err != nil {
		return err
	}
	if err := s.permissions.Revoke(ctx, targetID, resource+"."+action); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
