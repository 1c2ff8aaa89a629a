package auth

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/domain"
)

type fakeProfileStore struct {
	users map[string]*domain.User
	err   error
}

func (s *fakeProfileStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

type fakePolicyStore struct {
	grants map[string]map[string]bool
	err    error
	calls  []string
}

func (s *fakePolicyStore) HasPermission(_ context.Context, userID, key string) (bool, error) {
	s.calls = append(s.calls, userID+":"+key)
	if s.err != nil {
		return false, s.err
	}
	return s.grants[userID][key], nil
}

func strPtr(v string) *string { return &v }

func testUser(id string, role domain.Role) *domain.User {
	return &domain.User{
		ID:     id,
		Name:   "Test User",
		Email:  id + "@example.com",
		Role:   role,
		Status: domain.UserStatusActive,
	}
}

func TestCheckAdminPermissions(t *testing.T) {
	ctx := context.Background()

	owner := testUser("owner-1", domain.RoleManager)
	owner.IsStoreOwner = true
	owner.StoreID = strPtr("store-1")

	ownerNoStore := testUser("owner-2", domain.RoleManager)
	ownerNoStore.IsStoreOwner = true

	profiles := &fakeProfileStore{users: map[string]*domain.User{
		"super-1":  testUser("super-1", domain.RoleSuperAdmin),
		"admin-1":  testUser("admin-1", domain.RoleAdmin),
		"cashier-1": testUser("cashier-1", domain.RoleCashier),
		"owner-1":  owner,
		"owner-2":  ownerNoStore,
	}}

	t.Run("super_admin granted", func(t *testing.T) {
		ac := NewAccessControl(profiles, &fakePolicyStore{}, nil, zap.NewNop())
		if !ac.CheckAdminPermissions(ctx, "super-1") {
			t.Fatal("super_admin must pass the admin check")
		}
	})

	t.Run("admin granted", func(t *testing.T) {
		ac := NewAccessControl(profiles, &fakePolicyStore{}, nil, zap.NewNop())
		if !ac.CheckAdminPermissions(ctx, "admin-1") {
			t.Fatal("admin must pass the admin check")
		}
	})

	t.Run("store owner with store granted", func(t *testing.T) {
		ac := NewAccessControl(profiles, &fakePolicyStore{}, nil, zap.NewNop())
		if !ac.CheckAdminPermissions(ctx, "owner-1") {
			t.Fatal("store owner with a store must pass the admin check")
		}
	})

	t.Run("store owner without store denied", func(t *testing.T) {
		ac := NewAccessControl(profiles, &fakePolicyStore{}, nil, zap.NewNop())
		if ac.CheckAdminPermissions(ctx, "owner-2") {
			t.Fatal("store owner without a store must not pass on ownership alone")
		}
	})

	t.Run("profile lookup failure denies", func(t *testing.T) {
		broken := &fakeProfileStore{err: errors.New("db down")}
		oracle := OracleFunc(func(context.Context, string) (Decision, error) {
			t.Fatal("oracle must not run when the profile lookup fails")
			return DecisionAllow, nil
		})
		ac := NewAccessControl(broken, &fakePolicyStore{}, oracle, zap.NewNop())
		if ac.CheckAdminPermissions(ctx, "admin-1") {
			t.Fatal("lookup failure must deny")
		}
	})

	t.Run("role checks short-circuit before oracle", func(t *testing.T) {
		called := false
		oracle := OracleFunc(func(context.Context, string) (Decision, error) {
			called = true
			return DecisionDeny, nil
		})
		ac := NewAccessControl(profiles, &fakePolicyStore{}, oracle, zap.NewNop())
		if !ac.CheckAdminPermissions(ctx, "admin-1") {
			t.Fatal("admin must pass")
		}
		if called {
			t.Fatal("oracle must not be consulted for role-granted callers")
		}
	})

	t.Run("oracle allow grants", func(t *testing.T) {
		oracle := OracleFunc(func(context.Context, string) (Decision, error) {
			return DecisionAllow, nil
		})
		ac := NewAccessControl(profiles, &fakePolicyStore{}, oracle, zap.NewNop())
		if !ac.CheckAdminPermissions(ctx, "cashier-1") {
			t.Fatal("oracle allow must grant")
		}
	})

	t.Run("oracle deny denies", func(t *testing.T) {
		oracle := OracleFunc(func(context.Context, string) (Decision, error) {
			return DecisionDeny, nil
		})
		ac := NewAccessControl(profiles, &fakePolicyStore{}, oracle, zap.NewNop())
		if ac.CheckAdminPermissions(ctx, "cashier-1") {
			t.Fatal("oracle deny must deny")
		}
	})

	t.Run("oracle unknown denies", func(t *testing.T) {
		oracle := OracleFunc(func(context.Context, string) (Decision, error) {
			return DecisionUnknown, nil
		})
		ac := NewAccessControl(profiles, &fakePolicyStore{}, oracle, zap.NewNop())
		if ac.CheckAdminPermissions(ctx, "cashier-1") {
			t.Fatal("oracle unknown must deny")
		}
	})

	t.Run("oracle error denies without failing", func(t *testing.T) {
		oracle := OracleFunc(func(context.Context, string) (Decision, error) {
			return DecisionUnknown, errors.New("rules engine timeout")
		})
		ac := NewAccessControl(profiles, &fakePolicyStore{}, oracle, zap.NewNop())
		if ac.CheckAdminPermissions(ctx, "cashier-1") {
			t.Fatal("oracle error must deny")
		}
	})

	t.Run("nil oracle denies non-admins", func(t *testing.T) {
		ac := NewAccessControl(profiles, &fakePolicyStore{}, nil, zap.NewNop())
		if ac.CheckAdminPermissions(ctx, "cashier-1") {
			t.Fatal("cashier must be denied without an oracle grant")
		}
	})
}

func TestCheckPermission(t *testing.T) {
	ctx := context.Background()

	profiles := &fakeProfileStore{users: map[string]*domain.User{
		"admin-1":   testUser("admin-1", domain.RoleAdmin),
		"cashier-1": testUser("cashier-1", domain.RoleCashier),
	}}

	t.Run("admin bypasses policy lookup", func(t *testing.T) {
		policies := &fakePolicyStore{}
		ac := NewAccessControl(profiles, policies, nil, zap.NewNop())
		if !ac.CheckPermission(ctx, "admin-1", "products", "create") {
			t.Fatal("admin must bypass the policy lookup")
		}
		if len(policies.calls) != 0 {
			t.Fatalf("policy store consulted %d times, want 0", len(policies.calls))
		}
	})

	t.Run("granted key allows", func(t *testing.T) {
		policies := &fakePolicyStore{grants: map[string]map[string]bool{
			"cashier-1": {"orders.create": true},
		}}
		ac := NewAccessControl(profiles, policies, nil, zap.NewNop())
		if !ac.CheckPermission(ctx, "cashier-1", "orders", "create") {
			t.Fatal("granted permission must allow")
		}
		if want := "cashier-1:orders.create"; policies.calls[0] != want {
			t.Fatalf("looked up %q, want %q", policies.calls[0], want)
		}
	})

	t.Run("absent key denies", func(t *testing.T) {
		policies := &fakePolicyStore{}
		ac := NewAccessControl(profiles, policies, nil, zap.NewNop())
		if ac.CheckPermission(ctx, "cashier-1", "users", "delete") {
			t.Fatal("absent permission must deny")
		}
	})

	t.Run("lookup error denies", func(t *testing.T) {
		policies := &fakePolicyStore{err: errors.New("db down")}
		ac := NewAccessControl(profiles, policies, nil, zap.NewNop())
		if ac.CheckPermission(ctx, "cashier-1", "orders", "create") {
			t.Fatal("lookup error must deny")
		}
	})
}

func TestGetUserScope(t *testing.T) {
	ctx := context.Background()

	scoped := testUser("manager-1", domain.RoleManager)
	scoped.StoreID = strPtr("store-9")

	storeless := testUser("admin-2", domain.RoleAdmin)

	profiles := &fakeProfileStore{users: map[string]*domain.User{
		"super-1":   testUser("super-1", domain.RoleSuperAdmin),
		"manager-1": scoped,
		"admin-2":   storeless,
	}}
	ac := NewAccessControl(profiles, &fakePolicyStore{}, nil, zap.NewNop())

	t.Run("super_admin gets empty filter", func(t *testing.T) {
		scope, err := ac.GetUserScope(ctx, "super-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !scope.IsSuperAdmin {
			t.Error("expected IsSuperAdmin")
		}
		if !scope.Filter.Empty() {
			t.Errorf("expected empty filter, got %v", scope.Filter)
		}
	})

	t.Run("store-assigned user gets store filter", func(t *testing.T) {
		scope, err := ac.GetUserScope(ctx, "manager-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		storeID, ok := scope.Filter.StoreID()
		if !ok || storeID != "store-9" {
			t.Fatalf("expected store-9 filter, got %v", scope.Filter)
		}
	})

	t.Run("store-less non-super-admin falls back to empty filter", func(t *testing.T) {
		scope, err := ac.GetUserScope(ctx, "admin-2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !scope.Filter.Empty() {
			t.Errorf("expected unrestricted fallback filter, got %v", scope.Filter)
		}
		if scope.IsSuperAdmin {
			t.Error("admin must not be marked super admin")
		}
	})

	t.Run("unknown user surfaces not found", func(t *testing.T) {
		if _, err := ac.GetUserScope(ctx, "ghost"); err == nil {
			t.Fatal("expected error for unknown profile")
		}
	})
}
