package domain

import "testing"

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleAdmin, RoleManager, RoleCashier, RoleSeller} {
		if !role.Valid() {
			t.Errorf("%s must be valid", role)
		}
	}
	for _, role := range []Role{"", "root", "ADMIN", "owner"} {
		if role.Valid() {
			t.Errorf("%q must be invalid", role)
		}
	}
}

func TestIsAdminRole(t *testing.T) {
	if !RoleSuperAdmin.IsAdminRole() || !RoleAdmin.IsAdminRole() {
		t.Error("super_admin and admin carry admin rights")
	}
	for _, role := range []Role{RoleManager, RoleCashier, RoleSeller} {
		if role.IsAdminRole() {
			t.Errorf("%s must not carry admin rights", role)
		}
	}
}
