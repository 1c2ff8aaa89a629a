package domain

// Role enumerates the closed set of account roles.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleCashier    Role = "cashier"
	RoleSeller     Role = "seller"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleCashier, RoleSeller:
		return true
	}
	return false
}

// IsAdminRole reports whether the role carries full admin rights on its own.
func (r Role) IsAdminRole() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}
