package domain

// ScopeFilter is a set of equality constraints applied to every
// tenant-scoped read query. An empty filter means unrestricted access.
type ScopeFilter map[string]string

// FilterKeyStoreID is the column constrained by store-scoped filters.
const FilterKeyStoreID = "store_id"

// Empty reports whether the filter places no restriction.
func (f ScopeFilter) Empty() bool {
	return len(f) == 0
}

// StoreID returns the store constraint when present.
func (f ScopeFilter) StoreID() (string, bool) {
	v, ok := f[FilterKeyStoreID]
	return v, ok
}

// StoreScope builds a filter restricted to a single store.
func StoreScope(storeID string) ScopeFilter {
	return ScopeFilter{FilterKeyStoreID: storeID}
}

// UserScope is the resolved authorization context for a caller.
type UserScope struct {
	UserID         string
	Role           Role
	StoreID        *string
	OrganizationID *string
	IsStoreOwner   bool
	IsSuperAdmin   bool
	Filter         ScopeFilter
}
