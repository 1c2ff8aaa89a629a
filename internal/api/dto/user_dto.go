package dto

import "time"

// UserCreateRequest payload for account creation.
type UserCreateRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	StoreID      *string `json:"store_id,omitempty"`
	IsStoreOwner bool    `json:"is_store_owner"`
}

// UserRoleUpdateRequest payload for role changes.
type UserRoleUpdateRequest struct {
	Role string `json:"role"`
}

// PermissionRequest payload for grant/revoke.
type PermissionRequest struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// UserResponse is the wire shape for accounts.
type UserResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	StoreID        *string    `json:"store_id,omitempty"`
	OrganizationID *string    `json:"organization_id,omitempty"`
	IsStoreOwner   bool       `json:"is_store_owner"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	PasswordSetAt  *time.Time `json:"password_changed_at,omitempty"`
}
