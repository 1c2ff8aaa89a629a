package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for store and organization accounts.
// A profile always has a role; StoreID/OrganizationID may be absent
// only for super_admin accounts.
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	Role              Role
	StoreID           *string
	OrganizationID    *string
	IsStoreOwner      bool
	Status            UserStatus
	ResetToken        *string
	ResetTokenExpires *time.Time
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool {
	return u.Status == UserStatusActive
}
