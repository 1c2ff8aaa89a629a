package domain

import "time"

// Store models a single retail or restaurant location.
type Store struct {
	ID             string
	OrganizationID *string
	Name           string
	Address        string
	Phone          string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
