package domain

import "time"

type Customer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	EwityName      *string   `json:"ewity_name"`
	QuickbooksName *string   `json:"quickbooks_name"`
	ContactNumber  *string   `json:"contact_number"`
	Email          *string   `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewCustomer is the insert shape; ID and CreatedAt are assigned by the store when nil.
type NewCustomer struct {
	ID             *string    `json:"id,omitempty" validate:"omitempty,uuid"`
	Name           string     `json:"name" validate:"required,max=255"`
	EwityName      *string    `json:"ewity_name,omitempty" validate:"omitempty,max=255"`
	QuickbooksName *string    `json:"quickbooks_name,omitempty" validate:"omitempty,max=255"`
	ContactNumber  *string    `json:"contact_number,omitempty" validate:"omitempty,max=64"`
	Email          *string    `json:"email,omitempty" validate:"omitempty,email"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}
