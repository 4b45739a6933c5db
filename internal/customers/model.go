package customers

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrMissingPhone is returned when the phone number is empty
	ErrMissingPhone = errors.New("phone number is required")

	// ErrCustomerNotFound is returned when a customer is not found
	ErrCustomerNotFound = errors.New("customer not found")
)

// Customer represents a messaging contact that can place orders.
type Customer struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone_number"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertCustomerRequest is the request body for creating or updating a customer.
type UpsertCustomerRequest struct {
	Phone   string `json:"phone_number"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Validate validates the upsert request.
func (r *UpsertCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Phone) == "" {
		return ErrMissingPhone
	}
	return nil
}
