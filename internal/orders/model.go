package orders

import (
	"errors"
	"time"

	"github.com/wolfman30/whatsapp-order-bot/internal/catalog"
)

var (
	// ErrOrderNotFound is returned when an order is not found
	ErrOrderNotFound = errors.New("order not found")

	// ErrDuplicateOrderNumber is returned when an insert hits the unique
	// order_number constraint. Callers may retry with a fresh number.
	ErrDuplicateOrderNumber = errors.New("duplicate order number")

	// ErrInvalidStatus is returned for a status outside the lifecycle set
	ErrInvalidStatus = errors.New("invalid order status")
)

// Order lifecycle statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// LineItem is a priced (product, quantity) pair. Unit price is copied from
// the catalog at parse time, so later price changes do not affect it.
type LineItem struct {
	ProductID int64         `json:"id"`
	Name      string        `json:"name"`
	UnitPrice catalog.Cents `json:"price_cents"`
	Quantity  int           `json:"quantity"`
	LineTotal catalog.Cents `json:"total_cents"`
}

// Order is a persisted purchase record.
type Order struct {
	ID          string        `json:"id"`
	OrderNumber string        `json:"order_number"`
	CustomerID  string        `json:"customer_id"`
	Status      string        `json:"status"`
	Total       catalog.Cents `json:"total_cents"`
	Items       []LineItem    `json:"items"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Joined customer attributes, populated on reads.
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}

// CreateOrderRequest is the request body for the REST create endpoint.
type CreateOrderRequest struct {
	CustomerID string        `json:"customer_id"`
	Items      []LineItem    `json:"items"`
	Notes      string        `json:"notes"`
	Total      catalog.Cents `json:"total_cents"`
}
