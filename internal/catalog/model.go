package catalog

import (
	"fmt"
	"time"
)

// Cents is a fixed-point currency amount in US cents.
type Cents int64

// Dollars formats the amount as a plain dollar string, e.g. "33.97".
func (c Cents) Dollars() string {
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}

// Mul returns the amount multiplied by a quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}

// Product is a sellable catalog item.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	UnitPrice     Cents     `json:"price_cents"`
	StockQuantity int       `json:"stock_quantity"`
	SKU           string    `json:"sku"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}
