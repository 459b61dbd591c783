// Package shop is orchestrator test data.
package shop

import "github.com/griffnb/core-jsonschema/internal/orchestrator/testdata/shop/billing"

// Status of an order.
type Status string

const (
	Pending Status = "pending"
	Shipped Status = "shipped"
)

// Item is a line of an order.
type Item struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity"`
}

// Order is a customer order.
type Order struct {
	ID       string          `json:"id" validate:"required"`
	Status   Status          `json:"status"`
	Items    []Item          `json:"items"`
	Payment  billing.Payment `json:"payment"`
	Category *Category       `json:"category,omitempty"`
}

// Category nests itself.
type Category struct {
	Name   string    `json:"name"`
	Parent *Category `json:"parent,omitempty"`
}
