// Package retail implements carts and the retail orders derived from
// them. A retail order snapshots a cart's items and total at creation
// and completes immediately; there is no fulfilment pipeline behind it.
package retail

import (
	"time"

	"github.com/meridian-dms/meridian/internal/orders"
	"github.com/meridian-dms/meridian/internal/platform/httpx"
)

var (
	ErrCartNotFound        = httpx.NotFound("Cart not found")
	ErrRetailOrderNotFound = httpx.NotFound("Retail order not found")
)

// CartStatus enumerates cart statuses.
type CartStatus string

const (
	CartOpen      CartStatus = "open"
	CartCompleted CartStatus = "completed"
)

// Cart accumulates items until a retail order consumes it.
type Cart struct {
	ID          int64
	Items       []orders.Item
	TotalAmount float64
	Status      CartStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RetailOrder is the 1:1 extension of a base order with type retail.
type RetailOrder struct {
	ID        int64
	OrderID   int64
	CartID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail joins the retail order with its base order and cart.
type Detail struct {
	RetailOrder
	Order orders.Order
	Cart  Cart
}

// CartInput carries cart create/update fields.
type CartInput struct {
	Items       []orders.Item
	TotalAmount float64
}

// CreateInput carries retail order creation fields. Total and items
// are derived from the cart, never supplied by the caller.
type CreateInput struct {
	CartID      int64
	OrderNumber string
	Notes       *string
}

// UpdateInput patches the base order. The subtype row has no mutable
// fields of its own.
type UpdateInput struct {
	Status *orders.Status
	Notes  *string
}
