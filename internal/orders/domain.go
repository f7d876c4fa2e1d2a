package orders

import (
	"time"

	"github.com/meridian-dms/meridian/internal/platform/httpx"
)

// OrderType discriminates the subtype attached to a base order.
type OrderType string

const (
	TypePurchase OrderType = "purchase"
	TypeSales    OrderType = "sales"
	TypeRetail   OrderType = "retail"
)

// Status enumerates base order statuses.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusDelivered  Status = "delivered"
)

var ErrOrderNotFound = httpx.NotFound("Order not found")

// Item is a line on an order. Price is optional for legacy rows.
type Item struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Price    *float64 `json:"price,omitempty"`
}

// Order is the base row shared by purchase, sales and retail orders.
// OrderType is immutable after creation.
type Order struct {
	ID          int64
	OrderNumber string
	OrderType   OrderType
	OrderDate   time.Time
	Status      Status
	TotalAmount float64
	Items       []Item
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateInput patches a base order. Nil means "leave unchanged";
// a set pointer always writes, including zero values.
type UpdateInput struct {
	OrderNumber *string
	OrderDate   *time.Time
	Status      *Status
	TotalAmount *float64
	Items       *[]Item
	Notes       *string
}

// ListRequest filters the order listing.
type ListRequest struct {
	Type   OrderType
	Status Status
	Limit  int
	Offset int
}

// Summary aggregates order counts for the dashboard endpoints.
type Summary struct {
	Total       int            `json:"total"`
	ByType      map[string]int `json:"byType"`
	ByStatus    map[string]int `json:"byStatus"`
	TotalAmount float64        `json:"totalAmount"`
}
