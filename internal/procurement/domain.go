package procurement

import (
	"time"

	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/orders"
	"github.com/meridian-dms/meridian/internal/platform/httpx"
)

var (
	ErrPurchaseOrderNotFound = httpx.NotFound("Purchase order not found")
	ErrShipmentNotFound      = httpx.NotFound("Shipment not found")
	ErrSupplierRequired      = httpx.Invalid("Supplier is required to create a purchase order")
)

// PurchaseOrder is the 1:1 extension of a base order with type purchase.
type PurchaseOrder struct {
	ID         int64
	OrderID    int64
	SupplierID int64
	DueDate    time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Detail joins the purchase order with its base order and supplier.
type Detail struct {
	PurchaseOrder
	Order    orders.Order
	Supplier masterdata.Supplier
}

// CreateInput carries purchase order creation fields. The base order and
// the subtype row are written in one transaction.
type CreateInput struct {
	SupplierID  int64
	DueDate     time.Time
	OrderNumber string
	OrderDate   time.Time
	TotalAmount float64
	Items       []orders.Item
	Notes       *string
	Status      *orders.Status
}

// UpdateInput patches the base order and the subtype in one transaction.
// Nil means "leave unchanged"; set pointers write, including zero values.
type UpdateInput struct {
	Order      orders.UpdateInput
	SupplierID *int64
	DueDate    *time.Time
}

// Summary aggregates purchase order counts by base order status.
type Summary struct {
	Total     int     `json:"total"`
	Pending   int     `json:"pending"`
	Completed int     `json:"completed"`
	Cancelled int     `json:"cancelled"`
	Amount    float64 `json:"totalAmount"`
}

// ShipmentStatus enumerates shipment statuses.
type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "pending"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
)

// Shipment tracks inbound goods against a purchase order.
type Shipment struct {
	ID                   int64
	ShipmentNumber       string
	PurchaseOrderID      int64
	SupplierID           int64
	ShipmentDate         time.Time
	ExpectedDeliveryDate time.Time
	ActualDeliveryDate   *time.Time
	Carrier              string
	Status               ShipmentStatus
	Notes                *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CreateShipmentInput carries shipment creation fields. SupplierID is
// resolved from the purchase order by the service.
type CreateShipmentInput struct {
	ShipmentNumber       string
	PurchaseOrderID      int64
	SupplierID           int64
	ShipmentDate         time.Time
	ExpectedDeliveryDate time.Time
	Carrier              string
	Notes                *string
}

// UpdateShipmentInput patches a shipment. Nil means "leave unchanged".
type UpdateShipmentInput struct {
	ShipmentDate         *time.Time
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	Carrier              *string
	Status               *ShipmentStatus
	Notes                *string
}
