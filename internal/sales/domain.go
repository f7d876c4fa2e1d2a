package sales

import (
	"time"

	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/orders"
	"github.com/meridian-dms/meridian/internal/platform/httpx"
)

var (
	ErrSalesOrderNotFound = httpx.NotFound("Sales order not found")
	ErrPaymentNotFound    = httpx.NotFound("Payment not found")
	ErrDriverNotFound     = httpx.NotFound("Driver not found")

	// Payments through this path record a single full settlement, so the
	// amount must match the order total exactly.
	ErrAmountMismatch     = httpx.Invalid("Payment amount must equal the order total amount")
	ErrSalesOrderRequired = httpx.Invalid("Sales order not found")
	ErrCustomerRequired   = httpx.Invalid("Customer is required to create a sales order")
)

// PaymentStatus enumerates sales order payment statuses.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

// SalesOrder is the 1:1 extension of a base order with type sales.
type SalesOrder struct {
	ID            int64
	OrderID       int64
	CustomerID    int64
	DriverID      *int64
	DeliveryID    *int64
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Detail joins the sales order with its base order and customer.
type Detail struct {
	SalesOrder
	Order    orders.Order
	Customer masterdata.Customer
}

// Payment records a single full settlement against a sales order.
// It is append-only; only its status changes after creation.
type Payment struct {
	ID           int64
	Reference    string
	SalesOrderID int64
	Amount       float64
	Status       string
	CreatedAt    time.Time
}

// PaymentDetail joins the payment with its sales order context.
type PaymentDetail struct {
	Payment
	SalesOrder Detail
}

// CreateInput carries sales order creation fields.
type CreateInput struct {
	CustomerID  int64
	DriverID    *int64
	OrderNumber string
	OrderDate   time.Time
	TotalAmount float64
	Items       []orders.Item
	Notes       *string
	Status      *orders.Status
}

// UpdateInput patches the base order and the subtype in one transaction.
type UpdateInput struct {
	Order         orders.UpdateInput
	CustomerID    *int64
	DriverID      *int64
	PaymentStatus *PaymentStatus
}
