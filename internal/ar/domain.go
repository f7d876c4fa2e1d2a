// Package ar implements the sales (accounts receivable) side of the
// invoice lifecycle: deriving sales invoices from sales orders and
// collecting payments against them.
package ar

import (
	"time"

	"github.com/meridian-dms/meridian/internal/billing"
	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/orders"
	"github.com/meridian-dms/meridian/internal/platform/httpx"
	"github.com/meridian-dms/meridian/internal/sales"
)

var (
	ErrInvoiceNotFound = httpx.NotFound("Sales invoice not found")
	ErrInvalidAmount   = httpx.Invalid("Collection amount must be a positive number")

	// ErrSalesOrderRequired is a validation error, not a not-found error:
	// the caller may have omitted the sales order id entirely.
	ErrSalesOrderRequired = httpx.Invalid("Sales order is required to create a sales invoice")
)

// SalesInvoice is the 1:1 extension of a base invoice with type sales.
type SalesInvoice struct {
	ID              int64
	InvoiceID       int64
	SalesOrderID    int64
	CustomerID      int64
	DeliveryID      *int64
	PaymentMethod   *string
	Items           []orders.Item
	Subtotal        float64
	CollectedAmount float64
	CollectedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Detail joins the sales invoice with its base invoice, sales order
// and customer.
type Detail struct {
	SalesInvoice
	Invoice    billing.Invoice
	SalesOrder sales.SalesOrder
	Customer   masterdata.Customer
}

// CreateInput carries sales invoice creation fields.
type CreateInput struct {
	SalesOrderID  int64
	InvoiceNumber string
	InvoiceDate   time.Time
	DueDate       *time.Time
	TotalAmount   float64
	PaymentMethod *string
	Items         []orders.Item
	Subtotal      float64
	Notes         *string
}

// UpdateInput patches the base invoice and the subtype in one
// transaction. Nil means "leave unchanged".
type UpdateInput struct {
	Invoice         billing.UpdateInput
	DeliveryID      *int64
	PaymentMethod   *string
	CollectedAmount *float64
	CollectedAt     *time.Time
}

// CollectRow is the locked state a collection computation starts from.
type CollectRow struct {
	SubtypeID       int64
	InvoiceID       int64
	CollectedAmount float64
	TotalAmount     float64
}
