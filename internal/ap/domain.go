// Package ap implements the purchase (accounts payable) side of the
// invoice lifecycle: deriving purchase invoices from purchase orders
// and applying payments against them.
package ap

import (
	"time"

	"github.com/meridian-dms/meridian/internal/billing"
	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/platform/httpx"
	"github.com/meridian-dms/meridian/internal/procurement"
)

var (
	ErrInvoiceNotFound = httpx.NotFound("Purchase invoice not found")
	ErrInvalidAmount   = httpx.Invalid("Payment amount must be a positive number")
)

// PurchaseInvoice is the 1:1 extension of a base invoice with type purchase.
// Balance is derived: max(0, totalAmount - paidAmount).
type PurchaseInvoice struct {
	ID              int64
	InvoiceID       int64
	PurchaseOrderID int64
	SupplierID      int64
	PaidAmount      float64
	Balance         float64
	PaidDate        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Detail joins the purchase invoice with its base invoice, purchase
// order and supplier, the shape the consumers expect.
type Detail struct {
	PurchaseInvoice
	Invoice       billing.Invoice
	PurchaseOrder procurement.PurchaseOrder
	Supplier      masterdata.Supplier
}

// CreateInput carries purchase invoice creation fields. The base
// invoice and the subtype row are written in one transaction.
type CreateInput struct {
	PurchaseOrderID int64
	InvoiceNumber   string
	InvoiceDate     time.Time
	DueDate         *time.Time
	TotalAmount     float64
	Notes           *string
}

// UpdateInput patches the base invoice and the subtype in one
// transaction. Nil means "leave unchanged".
type UpdateInput struct {
	Invoice    billing.UpdateInput
	PaidAmount *float64
	Balance    *float64
	PaidDate   *time.Time
}

// PayRow is the locked state a payment computation starts from.
type PayRow struct {
	SubtypeID   int64
	InvoiceID   int64
	PaidAmount  float64
	TotalAmount float64
}
