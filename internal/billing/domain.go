// Package billing holds the base invoice vocabulary shared by the
// purchase (ap) and sales (ar) invoice engines.
package billing

import (
	"time"

	"github.com/meridian-dms/meridian/internal/platform/httpx"
)

// InvoiceType discriminates the subtype attached to a base invoice.
type InvoiceType string

const (
	TypePurchase InvoiceType = "purchase"
	TypeSales    InvoiceType = "sales"
)

// InvoiceStatus enumerates base invoice statuses.
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPartial InvoiceStatus = "partial"
	StatusPaid    InvoiceStatus = "paid"
	StatusOverdue InvoiceStatus = "overdue"
)

var ErrInvoiceNotFound = httpx.NotFound("Invoice not found")

// Invoice is the base row shared by purchase and sales invoices.
type Invoice struct {
	ID            int64
	InvoiceNumber string
	InvoiceType   InvoiceType
	OrderID       int64
	InvoiceDate   time.Time
	DueDate       *time.Time
	TotalAmount   float64
	Status        InvoiceStatus
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UpdateInput patches base invoice fields. Nil means "leave unchanged".
type UpdateInput struct {
	DueDate     *time.Time
	TotalAmount *float64
	Notes       *string
	Status      *InvoiceStatus
}

// BaseUpdates converts an UpdateInput into column updates for the
// two-phase invoice patch the subtype engines run.
func BaseUpdates(input UpdateInput) map[string]interface{} {
	updates := map[string]interface{}{}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.TotalAmount != nil {
		updates["total_amount"] = *input.TotalAmount
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	return updates
}
