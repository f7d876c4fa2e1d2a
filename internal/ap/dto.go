package ap

import (
	"time"

	"github.com/meridian-dms/meridian/internal/billing"
	"github.com/meridian-dms/meridian/internal/masterdata"
)

// Response is the wire representation of a purchase invoice with its
// nested base invoice, purchase order and supplier.
type Response struct {
	ID              int64                 `json:"id"`
	InvoiceID       int64                 `json:"invoiceId"`
	PurchaseOrderID int64                 `json:"purchaseOrderId"`
	SupplierID      int64                 `json:"supplierId"`
	PaidAmount      float64               `json:"paidAmount"`
	Balance         float64               `json:"balance"`
	PaidDate        *time.Time            `json:"paidDate"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	Invoice         InvoiceResponse       `json:"invoice"`
	PurchaseOrder   PurchaseOrderResponse `json:"purchaseOrder"`
	Supplier        masterdata.Supplier   `json:"supplier"`
}

// InvoiceResponse is the wire shape of the nested base invoice.
type InvoiceResponse struct {
	ID            int64                 `json:"id"`
	InvoiceNumber string                `json:"invoiceNumber"`
	InvoiceType   billing.InvoiceType   `json:"invoiceType"`
	OrderID       int64                 `json:"orderId"`
	InvoiceDate   time.Time             `json:"invoiceDate"`
	DueDate       *time.Time            `json:"dueDate"`
	TotalAmount   float64               `json:"totalAmount"`
	Status        billing.InvoiceStatus `json:"status"`
	Notes         *string               `json:"notes"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// PurchaseOrderResponse is the wire shape of the nested purchase order.
type PurchaseOrderResponse struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"orderId"`
	SupplierID int64     `json:"supplierId"`
	DueDate    time.Time `json:"dueDate"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateRequest carries the purchase invoice creation body.
type CreateRequest struct {
	PurchaseOrderID int64      `json:"purchaseOrderId" validate:"required"`
	InvoiceNumber   string     `json:"invoiceNumber" validate:"required"`
	InvoiceDate     time.Time  `json:"invoiceDate"`
	DueDate         *time.Time `json:"dueDate"`
	TotalAmount     float64    `json:"totalAmount" validate:"gte=0"`
	Notes           *string    `json:"notes"`
}

// UpdateRequest patches base invoice and subtype fields. Absent fields
// stay unchanged; present fields always write, including zero values.
type UpdateRequest struct {
	DueDate     *time.Time             `json:"dueDate"`
	TotalAmount *float64               `json:"totalAmount" validate:"omitempty,gte=0"`
	Notes       *string                `json:"notes"`
	Status      *billing.InvoiceStatus `json:"status" validate:"omitempty,oneof=pending partial paid overdue"`
	PaidAmount  *float64               `json:"paidAmount" validate:"omitempty,gte=0"`
	Balance     *float64               `json:"balance" validate:"omitempty,gte=0"`
	PaidDate    *time.Time             `json:"paidDate"`
}

// PayRequest carries the payment body for the pay endpoint.
type PayRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// ToResponse maps a purchase invoice detail to its wire shape.
func ToResponse(d *Detail) Response {
	return Response{
		ID:              d.ID,
		InvoiceID:       d.InvoiceID,
		PurchaseOrderID: d.PurchaseOrderID,
		SupplierID:      d.SupplierID,
		PaidAmount:      d.PaidAmount,
		Balance:         d.Balance,
		PaidDate:        d.PaidDate,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Invoice: InvoiceResponse{
			ID:            d.Invoice.ID,
			InvoiceNumber: d.Invoice.InvoiceNumber,
			InvoiceType:   d.Invoice.InvoiceType,
			OrderID:       d.Invoice.OrderID,
			InvoiceDate:   d.Invoice.InvoiceDate,
			DueDate:       d.Invoice.DueDate,
			TotalAmount:   d.Invoice.TotalAmount,
			Status:        d.Invoice.Status,
			Notes:         d.Invoice.Notes,
			CreatedAt:     d.Invoice.CreatedAt,
			UpdatedAt:     d.Invoice.UpdatedAt,
		},
		PurchaseOrder: PurchaseOrderResponse{
			ID:         d.PurchaseOrder.ID,
			OrderID:    d.PurchaseOrder.OrderID,
			SupplierID: d.PurchaseOrder.SupplierID,
			DueDate:    d.PurchaseOrder.DueDate,
			CreatedAt:  d.PurchaseOrder.CreatedAt,
			UpdatedAt:  d.PurchaseOrder.UpdatedAt,
		},
		Supplier: d.Supplier,
	}
}

// ToCreateInput converts the wire body into the domain input.
func (r CreateRequest) ToCreateInput() CreateInput {
	return CreateInput{
		PurchaseOrderID: r.PurchaseOrderID,
		InvoiceNumber:   r.InvoiceNumber,
		InvoiceDate:     r.InvoiceDate,
		DueDate:         r.DueDate,
		TotalAmount:     r.TotalAmount,
		Notes:           r.Notes,
	}
}

// ToUpdateInput converts the wire patch into the domain patch.
func (r UpdateRequest) ToUpdateInput() UpdateInput {
	return UpdateInput{
		Invoice: billing.UpdateInput{
			DueDate:     r.DueDate,
			TotalAmount: r.TotalAmount,
			Notes:       r.Notes,
			Status:      r.Status,
		},
		PaidAmount: r.PaidAmount,
		Balance:    r.Balance,
		PaidDate:   r.PaidDate,
	}
}
