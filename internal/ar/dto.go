package ar

import (
	"time"

	"github.com/meridian-dms/meridian/internal/billing"
	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/orders"
)

// Response is the wire representation of a sales invoice with its
// nested base invoice, sales order and customer.
type Response struct {
	ID              int64               `json:"id"`
	InvoiceID       int64               `json:"invoiceId"`
	SalesOrderID    int64               `json:"salesOrderId"`
	CustomerID      int64               `json:"customerId"`
	DeliveryID      *int64              `json:"deliveryId"`
	PaymentMethod   *string             `json:"paymentMethod"`
	Items           []orders.Item       `json:"items"`
	Subtotal        float64             `json:"subtotal"`
	CollectedAmount float64             `json:"collectedAmount"`
	CollectedAt     *time.Time          `json:"collectedAt"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	Invoice         InvoiceResponse     `json:"invoice"`
	SalesOrder      SalesOrderResponse  `json:"salesOrder"`
	Customer        masterdata.Customer `json:"customer"`
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

// SalesOrderResponse is the wire shape of the nested sales order.
type SalesOrderResponse struct {
	ID            int64  `json:"id"`
	OrderID       int64  `json:"orderId"`
	CustomerID    int64  `json:"customerId"`
	DriverID      *int64 `json:"driverId"`
	DeliveryID    *int64 `json:"deliveryId"`
	PaymentStatus string `json:"paymentStatus"`
}

// CreateRequest carries the sales invoice creation body.
type CreateRequest struct {
	SalesOrderID  int64         `json:"salesOrderId"`
	InvoiceNumber string        `json:"invoiceNumber" validate:"required"`
	InvoiceDate   time.Time     `json:"invoiceDate"`
	DueDate       *time.Time    `json:"dueDate"`
	TotalAmount   float64       `json:"totalAmount" validate:"gte=0"`
	PaymentMethod *string       `json:"paymentMethod"`
	Items         []orders.Item `json:"items"`
	Subtotal      float64       `json:"subtotal" validate:"gte=0"`
	Notes         *string       `json:"notes"`
}

// UpdateRequest patches base invoice and subtype fields. Absent fields
// stay unchanged; present fields always write, including zero values.
type UpdateRequest struct {
	DueDate         *time.Time             `json:"dueDate"`
	TotalAmount     *float64               `json:"totalAmount" validate:"omitempty,gte=0"`
	Notes           *string                `json:"notes"`
	Status          *billing.InvoiceStatus `json:"status" validate:"omitempty,oneof=pending partial paid overdue"`
	DeliveryID      *int64                 `json:"deliveryId"`
	PaymentMethod   *string                `json:"paymentMethod"`
	CollectedAmount *float64               `json:"collectedAmount" validate:"omitempty,gte=0"`
	CollectedAt     *time.Time             `json:"collectedAt"`
}

// CollectRequest carries the collection body for the collect endpoint.
type CollectRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod *string `json:"paymentMethod"`
}

// ToResponse maps a sales invoice detail to its wire shape.
func ToResponse(d *Detail) Response {
	items := d.Items
	if items == nil {
		items = []orders.Item{}
	}
	return Response{
		ID:              d.ID,
		InvoiceID:       d.InvoiceID,
		SalesOrderID:    d.SalesOrderID,
		CustomerID:      d.CustomerID,
		DeliveryID:      d.DeliveryID,
		PaymentMethod:   d.PaymentMethod,
		Items:           items,
		Subtotal:        d.Subtotal,
		CollectedAmount: d.CollectedAmount,
		CollectedAt:     d.CollectedAt,
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
		SalesOrder: SalesOrderResponse{
			ID:            d.SalesOrder.ID,
			OrderID:       d.SalesOrder.OrderID,
			CustomerID:    d.SalesOrder.CustomerID,
			DriverID:      d.SalesOrder.DriverID,
			DeliveryID:    d.SalesOrder.DeliveryID,
			PaymentStatus: string(d.SalesOrder.PaymentStatus),
		},
		Customer: d.Customer,
	}
}

// ToCreateInput converts the wire body into the domain input.
func (r CreateRequest) ToCreateInput() CreateInput {
	return CreateInput{
		SalesOrderID:  r.SalesOrderID,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		DueDate:       r.DueDate,
		TotalAmount:   r.TotalAmount,
		PaymentMethod: r.PaymentMethod,
		Items:         r.Items,
		Subtotal:      r.Subtotal,
		Notes:         r.Notes,
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
		DeliveryID:      r.DeliveryID,
		PaymentMethod:   r.PaymentMethod,
		CollectedAmount: r.CollectedAmount,
		CollectedAt:     r.CollectedAt,
	}
}
