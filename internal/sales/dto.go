package sales

import (
	"time"

	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/orders"
)

// Response is the wire representation of a sales order with its nested
// base order and customer.
type Response struct {
	ID            int64                `json:"id"`
	OrderID       int64                `json:"orderId"`
	CustomerID    int64                `json:"customerId"`
	DriverID      *int64               `json:"driverId"`
	DeliveryID    *int64               `json:"deliveryId"`
	PaymentStatus PaymentStatus        `json:"paymentStatus"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Order         orders.OrderResponse `json:"order"`
	Customer      masterdata.Customer  `json:"customer"`
}

// PaymentResponse nests the sales order the payment settles.
type PaymentResponse struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	SalesOrderID int64     `json:"salesOrderId"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	SalesOrder   Response  `json:"salesOrder"`
}

// CreateRequest carries the sales order creation body.
type CreateRequest struct {
	CustomerID  int64          `json:"customerId" validate:"required"`
	DriverID    *int64         `json:"driverId"`
	OrderNumber string         `json:"orderNumber"`
	OrderDate   time.Time      `json:"orderDate"`
	TotalAmount float64        `json:"totalAmount" validate:"gte=0"`
	Items       []orders.Item  `json:"items"`
	Notes       *string        `json:"notes"`
	Status      *orders.Status `json:"status" validate:"omitempty,oneof=pending processing completed cancelled delivered"`
}

// UpdateRequest patches base order and subtype fields.
type UpdateRequest struct {
	OrderNumber   *string        `json:"orderNumber"`
	OrderDate     *time.Time     `json:"orderDate"`
	Status        *orders.Status `json:"status" validate:"omitempty,oneof=pending processing completed cancelled delivered"`
	TotalAmount   *float64       `json:"totalAmount" validate:"omitempty,gte=0"`
	Items         *[]orders.Item `json:"items"`
	Notes         *string        `json:"notes"`
	CustomerID    *int64         `json:"customerId"`
	DriverID      *int64         `json:"driverId"`
	PaymentStatus *PaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=unpaid paid pending"`
}

// AssignDriverRequest carries the driver assignment body.
type AssignDriverRequest struct {
	DriverID int64 `json:"driverId" validate:"required"`
}

// CreatePaymentRequest carries the payment creation body.
type CreatePaymentRequest struct {
	SalesOrderID int64   `json:"salesOrderId" validate:"required"`
	Amount       float64 `json:"amount" validate:"required"`
}

// UpdatePaymentRequest carries the payment status update body.
type UpdatePaymentRequest struct {
	Status string `json:"status" validate:"required"`
}

// ToResponse maps a sales order detail to its wire shape.
func ToResponse(d *Detail) Response {
	return Response{
		ID:            d.ID,
		OrderID:       d.OrderID,
		CustomerID:    d.CustomerID,
		DriverID:      d.DriverID,
		DeliveryID:    d.DeliveryID,
		PaymentStatus: d.PaymentStatus,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Order:         orders.ToOrderResponse(&d.Order),
		Customer:      d.Customer,
	}
}

// ToPaymentResponse maps a payment detail to its wire shape.
func ToPaymentResponse(p *PaymentDetail) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		Reference:    p.Reference,
		SalesOrderID: p.SalesOrderID,
		Amount:       p.Amount,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		SalesOrder:   ToResponse(&p.SalesOrder),
	}
}

// ToCreateInput converts the wire body into the domain input.
func (r CreateRequest) ToCreateInput() CreateInput {
	return CreateInput{
		CustomerID:  r.CustomerID,
		DriverID:    r.DriverID,
		OrderNumber: r.OrderNumber,
		OrderDate:   r.OrderDate,
		TotalAmount: r.TotalAmount,
		Items:       r.Items,
		Notes:       r.Notes,
		Status:      r.Status,
	}
}

// ToUpdateInput converts the wire patch into the domain patch.
func (r UpdateRequest) ToUpdateInput() UpdateInput {
	return UpdateInput{
		Order: orders.UpdateInput{
			OrderNumber: r.OrderNumber,
			OrderDate:   r.OrderDate,
			Status:      r.Status,
			TotalAmount: r.TotalAmount,
			Items:       r.Items,
			Notes:       r.Notes,
		},
		CustomerID:    r.CustomerID,
		DriverID:      r.DriverID,
		PaymentStatus: r.PaymentStatus,
	}
}
