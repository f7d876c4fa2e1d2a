package procurement

import (
	"time"

	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/orders"
)

// Response is the wire representation of a purchase order with its
// nested base order and supplier, the shape the dashboards consume.
type Response struct {
	ID         int64                `json:"id"`
	OrderID    int64                `json:"orderId"`
	SupplierID int64                `json:"supplierId"`
	DueDate    time.Time            `json:"dueDate"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
	Order      orders.OrderResponse `json:"order"`
	Supplier   masterdata.Supplier  `json:"supplier"`
}

// CreateRequest carries the purchase order creation body.
type CreateRequest struct {
	SupplierID  int64          `json:"supplierId" validate:"required"`
	DueDate     time.Time      `json:"dueDate" validate:"required"`
	OrderNumber string         `json:"orderNumber" validate:"required"`
	OrderDate   time.Time      `json:"orderDate"`
	TotalAmount float64        `json:"totalAmount" validate:"gte=0"`
	Items       []orders.Item  `json:"items"`
	Notes       *string        `json:"notes"`
	Status      *orders.Status `json:"status" validate:"omitempty,oneof=pending processing completed cancelled delivered"`
}

// UpdateRequest patches base order and subtype fields. Absent fields
// stay unchanged; present fields always write, including zero values.
type UpdateRequest struct {
	OrderNumber *string         `json:"orderNumber"`
	OrderDate   *time.Time      `json:"orderDate"`
	Status      *orders.Status  `json:"status" validate:"omitempty,oneof=pending processing completed cancelled delivered"`
	TotalAmount *float64        `json:"totalAmount" validate:"omitempty,gte=0"`
	Items       *[]orders.Item  `json:"items"`
	Notes       *string         `json:"notes"`
	SupplierID  *int64          `json:"supplierId"`
	DueDate     *time.Time      `json:"dueDate"`
}

// ShipmentResponse is the wire representation of a shipment.
type ShipmentResponse struct {
	ID                   int64          `json:"id"`
	ShipmentNumber       string         `json:"shipmentNumber"`
	PurchaseOrderID      int64          `json:"purchaseOrderId"`
	SupplierID           int64          `json:"supplierId"`
	ShipmentDate         time.Time      `json:"shipmentDate"`
	ExpectedDeliveryDate time.Time      `json:"expectedDeliveryDate"`
	ActualDeliveryDate   *time.Time     `json:"actualDeliveryDate"`
	Carrier              string         `json:"carrier"`
	Status               ShipmentStatus `json:"status"`
	Notes                *string        `json:"notes"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// CreateShipmentRequest carries the shipment creation body.
type CreateShipmentRequest struct {
	ShipmentNumber       string    `json:"shipmentNumber" validate:"required"`
	PurchaseOrderID      int64     `json:"purchaseOrderId" validate:"required"`
	ShipmentDate         time.Time `json:"shipmentDate" validate:"required"`
	ExpectedDeliveryDate time.Time `json:"expectedDeliveryDate" validate:"required"`
	Carrier              string    `json:"carrier"`
	Notes                *string   `json:"notes"`
}

// UpdateShipmentRequest patches a shipment.
type UpdateShipmentRequest struct {
	ShipmentDate         *time.Time      `json:"shipmentDate"`
	ExpectedDeliveryDate *time.Time      `json:"expectedDeliveryDate"`
	ActualDeliveryDate   *time.Time      `json:"actualDeliveryDate"`
	Carrier              *string         `json:"carrier"`
	Status               *ShipmentStatus `json:"status" validate:"omitempty,oneof=pending in_transit delivered"`
	Notes                *string         `json:"notes"`
}

// ToResponse maps a purchase order detail to its wire shape.
func ToResponse(d *Detail) Response {
	return Response{
		ID:         d.ID,
		OrderID:    d.OrderID,
		SupplierID: d.SupplierID,
		DueDate:    d.DueDate,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		Order:      orders.ToOrderResponse(&d.Order),
		Supplier:   d.Supplier,
	}
}

// ToShipmentResponse maps a shipment to its wire shape.
func ToShipmentResponse(s *Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:                   s.ID,
		ShipmentNumber:       s.ShipmentNumber,
		PurchaseOrderID:      s.PurchaseOrderID,
		SupplierID:           s.SupplierID,
		ShipmentDate:         s.ShipmentDate,
		ExpectedDeliveryDate: s.ExpectedDeliveryDate,
		ActualDeliveryDate:   s.ActualDeliveryDate,
		Carrier:              s.Carrier,
		Status:               s.Status,
		Notes:                s.Notes,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

// ToCreateInput converts the wire body into the domain input.
func (r CreateRequest) ToCreateInput() CreateInput {
	return CreateInput{
		SupplierID:  r.SupplierID,
		DueDate:     r.DueDate,
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
		SupplierID: r.SupplierID,
		DueDate:    r.DueDate,
	}
}
