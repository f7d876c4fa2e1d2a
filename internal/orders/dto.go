package orders

import "time"

// OrderResponse is the wire representation of a base order.
type OrderResponse struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	OrderType   OrderType `json:"orderType"`
	OrderDate   time.Time `json:"orderDate"`
	Status      Status    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	Items       []Item    `json:"items"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListResponse wraps a page of orders.
type ListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// UpdateRequest patches a base order. Absent fields stay unchanged;
// present fields always write, including zero values.
type UpdateRequest struct {
	OrderNumber *string    `json:"orderNumber"`
	OrderDate   *time.Time `json:"orderDate"`
	Status      *Status    `json:"status" validate:"omitempty,oneof=pending processing completed cancelled delivered"`
	TotalAmount *float64   `json:"totalAmount" validate:"omitempty,gte=0"`
	Items       *[]Item    `json:"items"`
	Notes       *string    `json:"notes"`
}

// ToOrderResponse maps a domain order to its wire shape.
func ToOrderResponse(o *Order) OrderResponse {
	items := o.Items
	if items == nil {
		items = []Item{}
	}
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		OrderType:   o.OrderType,
		OrderDate:   o.OrderDate,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       items,
		Notes:       o.Notes,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToUpdateInput converts the wire patch into the domain patch.
func (r UpdateRequest) ToUpdateInput() UpdateInput {
	return UpdateInput{
		OrderNumber: r.OrderNumber,
		OrderDate:   r.OrderDate,
		Status:      r.Status,
		TotalAmount: r.TotalAmount,
		Items:       r.Items,
		Notes:       r.Notes,
	}
}
