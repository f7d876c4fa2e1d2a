package retail

import (
	"time"

	"github.com/meridian-dms/meridian/internal/orders"
)

// Response is the wire representation of a retail order with its
// nested base order and cart.
type Response struct {
	ID        int64                `json:"id"`
	OrderID   int64                `json:"orderId"`
	CartID    int64                `json:"cartId"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
	Order     orders.OrderResponse `json:"order"`
	Cart      CartResponse         `json:"cart"`
}

// CartResponse is the wire representation of a cart.
type CartResponse struct {
	ID          int64         `json:"id"`
	Items       []orders.Item `json:"items"`
	TotalAmount float64       `json:"totalAmount"`
	Status      CartStatus    `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// CreateRequest carries the retail order creation body.
type CreateRequest struct {
	CartID      int64   `json:"cartId" validate:"required"`
	OrderNumber string  `json:"orderNumber"`
	Notes       *string `json:"notes"`
}

// UpdateRequest patches the base order status and notes.
type UpdateRequest struct {
	Status *orders.Status `json:"status" validate:"omitempty,oneof=pending processing completed cancelled delivered"`
	Notes  *string        `json:"notes"`
}

// CartRequest carries the cart create/update body.
type CartRequest struct {
	Items       []orders.Item `json:"items"`
	TotalAmount float64       `json:"totalAmount" validate:"gte=0"`
}

// ToResponse maps a retail order detail to its wire shape.
func ToResponse(d *Detail) Response {
	return Response{
		ID:        d.ID,
		OrderID:   d.OrderID,
		CartID:    d.CartID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Order:     orders.ToOrderResponse(&d.Order),
		Cart:      ToCartResponse(&d.Cart),
	}
}

// ToCartResponse maps a cart to its wire shape.
func ToCartResponse(c *Cart) CartResponse {
	items := c.Items
	if items == nil {
		items = []orders.Item{}
	}
	return CartResponse{
		ID:          c.ID,
		Items:       items,
		TotalAmount: c.TotalAmount,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCreateInput converts the wire body into the domain input.
func (r CreateRequest) ToCreateInput() CreateInput {
	return CreateInput{
		CartID:      r.CartID,
		OrderNumber: r.OrderNumber,
		Notes:       r.Notes,
	}
}

// ToUpdateInput converts the wire patch into the domain patch.
func (r UpdateRequest) ToUpdateInput() UpdateInput {
	return UpdateInput{Status: r.Status, Notes: r.Notes}
}

// ToCartInput converts the wire body into the domain input.
func (r CartRequest) ToCartInput() CartInput {
	return CartInput{Items: r.Items, TotalAmount: r.TotalAmount}
}
