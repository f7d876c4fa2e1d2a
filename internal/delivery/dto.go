package delivery

import (
	"time"

	"github.com/meridian-dms/meridian/internal/masterdata"
)

// Response is the wire representation of a delivery with its nested
// driver and vehicle.
type Response struct {
	ID             int64               `json:"id"`
	DeliveryNumber string              `json:"deliveryNumber"`
	DriverID       int64               `json:"driverId"`
	VehicleID      int64               `json:"vehicleId"`
	Status         Status              `json:"status"`
	ScheduledDate  time.Time           `json:"scheduledDate"`
	DeliveredDate  *time.Time          `json:"deliveredDate"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	Driver         masterdata.Driver   `json:"driver"`
	Vehicle        masterdata.Vehicle  `json:"vehicle"`
}

// CreateRequest carries the delivery creation body.
type CreateRequest struct {
	DeliveryNumber string    `json:"deliveryNumber"`
	DriverID       int64     `json:"driverId" validate:"required"`
	VehicleID      int64     `json:"vehicleId" validate:"required"`
	ScheduledDate  time.Time `json:"scheduledDate"`
	SalesOrderIDs  []int64   `json:"salesOrderIds"`
}

// UpdateRequest patches a delivery.
type UpdateRequest struct {
	DriverID      *int64     `json:"driverId"`
	VehicleID     *int64     `json:"vehicleId"`
	Status        *Status    `json:"status" validate:"omitempty,oneof=pending in_transit completed"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	SalesOrderIDs *[]int64   `json:"salesOrderIds"`
}

// ToResponse maps a delivery detail to its wire shape.
func ToResponse(d *Detail) Response {
	return Response{
		ID:             d.ID,
		DeliveryNumber: d.DeliveryNumber,
		DriverID:       d.DriverID,
		VehicleID:      d.VehicleID,
		Status:         d.Status,
		ScheduledDate:  d.ScheduledDate,
		DeliveredDate:  d.DeliveredDate,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Driver:         d.Driver,
		Vehicle:        d.Vehicle,
	}
}

// ToCreateInput converts the wire body into the domain input.
func (r CreateRequest) ToCreateInput() CreateInput {
	return CreateInput{
		DeliveryNumber: r.DeliveryNumber,
		DriverID:       r.DriverID,
		VehicleID:      r.VehicleID,
		ScheduledDate:  r.ScheduledDate,
		SalesOrderIDs:  r.SalesOrderIDs,
	}
}

// ToUpdateInput converts the wire patch into the domain patch.
func (r UpdateRequest) ToUpdateInput() UpdateInput {
	return UpdateInput{
		DriverID:      r.DriverID,
		VehicleID:     r.VehicleID,
		Status:        r.Status,
		ScheduledDate: r.ScheduledDate,
		SalesOrderIDs: r.SalesOrderIDs,
	}
}
