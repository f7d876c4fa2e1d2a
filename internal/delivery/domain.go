// Package delivery manages delivery runs: a driver and vehicle pairing
// with a schedule and the sales orders assigned to the run.
package delivery

import (
	"time"

	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/platform/httpx"
)

var (
	ErrDeliveryNotFound  = httpx.NotFound("Delivery not found")
	ErrInvalidTransition = httpx.Invalid("Invalid delivery status transition")
)

// Status enumerates delivery statuses. Transitions run strictly
// pending -> in_transit -> completed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusCompleted Status = "completed"
)

// CanTransition reports whether the move from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInTransit
	case StatusInTransit:
		return next == StatusCompleted
	default:
		return false
	}
}

// Delivery is a scheduled run assigned to a driver and vehicle.
type Delivery struct {
	ID             int64
	DeliveryNumber string
	DriverID       int64
	VehicleID      int64
	Status         Status
	ScheduledDate  time.Time
	DeliveredDate  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Detail joins the delivery with its driver and vehicle.
type Detail struct {
	Delivery
	Driver  masterdata.Driver
	Vehicle masterdata.Vehicle
}

// CreateInput carries delivery creation fields.
type CreateInput struct {
	DeliveryNumber string
	DriverID       int64
	VehicleID      int64
	ScheduledDate  time.Time
	SalesOrderIDs  []int64
}

// UpdateInput patches a delivery. A status change is validated against
// the transition table; completion stamps DeliveredDate.
type UpdateInput struct {
	DriverID      *int64
	VehicleID     *int64
	Status        *Status
	ScheduledDate *time.Time
	SalesOrderIDs *[]int64
}
