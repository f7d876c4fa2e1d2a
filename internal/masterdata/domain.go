package masterdata

import (
	"time"

	"github.com/meridian-dms/meridian/internal/platform/httpx"
)

var (
	ErrSupplierNotFound = httpx.NotFound("Supplier not found")
	ErrCustomerNotFound = httpx.NotFound("Customer not found")
	ErrDriverNotFound   = httpx.NotFound("Driver not found")
	ErrVehicleNotFound  = httpx.NotFound("Vehicle not found")
)

// Supplier represents a supplier entity.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Customer represents a customer entity.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Driver represents a delivery driver.
type Driver struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	LicenseNumber string    `json:"licenseNumber"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Vehicle represents a delivery vehicle.
type Vehicle struct {
	ID          int64     `json:"id"`
	PlateNumber string    `json:"plateNumber"`
	Model       string    `json:"model"`
	Capacity    float64   `json:"capacity"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SupplierInput carries supplier create/update fields.
type SupplierInput struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// CustomerInput carries customer create/update fields.
type CustomerInput struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// DriverInput carries driver create/update fields.
type DriverInput struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"licenseNumber"`
	Available     *bool  `json:"available"`
}

// VehicleInput carries vehicle create/update fields.
type VehicleInput struct {
	PlateNumber string  `json:"plateNumber" validate:"required"`
	Model       string  `json:"model"`
	Capacity    float64 `json:"capacity" validate:"gte=0"`
	Available   *bool   `json:"available"`
}
