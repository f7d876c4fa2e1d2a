// Package users manages user accounts and their role profiles.
package users

import (
	"time"

	"github.com/meridian-dms/meridian/internal/platform/httpx"
)

var (
	ErrUserNotFound = httpx.NotFound("User not found")
	ErrUnknownRole  = httpx.Invalid("Unknown role")
)

// Role is a closed enumeration of account roles. Every user carries
// exactly one.
type Role string

const (
	RoleOwner            Role = "owner"
	RoleManager          Role = "manager"
	RoleAssistantManager Role = "assistant_manager"
	RoleSalesman         Role = "salesman"
	RoleDriver           Role = "driver"
	RoleCashier          Role = "cashier"
	RoleStockKeeper      Role = "stock_keeper"
	RoleSupplier         Role = "supplier"
	RoleDistributor      Role = "distributor"
)

// Roles lists every valid role, in display order.
var Roles = []Role{
	RoleOwner,
	RoleManager,
	RoleAssistantManager,
	RoleSalesman,
	RoleDriver,
	RoleCashier,
	RoleStockKeeper,
	RoleSupplier,
	RoleDistributor,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleAssistantManager, RoleSalesman,
		RoleDriver, RoleCashier, RoleStockKeeper, RoleSupplier, RoleDistributor:
		return true
	}
	return false
}

// User represents an account.
type User struct {
	ID           int64
	Username     string
	Name         string
	Email        string
	Role         Role
	EntityID     *int64
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateInput carries user creation fields. Password arrives in clear
// and is hashed before persistence.
type CreateInput struct {
	Username string
	Name     string
	Email    string
	Role     Role
	Password string
	EntityID *int64
}

// UpdateInput patches a user. Nil means "leave unchanged".
type UpdateInput struct {
	Name     *string
	Email    *string
	Role     *Role
	Password *string
	IsActive *bool
	EntityID *int64
}
