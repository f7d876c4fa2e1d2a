package users

// Profile is a tagged variant binding a role to the master data entity
// it operates as, when the role has one. Exactly one constructor
// exists per role, and ProfileFor is the single dispatch point; the
// role switch is not repeated anywhere else.
type Profile struct {
	Role Role

	// EntityID points at the drivers or suppliers row backing the
	// profile. Zero for back-office roles.
	EntityID int64
}

// HasEntity reports whether the profile is backed by a master data row.
func (p Profile) HasEntity() bool {
	return p.EntityID != 0
}

func OwnerProfile() Profile            { return Profile{Role: RoleOwner} }
func ManagerProfile() Profile          { return Profile{Role: RoleManager} }
func AssistantManagerProfile() Profile { return Profile{Role: RoleAssistantManager} }
func SalesmanProfile() Profile         { return Profile{Role: RoleSalesman} }
func CashierProfile() Profile          { return Profile{Role: RoleCashier} }
func StockKeeperProfile() Profile      { return Profile{Role: RoleStockKeeper} }
func DistributorProfile() Profile      { return Profile{Role: RoleDistributor} }

func DriverProfile(driverID int64) Profile {
	return Profile{Role: RoleDriver, EntityID: driverID}
}

func SupplierProfile(supplierID int64) Profile {
	return Profile{Role: RoleSupplier, EntityID: supplierID}
}

// ProfileFor builds the profile for a role. Driver and supplier roles
// take the backing entity id; entityID is ignored for the rest.
func ProfileFor(role Role, entityID int64) (Profile, error) {
	switch role {
	case RoleOwner:
		return OwnerProfile(), nil
	case RoleManager:
		return ManagerProfile(), nil
	case RoleAssistantManager:
		return AssistantManagerProfile(), nil
	case RoleSalesman:
		return SalesmanProfile(), nil
	case RoleDriver:
		return DriverProfile(entityID), nil
	case RoleCashier:
		return CashierProfile(), nil
	case RoleStockKeeper:
		return StockKeeperProfile(), nil
	case RoleSupplier:
		return SupplierProfile(entityID), nil
	case RoleDistributor:
		return DistributorProfile(), nil
	default:
		return Profile{}, ErrUnknownRole
	}
}
