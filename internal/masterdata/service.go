package masterdata

import "context"

// Service wraps master data operations used by the handlers and other engines.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (*Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) CreateSupplier(ctx context.Context, input SupplierInput) (*Supplier, error) {
	id, err := s.repo.CreateSupplier(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, input SupplierInput) (*Supplier, error) {
	if err := s.repo.UpdateSupplier(ctx, id, input); err != nil {
		return nil, err
	}
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error) {
	id, err := s.repo.CreateCustomer(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, input CustomerInput) (*Customer, error) {
	if err := s.repo.UpdateCustomer(ctx, id, input); err != nil {
		return nil, err
	}
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) GetDriver(ctx context.Context, id int64) (*Driver, error) {
	return s.repo.GetDriver(ctx, id)
}

func (s *Service) ListDrivers(ctx context.Context) ([]Driver, error) {
	return s.repo.ListDrivers(ctx)
}

func (s *Service) CreateDriver(ctx context.Context, input DriverInput) (*Driver, error) {
	id, err := s.repo.CreateDriver(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.repo.GetDriver(ctx, id)
}

func (s *Service) UpdateDriver(ctx context.Context, id int64, input DriverInput) (*Driver, error) {
	if err := s.repo.UpdateDriver(ctx, id, input); err != nil {
		return nil, err
	}
	return s.repo.GetDriver(ctx, id)
}

func (s *Service) GetVehicle(ctx context.Context, id int64) (*Vehicle, error) {
	return s.repo.GetVehicle(ctx, id)
}

func (s *Service) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	return s.repo.ListVehicles(ctx)
}

func (s *Service) CreateVehicle(ctx context.Context, input VehicleInput) (*Vehicle, error) {
	id, err := s.repo.CreateVehicle(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.repo.GetVehicle(ctx, id)
}

func (s *Service) UpdateVehicle(ctx context.Context, id int64, input VehicleInput) (*Vehicle, error) {
	if err := s.repo.UpdateVehicle(ctx, id, input); err != nil {
		return nil, err
	}
	return s.repo.GetVehicle(ctx, id)
}
