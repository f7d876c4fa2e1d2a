package masterdata

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines master data persistence.
type Repository interface {
	GetSupplier(ctx context.Context, id int64) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	CreateSupplier(ctx context.Context, input SupplierInput) (int64, error)
	UpdateSupplier(ctx context.Context, id int64, input SupplierInput) error

	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	CreateCustomer(ctx context.Context, input CustomerInput) (int64, error)
	UpdateCustomer(ctx context.Context, id int64, input CustomerInput) error

	GetDriver(ctx context.Context, id int64) (*Driver, error)
	ListDrivers(ctx context.Context) ([]Driver, error)
	CreateDriver(ctx context.Context, input DriverInput) (int64, error)
	UpdateDriver(ctx context.Context, id int64, input DriverInput) error

	GetVehicle(ctx context.Context, id int64) (*Vehicle, error)
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	CreateVehicle(ctx context.Context, input VehicleInput) (int64, error)
	UpdateVehicle(ctx context.Context, id int64, input VehicleInput) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) GetSupplier(ctx context.Context, id int64) (*Supplier, error) {
	query := `SELECT id, name, contact, email, address, created_at, updated_at FROM suppliers WHERE id = $1`
	var s Supplier
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	query := `SELECT id, name, contact, email, address, created_at, updated_at FROM suppliers ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) CreateSupplier(ctx context.Context, input SupplierInput) (int64, error) {
	query := `INSERT INTO suppliers (name, contact, email, address) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query, input.Name, input.Contact, input.Email, input.Address).Scan(&id)
	return id, err
}

func (r *repository) UpdateSupplier(ctx context.Context, id int64, input SupplierInput) error {
	query := `UPDATE suppliers SET name = $1, contact = $2, email = $3, address = $4, updated_at = $5 WHERE id = $6`
	cmdTag, err := r.pool.Exec(ctx, query, input.Name, input.Contact, input.Email, input.Address, time.Now(), id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

func (r *repository) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	query := `SELECT id, name, contact, email, address, created_at, updated_at FROM customers WHERE id = $1`
	var c Customer
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Contact, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListCustomers(ctx context.Context) ([]Customer, error) {
	query := `SELECT id, name, contact, email, address, created_at, updated_at FROM customers ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Contact, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) CreateCustomer(ctx context.Context, input CustomerInput) (int64, error) {
	query := `INSERT INTO customers (name, contact, email, address) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query, input.Name, input.Contact, input.Email, input.Address).Scan(&id)
	return id, err
}

func (r *repository) UpdateCustomer(ctx context.Context, id int64, input CustomerInput) error {
	query := `UPDATE customers SET name = $1, contact = $2, email = $3, address = $4, updated_at = $5 WHERE id = $6`
	cmdTag, err := r.pool.Exec(ctx, query, input.Name, input.Contact, input.Email, input.Address, time.Now(), id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *repository) GetDriver(ctx context.Context, id int64) (*Driver, error) {
	query := `SELECT id, name, phone, license_number, available, created_at, updated_at FROM drivers WHERE id = $1`
	var d Driver
	err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Phone, &d.LicenseNumber, &d.Available, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) ListDrivers(ctx context.Context) ([]Driver, error) {
	query := `SELECT id, name, phone, license_number, available, created_at, updated_at FROM drivers ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.LicenseNumber, &d.Available, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repository) CreateDriver(ctx context.Context, input DriverInput) (int64, error) {
	available := true
	if input.Available != nil {
		available = *input.Available
	}
	query := `INSERT INTO drivers (name, phone, license_number, available) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query, input.Name, input.Phone, input.LicenseNumber, available).Scan(&id)
	return id, err
}

func (r *repository) UpdateDriver(ctx context.Context, id int64, input DriverInput) error {
	current, err := r.GetDriver(ctx, id)
	if err != nil {
		return err
	}
	available := current.Available
	if input.Available != nil {
		available = *input.Available
	}
	query := `UPDATE drivers SET name = $1, phone = $2, license_number = $3, available = $4, updated_at = $5 WHERE id = $6`
	_, err = r.pool.Exec(ctx, query, input.Name, input.Phone, input.LicenseNumber, available, time.Now(), id)
	return err
}

func (r *repository) GetVehicle(ctx context.Context, id int64) (*Vehicle, error) {
	query := `SELECT id, plate_number, model, capacity, available, created_at, updated_at FROM vehicles WHERE id = $1`
	var v Vehicle
	err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.PlateNumber, &v.Model, &v.Capacity, &v.Available, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	query := `SELECT id, plate_number, model, capacity, available, created_at, updated_at FROM vehicles ORDER BY plate_number`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.PlateNumber, &v.Model, &v.Capacity, &v.Available, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *repository) CreateVehicle(ctx context.Context, input VehicleInput) (int64, error) {
	available := true
	if input.Available != nil {
		available = *input.Available
	}
	query := `INSERT INTO vehicles (plate_number, model, capacity, available) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query, input.PlateNumber, input.Model, input.Capacity, available).Scan(&id)
	return id, err
}

func (r *repository) UpdateVehicle(ctx context.Context, id int64, input VehicleInput) error {
	current, err := r.GetVehicle(ctx, id)
	if err != nil {
		return err
	}
	available := current.Available
	if input.Available != nil {
		available = *input.Available
	}
	query := `UPDATE vehicles SET plate_number = $1, model = $2, capacity = $3, available = $4, updated_at = $5 WHERE id = $6`
	_, err = r.pool.Exec(ctx, query, input.PlateNumber, input.Model, input.Capacity, available, time.Now(), id)
	return err
}
