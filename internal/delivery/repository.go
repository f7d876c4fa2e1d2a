package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-dms/meridian/internal/platform/db"
)

// Repository defines delivery persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Detail, error)
	List(ctx context.Context) ([]Detail, error)
	ListSalesOrderIDs(ctx context.Context, deliveryID int64) ([]int64, error)
	CheckDriverExists(ctx context.Context, driverID int64) (bool, error)
	CheckVehicleExists(ctx context.Context, vehicleID int64) (bool, error)

	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes transactional write operations.
type TxRepository interface {
	CreateDelivery(ctx context.Context, d Delivery) (int64, error)
	UpdateDelivery(ctx context.Context, id int64, updates map[string]interface{}) error

	// AssignSalesOrders points the given sales orders at the delivery.
	// ReleaseSalesOrders detaches everything currently on it.
	AssignSalesOrders(ctx context.Context, deliveryID int64, salesOrderIDs []int64) error
	ReleaseSalesOrders(ctx context.Context, deliveryID int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx wraps callback in a repeatable-read transaction.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

const detailQuery = `
	SELECT d.id, d.delivery_number, d.driver_id, d.vehicle_id, d.status,
	       d.scheduled_date, d.delivered_date, d.created_at, d.updated_at,
	       dr.id, dr.name, dr.phone, dr.license_number, dr.available, dr.created_at, dr.updated_at,
	       v.id, v.plate_number, v.model, v.capacity, v.available, v.created_at, v.updated_at
	FROM deliveries d
	INNER JOIN drivers dr ON dr.id = d.driver_id
	INNER JOIN vehicles v ON v.id = d.vehicle_id
`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	err := row.Scan(
		&d.ID, &d.DeliveryNumber, &d.DriverID, &d.VehicleID, &d.Status,
		&d.ScheduledDate, &d.DeliveredDate, &d.CreatedAt, &d.UpdatedAt,
		&d.Driver.ID, &d.Driver.Name, &d.Driver.Phone, &d.Driver.LicenseNumber,
		&d.Driver.Available, &d.Driver.CreatedAt, &d.Driver.UpdatedAt,
		&d.Vehicle.ID, &d.Vehicle.PlateNumber, &d.Vehicle.Model, &d.Vehicle.Capacity,
		&d.Vehicle.Available, &d.Vehicle.CreatedAt, &d.Vehicle.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeliveryNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Detail, error) {
	return scanDetail(r.pool.QueryRow(ctx, detailQuery+` WHERE d.id = $1`, id))
}

func (r *repository) List(ctx context.Context) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+` ORDER BY d.scheduled_date DESC, d.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *repository) ListSalesOrderIDs(ctx context.Context, deliveryID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM sales_orders WHERE delivery_id = $1 ORDER BY id`, deliveryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *repository) CheckDriverExists(ctx context.Context, driverID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM drivers WHERE id = $1)`, driverID).Scan(&exists)
	return exists, err
}

func (r *repository) CheckVehicleExists(ctx context.Context, vehicleID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM vehicles WHERE id = $1)`, vehicleID).Scan(&exists)
	return exists, err
}

// CreateDelivery inserts the delivery row.
func (t *txRepository) CreateDelivery(ctx context.Context, d Delivery) (int64, error) {
	query := `
		INSERT INTO deliveries (delivery_number, driver_id, vehicle_id, status, scheduled_date, delivered_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query,
		d.DeliveryNumber, d.DriverID, d.VehicleID, d.Status, d.ScheduledDate, d.DeliveredDate,
	).Scan(&id)
	return id, err
}

// UpdateDelivery patches delivery columns.
func (t *txRepository) UpdateDelivery(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	var setClauses []string
	var args []interface{}
	argPos := 1

	for field, value := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, argPos))
		args = append(args, value)
		argPos++
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now())
	argPos++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE deliveries SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), argPos)

	cmdTag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrDeliveryNotFound
	}
	return nil
}

func (t *txRepository) AssignSalesOrders(ctx context.Context, deliveryID int64, salesOrderIDs []int64) error {
	if len(salesOrderIDs) == 0 {
		return nil
	}
	_, err := t.tx.Exec(ctx,
		`UPDATE sales_orders SET delivery_id = $1, updated_at = $2 WHERE id = ANY($3)`,
		deliveryID, time.Now(), salesOrderIDs,
	)
	return err
}

func (t *txRepository) ReleaseSalesOrders(ctx context.Context, deliveryID int64) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE sales_orders SET delivery_id = NULL, updated_at = $1 WHERE delivery_id = $2`,
		time.Now(), deliveryID,
	)
	return err
}
