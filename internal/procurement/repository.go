package procurement

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-dms/meridian/internal/orders"
	"github.com/meridian-dms/meridian/internal/platform/db"
)

// Repository defines purchase order and shipment persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Detail, error)
	GetByOrderID(ctx context.Context, orderID int64) (*Detail, error)
	List(ctx context.Context) ([]Detail, error)
	Summarize(ctx context.Context) (*Summary, error)
	CheckSupplierExists(ctx context.Context, supplierID int64) (bool, error)

	GetShipment(ctx context.Context, id int64) (*Shipment, error)
	ListShipments(ctx context.Context) ([]Shipment, error)

	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes transactional write operations.
type TxRepository interface {
	CreateOrder(ctx context.Context, o orders.Order) (int64, error)
	CreatePurchaseOrder(ctx context.Context, orderID, supplierID int64, dueDate time.Time) (int64, error)
	UpdateOrder(ctx context.Context, orderID int64, updates map[string]interface{}) error
	UpdatePurchaseOrder(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteOrder(ctx context.Context, orderID int64) error

	CreateShipment(ctx context.Context, input CreateShipmentInput) (int64, error)
	UpdateShipment(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteShipment(ctx context.Context, id int64) error
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
	SELECT po.id, po.order_id, po.supplier_id, po.due_date, po.created_at, po.updated_at,
	       o.id, o.order_number, o.order_type, o.order_date, o.status, o.total_amount,
	       o.items, o.notes, o.created_at, o.updated_at,
	       s.id, s.name, s.contact, s.email, s.address, s.created_at, s.updated_at
	FROM purchase_orders po
	INNER JOIN orders o ON o.id = po.order_id
	INNER JOIN suppliers s ON s.id = po.supplier_id
`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	var items []byte
	err := row.Scan(
		&d.ID, &d.OrderID, &d.SupplierID, &d.DueDate, &d.CreatedAt, &d.UpdatedAt,
		&d.Order.ID, &d.Order.OrderNumber, &d.Order.OrderType, &d.Order.OrderDate,
		&d.Order.Status, &d.Order.TotalAmount, &items, &d.Order.Notes,
		&d.Order.CreatedAt, &d.Order.UpdatedAt,
		&d.Supplier.ID, &d.Supplier.Name, &d.Supplier.Contact, &d.Supplier.Email,
		&d.Supplier.Address, &d.Supplier.CreatedAt, &d.Supplier.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, err
	}
	if err := decodeItems(items, &d.Order.Items); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Detail, error) {
	return scanDetail(r.pool.QueryRow(ctx, detailQuery+` WHERE po.id = $1`, id))
}

func (r *repository) GetByOrderID(ctx context.Context, orderID int64) (*Detail, error) {
	return scanDetail(r.pool.QueryRow(ctx, detailQuery+` WHERE po.order_id = $1`, orderID))
}

func (r *repository) List(ctx context.Context) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+` ORDER BY o.order_date DESC, po.id DESC`)
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

func (r *repository) Summarize(ctx context.Context) (*Summary, error) {
	query := `
		SELECT o.status, COUNT(*), COALESCE(SUM(o.total_amount), 0)
		FROM purchase_orders po
		INNER JOIN orders o ON o.id = po.order_id
		GROUP BY o.status
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var status string
		var count int
		var amount float64
		if err := rows.Scan(&status, &count, &amount); err != nil {
			return nil, err
		}
		summary.Total += count
		summary.Amount += amount
		switch orders.Status(status) {
		case orders.StatusPending:
			summary.Pending += count
		case orders.StatusCompleted:
			summary.Completed += count
		case orders.StatusCancelled:
			summary.Cancelled += count
		}
	}
	return &summary, rows.Err()
}

func (r *repository) CheckSupplierExists(ctx context.Context, supplierID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM suppliers WHERE id = $1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, supplierID).Scan(&exists)
	return exists, err
}

const shipmentColumns = `id, shipment_number, purchase_order_id, supplier_id, shipment_date,
	expected_delivery_date, actual_delivery_date, carrier, status, notes, created_at, updated_at`

func scanShipment(row pgx.Row) (*Shipment, error) {
	var s Shipment
	err := row.Scan(
		&s.ID, &s.ShipmentNumber, &s.PurchaseOrderID, &s.SupplierID, &s.ShipmentDate,
		&s.ExpectedDeliveryDate, &s.ActualDeliveryDate, &s.Carrier, &s.Status, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetShipment(ctx context.Context, id int64) (*Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`
	return scanShipment(r.pool.QueryRow(ctx, query, id))
}

func (r *repository) ListShipments(ctx context.Context) ([]Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments ORDER BY shipment_date DESC, id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
