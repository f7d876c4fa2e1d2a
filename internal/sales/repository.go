package sales

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-dms/meridian/internal/platform/db"
)

// Repository defines sales order and payment persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Detail, error)
	GetByOrderID(ctx context.Context, orderID int64) (*Detail, error)
	List(ctx context.Context) ([]Detail, error)
	CheckCustomerExists(ctx context.Context, customerID int64) (bool, error)
	CheckDriverExists(ctx context.Context, driverID int64) (bool, error)

	GetPayment(ctx context.Context, id int64) (*Payment, error)
	ListPayments(ctx context.Context) ([]Payment, error)

	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes transactional write operations.
type TxRepository interface {
	CreateOrder(ctx context.Context, o OrderRow) (int64, error)
	CreateSalesOrder(ctx context.Context, so SalesOrder) (int64, error)
	UpdateOrder(ctx context.Context, orderID int64, updates map[string]interface{}) error
	UpdateSalesOrder(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteOrder(ctx context.Context, orderID int64) error

	CreatePayment(ctx context.Context, p Payment) (int64, error)
	UpdatePayment(ctx context.Context, id int64, updates map[string]interface{}) error
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
	SELECT so.id, so.order_id, so.customer_id, so.driver_id, so.delivery_id,
	       so.payment_status, so.created_at, so.updated_at,
	       o.id, o.order_number, o.order_type, o.order_date, o.status, o.total_amount,
	       o.items, o.notes, o.created_at, o.updated_at,
	       c.id, c.name, c.contact, c.email, c.address, c.created_at, c.updated_at
	FROM sales_orders so
	INNER JOIN orders o ON o.id = so.order_id
	INNER JOIN customers c ON c.id = so.customer_id
`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	var items []byte
	err := row.Scan(
		&d.ID, &d.OrderID, &d.CustomerID, &d.DriverID, &d.DeliveryID,
		&d.PaymentStatus, &d.CreatedAt, &d.UpdatedAt,
		&d.Order.ID, &d.Order.OrderNumber, &d.Order.OrderType, &d.Order.OrderDate,
		&d.Order.Status, &d.Order.TotalAmount, &items, &d.Order.Notes,
		&d.Order.CreatedAt, &d.Order.UpdatedAt,
		&d.Customer.ID, &d.Customer.Name, &d.Customer.Contact, &d.Customer.Email,
		&d.Customer.Address, &d.Customer.CreatedAt, &d.Customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSalesOrderNotFound
		}
		return nil, err
	}
	if err := decodeItems(items, &d.Order.Items); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Detail, error) {
	return scanDetail(r.pool.QueryRow(ctx, detailQuery+` WHERE so.id = $1`, id))
}

func (r *repository) GetByOrderID(ctx context.Context, orderID int64) (*Detail, error) {
	return scanDetail(r.pool.QueryRow(ctx, detailQuery+` WHERE so.order_id = $1`, orderID))
}

func (r *repository) List(ctx context.Context) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+` ORDER BY o.order_date DESC, so.id DESC`)
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

func (r *repository) CheckCustomerExists(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, customerID).Scan(&exists)
	return exists, err
}

func (r *repository) CheckDriverExists(ctx context.Context, driverID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM drivers WHERE id = $1)`, driverID).Scan(&exists)
	return exists, err
}

const paymentColumns = `id, reference, sales_order_id, amount, status, created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.Reference, &p.SalesOrderID, &p.Amount, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetPayment(ctx context.Context, id int64) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.pool.QueryRow(ctx, query, id))
}

func (r *repository) ListPayments(ctx context.Context) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// CreatePayment inserts a payment row.
func (t *txRepository) CreatePayment(ctx context.Context, p Payment) (int64, error) {
	query := `
		INSERT INTO payments (reference, sales_order_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query, p.Reference, p.SalesOrderID, p.Amount, p.Status).Scan(&id)
	return id, err
}

// UpdatePayment patches payment columns. Payments carry no updated_at.
func (t *txRepository) UpdatePayment(ctx context.Context, id int64, updates map[string]interface{}) error {
	return applyUpdates(ctx, t.tx, "payments", id, updates, ErrPaymentNotFound, false)
}
