package ar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-dms/meridian/internal/billing"
	"github.com/meridian-dms/meridian/internal/orders"
	"github.com/meridian-dms/meridian/internal/platform/db"
	"github.com/meridian-dms/meridian/internal/sales"
)

// Repository defines sales invoice persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Detail, error)
	List(ctx context.Context) ([]Detail, error)
	ListByDriver(ctx context.Context, driverID int64) ([]Detail, error)
	GetSalesOrder(ctx context.Context, id int64) (*sales.SalesOrder, error)

	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes transactional write operations.
type TxRepository interface {
	CreateInvoice(ctx context.Context, inv billing.Invoice) (int64, error)
	CreateSalesInvoice(ctx context.Context, si SalesInvoice) (int64, error)
	UpdateInvoice(ctx context.Context, invoiceID int64, updates map[string]interface{}) error
	UpdateSalesInvoice(ctx context.Context, id int64, updates map[string]interface{}) error

	// GetForCollect re-reads the collection-relevant state under a row
	// lock so concurrent collections serialize instead of losing updates.
	GetForCollect(ctx context.Context, id int64) (*CollectRow, error)
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
	SELECT si.id, si.invoice_id, si.sales_order_id, si.customer_id, si.delivery_id,
	       si.payment_method, si.items, si.subtotal, si.collected_amount, si.collected_at,
	       si.created_at, si.updated_at,
	       i.id, i.invoice_number, i.invoice_type, i.order_id, i.invoice_date,
	       i.due_date, i.total_amount, i.status, i.notes, i.created_at, i.updated_at,
	       so.id, so.order_id, so.customer_id, so.driver_id, so.delivery_id,
	       so.payment_status, so.created_at, so.updated_at,
	       c.id, c.name, c.contact, c.email, c.address, c.created_at, c.updated_at
	FROM sales_invoices si
	INNER JOIN invoices i ON i.id = si.invoice_id
	INNER JOIN sales_orders so ON so.id = si.sales_order_id
	INNER JOIN customers c ON c.id = si.customer_id
`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	var items []byte
	err := row.Scan(
		&d.ID, &d.InvoiceID, &d.SalesOrderID, &d.CustomerID, &d.DeliveryID,
		&d.PaymentMethod, &items, &d.Subtotal, &d.CollectedAmount, &d.CollectedAt,
		&d.CreatedAt, &d.UpdatedAt,
		&d.Invoice.ID, &d.Invoice.InvoiceNumber, &d.Invoice.InvoiceType, &d.Invoice.OrderID,
		&d.Invoice.InvoiceDate, &d.Invoice.DueDate, &d.Invoice.TotalAmount, &d.Invoice.Status,
		&d.Invoice.Notes, &d.Invoice.CreatedAt, &d.Invoice.UpdatedAt,
		&d.SalesOrder.ID, &d.SalesOrder.OrderID, &d.SalesOrder.CustomerID, &d.SalesOrder.DriverID,
		&d.SalesOrder.DeliveryID, &d.SalesOrder.PaymentStatus, &d.SalesOrder.CreatedAt, &d.SalesOrder.UpdatedAt,
		&d.Customer.ID, &d.Customer.Name, &d.Customer.Contact, &d.Customer.Email,
		&d.Customer.Address, &d.Customer.CreatedAt, &d.Customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if err := decodeItems(items, &d.Items); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Detail, error) {
	return scanDetail(r.pool.QueryRow(ctx, detailQuery+` WHERE si.id = $1`, id))
}

func (r *repository) List(ctx context.Context) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+` ORDER BY i.invoice_date DESC, si.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDetails(rows)
}

// ListByDriver returns the invoices whose sales order is assigned to
// the given driver, the collection worklist a driver settles on route.
func (r *repository) ListByDriver(ctx context.Context, driverID int64) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+` WHERE so.driver_id = $1 ORDER BY i.invoice_date DESC, si.id DESC`, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDetails(rows)
}

func collectDetails(rows pgx.Rows) ([]Detail, error) {
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

func (r *repository) GetSalesOrder(ctx context.Context, id int64) (*sales.SalesOrder, error) {
	query := `
		SELECT id, order_id, customer_id, driver_id, delivery_id, payment_status, created_at, updated_at
		FROM sales_orders WHERE id = $1
	`
	var so sales.SalesOrder
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&so.ID, &so.OrderID, &so.CustomerID, &so.DriverID, &so.DeliveryID,
		&so.PaymentStatus, &so.CreatedAt, &so.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sales.ErrSalesOrderNotFound
		}
		return nil, err
	}
	return &so, nil
}

// CreateInvoice inserts the base invoice row.
func (t *txRepository) CreateInvoice(ctx context.Context, inv billing.Invoice) (int64, error) {
	query := `
		INSERT INTO invoices (invoice_number, invoice_type, order_id, invoice_date, due_date,
			total_amount, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query,
		inv.InvoiceNumber, inv.InvoiceType, inv.OrderID, inv.InvoiceDate, inv.DueDate,
		inv.TotalAmount, inv.Status, inv.Notes,
	).Scan(&id)
	return id, err
}

// CreateSalesInvoice inserts the subtype row referencing the base invoice.
func (t *txRepository) CreateSalesInvoice(ctx context.Context, si SalesInvoice) (int64, error) {
	items, err := orders.EncodeItems(si.Items)
	if err != nil {
		return 0, err
	}
	query := `
		INSERT INTO sales_invoices (invoice_id, sales_order_id, customer_id, delivery_id,
			payment_method, items, subtotal, collected_amount, collected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err = t.tx.QueryRow(ctx, query,
		si.InvoiceID, si.SalesOrderID, si.CustomerID, si.DeliveryID,
		si.PaymentMethod, items, si.Subtotal, si.CollectedAmount, si.CollectedAt,
	).Scan(&id)
	return id, err
}

func (t *txRepository) applyUpdates(ctx context.Context, table string, id int64, updates map[string]interface{}, notFound error) error {
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
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`, table, strings.Join(setClauses, ", "), argPos)

	cmdTag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

// UpdateInvoice patches base invoice columns.
func (t *txRepository) UpdateInvoice(ctx context.Context, invoiceID int64, updates map[string]interface{}) error {
	return t.applyUpdates(ctx, "invoices", invoiceID, updates, billing.ErrInvoiceNotFound)
}

// UpdateSalesInvoice patches subtype columns.
func (t *txRepository) UpdateSalesInvoice(ctx context.Context, id int64, updates map[string]interface{}) error {
	return t.applyUpdates(ctx, "sales_invoices", id, updates, ErrInvoiceNotFound)
}

// GetForCollect locks the subtype and base invoice rows for the
// duration of the surrounding transaction.
func (t *txRepository) GetForCollect(ctx context.Context, id int64) (*CollectRow, error) {
	query := `
		SELECT si.id, si.invoice_id, si.collected_amount, i.total_amount
		FROM sales_invoices si
		INNER JOIN invoices i ON i.id = si.invoice_id
		WHERE si.id = $1
		FOR UPDATE OF si, i
	`
	var row CollectRow
	err := t.tx.QueryRow(ctx, query, id).Scan(&row.SubtypeID, &row.InvoiceID, &row.CollectedAmount, &row.TotalAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &row, nil
}

func decodeItems(raw []byte, target *[]orders.Item) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("ar: decode items: %w", err)
	}
	return nil
}
