package ap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-dms/meridian/internal/billing"
	"github.com/meridian-dms/meridian/internal/platform/db"
	"github.com/meridian-dms/meridian/internal/procurement"
)

// Repository defines purchase invoice persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Detail, error)
	List(ctx context.Context) ([]Detail, error)
	GetPurchaseOrder(ctx context.Context, id int64) (*procurement.PurchaseOrder, error)

	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes transactional write operations.
type TxRepository interface {
	CreateInvoice(ctx context.Context, inv billing.Invoice) (int64, error)
	CreatePurchaseInvoice(ctx context.Context, pi PurchaseInvoice) (int64, error)
	UpdateInvoice(ctx context.Context, invoiceID int64, updates map[string]interface{}) error
	UpdatePurchaseInvoice(ctx context.Context, id int64, updates map[string]interface{}) error

	// GetForPay re-reads the payment-relevant state under a row lock so
	// concurrent payments serialize instead of losing updates.
	GetForPay(ctx context.Context, id int64) (*PayRow, error)
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
	SELECT pi.id, pi.invoice_id, pi.purchase_order_id, pi.supplier_id,
	       pi.paid_amount, pi.balance, pi.paid_date, pi.created_at, pi.updated_at,
	       i.id, i.invoice_number, i.invoice_type, i.order_id, i.invoice_date,
	       i.due_date, i.total_amount, i.status, i.notes, i.created_at, i.updated_at,
	       po.id, po.order_id, po.supplier_id, po.due_date, po.created_at, po.updated_at,
	       s.id, s.name, s.contact, s.email, s.address, s.created_at, s.updated_at
	FROM purchase_invoices pi
	INNER JOIN invoices i ON i.id = pi.invoice_id
	INNER JOIN purchase_orders po ON po.id = pi.purchase_order_id
	INNER JOIN suppliers s ON s.id = pi.supplier_id
`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	err := row.Scan(
		&d.ID, &d.InvoiceID, &d.PurchaseOrderID, &d.SupplierID,
		&d.PaidAmount, &d.Balance, &d.PaidDate, &d.CreatedAt, &d.UpdatedAt,
		&d.Invoice.ID, &d.Invoice.InvoiceNumber, &d.Invoice.InvoiceType, &d.Invoice.OrderID,
		&d.Invoice.InvoiceDate, &d.Invoice.DueDate, &d.Invoice.TotalAmount, &d.Invoice.Status,
		&d.Invoice.Notes, &d.Invoice.CreatedAt, &d.Invoice.UpdatedAt,
		&d.PurchaseOrder.ID, &d.PurchaseOrder.OrderID, &d.PurchaseOrder.SupplierID,
		&d.PurchaseOrder.DueDate, &d.PurchaseOrder.CreatedAt, &d.PurchaseOrder.UpdatedAt,
		&d.Supplier.ID, &d.Supplier.Name, &d.Supplier.Contact, &d.Supplier.Email,
		&d.Supplier.Address, &d.Supplier.CreatedAt, &d.Supplier.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Detail, error) {
	return scanDetail(r.pool.QueryRow(ctx, detailQuery+` WHERE pi.id = $1`, id))
}

func (r *repository) List(ctx context.Context) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+` ORDER BY i.invoice_date DESC, pi.id DESC`)
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

func (r *repository) GetPurchaseOrder(ctx context.Context, id int64) (*procurement.PurchaseOrder, error) {
	query := `SELECT id, order_id, supplier_id, due_date, created_at, updated_at FROM purchase_orders WHERE id = $1`
	var po procurement.PurchaseOrder
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&po.ID, &po.OrderID, &po.SupplierID, &po.DueDate, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, procurement.ErrPurchaseOrderNotFound
		}
		return nil, err
	}
	return &po, nil
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

// CreatePurchaseInvoice inserts the subtype row referencing the base invoice.
func (t *txRepository) CreatePurchaseInvoice(ctx context.Context, pi PurchaseInvoice) (int64, error) {
	query := `
		INSERT INTO purchase_invoices (invoice_id, purchase_order_id, supplier_id, paid_amount, balance, paid_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query,
		pi.InvoiceID, pi.PurchaseOrderID, pi.SupplierID, pi.PaidAmount, pi.Balance, pi.PaidDate,
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

// UpdatePurchaseInvoice patches subtype columns.
func (t *txRepository) UpdatePurchaseInvoice(ctx context.Context, id int64, updates map[string]interface{}) error {
	return t.applyUpdates(ctx, "purchase_invoices", id, updates, ErrInvoiceNotFound)
}

// GetForPay locks the subtype and base invoice rows for the duration of
// the surrounding transaction.
func (t *txRepository) GetForPay(ctx context.Context, id int64) (*PayRow, error) {
	query := `
		SELECT pi.id, pi.invoice_id, pi.paid_amount, i.total_amount
		FROM purchase_invoices pi
		INNER JOIN invoices i ON i.id = pi.invoice_id
		WHERE pi.id = $1
		FOR UPDATE OF pi, i
	`
	var row PayRow
	err := t.tx.QueryRow(ctx, query, id).Scan(&row.SubtypeID, &row.InvoiceID, &row.PaidAmount, &row.TotalAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &row, nil
}
