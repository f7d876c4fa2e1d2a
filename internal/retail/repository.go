package retail

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-dms/meridian/internal/orders"
	"github.com/meridian-dms/meridian/internal/platform/db"
)

// Repository defines cart and retail order persistence.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Detail, error)
	List(ctx context.Context) ([]Detail, error)
	GetCart(ctx context.Context, id int64) (*Cart, error)
	ListCarts(ctx context.Context) ([]Cart, error)
	CreateCart(ctx context.Context, input CartInput) (int64, error)

	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes transactional write operations.
type TxRepository interface {
	CreateOrder(ctx context.Context, o OrderRow) (int64, error)
	CreateRetailOrder(ctx context.Context, ro RetailOrder) (int64, error)
	UpdateOrder(ctx context.Context, orderID int64, updates map[string]interface{}) error
	UpdateCart(ctx context.Context, cartID int64, updates map[string]interface{}) error
	DeleteOrder(ctx context.Context, orderID int64) error
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
	SELECT ro.id, ro.order_id, ro.cart_id, ro.created_at, ro.updated_at,
	       o.id, o.order_number, o.order_type, o.order_date, o.status,
	       o.total_amount, o.items, o.notes, o.created_at, o.updated_at,
	       c.id, c.items, c.total_amount, c.status, c.created_at, c.updated_at
	FROM retail_orders ro
	INNER JOIN orders o ON o.id = ro.order_id
	INNER JOIN carts c ON c.id = ro.cart_id
`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	var orderItems, cartItems []byte
	err := row.Scan(
		&d.ID, &d.OrderID, &d.CartID, &d.CreatedAt, &d.UpdatedAt,
		&d.Order.ID, &d.Order.OrderNumber, &d.Order.OrderType, &d.Order.OrderDate, &d.Order.Status,
		&d.Order.TotalAmount, &orderItems, &d.Order.Notes, &d.Order.CreatedAt, &d.Order.UpdatedAt,
		&d.Cart.ID, &cartItems, &d.Cart.TotalAmount, &d.Cart.Status, &d.Cart.CreatedAt, &d.Cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRetailOrderNotFound
		}
		return nil, err
	}
	if err := decodeItems(orderItems, &d.Order.Items); err != nil {
		return nil, err
	}
	if err := decodeItems(cartItems, &d.Cart.Items); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Detail, error) {
	return scanDetail(r.pool.QueryRow(ctx, detailQuery+` WHERE ro.id = $1`, id))
}

func (r *repository) List(ctx context.Context) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+` ORDER BY o.order_date DESC, ro.id DESC`)
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

const cartColumns = `id, items, total_amount, status, created_at, updated_at`

func scanCart(row pgx.Row) (*Cart, error) {
	var c Cart
	var items []byte
	err := row.Scan(&c.ID, &items, &c.TotalAmount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	if err := decodeItems(items, &c.Items); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetCart(ctx context.Context, id int64) (*Cart, error) {
	return scanCart(r.pool.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id))
}

func (r *repository) ListCarts(ctx context.Context) ([]Cart, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cartColumns+` FROM carts ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Cart
	for rows.Next() {
		c, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *repository) CreateCart(ctx context.Context, input CartInput) (int64, error) {
	items, err := orders.EncodeItems(input.Items)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.pool.QueryRow(ctx,
		`INSERT INTO carts (items, total_amount, status) VALUES ($1, $2, $3) RETURNING id`,
		items, input.TotalAmount, CartOpen,
	).Scan(&id)
	return id, err
}
