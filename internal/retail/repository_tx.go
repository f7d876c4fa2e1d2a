package retail

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/meridian-dms/meridian/internal/orders"
)

// OrderRow carries base order fields for the transactional insert.
type OrderRow struct {
	OrderNumber string
	OrderType   orders.OrderType
	OrderDate   time.Time
	Status      orders.Status
	TotalAmount float64
	Items       []orders.Item
	Notes       *string
}

func decodeItems(raw []byte, target *[]orders.Item) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("retail: decode items: %w", err)
	}
	return nil
}

func applyUpdates(ctx context.Context, tx pgx.Tx, table string, id int64, updates map[string]interface{}, notFound error) error {
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

	cmdTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

// CreateOrder inserts the base order row.
func (t *txRepository) CreateOrder(ctx context.Context, o OrderRow) (int64, error) {
	items, err := orders.EncodeItems(o.Items)
	if err != nil {
		return 0, err
	}
	query := `
		INSERT INTO orders (order_number, order_type, order_date, status, total_amount, items, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err = t.tx.QueryRow(ctx, query,
		o.OrderNumber, o.OrderType, o.OrderDate, o.Status, o.TotalAmount, items, o.Notes,
	).Scan(&id)
	return id, err
}

// CreateRetailOrder inserts the subtype row referencing the base order.
func (t *txRepository) CreateRetailOrder(ctx context.Context, ro RetailOrder) (int64, error) {
	query := `
		INSERT INTO retail_orders (order_id, cart_id)
		VALUES ($1, $2)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query, ro.OrderID, ro.CartID).Scan(&id)
	return id, err
}

// UpdateOrder patches base order columns.
func (t *txRepository) UpdateOrder(ctx context.Context, orderID int64, updates map[string]interface{}) error {
	return applyUpdates(ctx, t.tx, "orders", orderID, updates, orders.ErrOrderNotFound)
}

// UpdateCart patches cart columns.
func (t *txRepository) UpdateCart(ctx context.Context, cartID int64, updates map[string]interface{}) error {
	return applyUpdates(ctx, t.tx, "carts", cartID, updates, ErrCartNotFound)
}

// DeleteOrder removes the base order. The schema cascades the delete to
// the retail order subtype row.
func (t *txRepository) DeleteOrder(ctx context.Context, orderID int64) error {
	cmdTag, err := t.tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return orders.ErrOrderNotFound
	}
	return nil
}
