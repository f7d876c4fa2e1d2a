package sales

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
		return fmt.Errorf("sales: decode items: %w", err)
	}
	return nil
}

func applyUpdates(ctx context.Context, tx pgx.Tx, table string, id int64, updates map[string]interface{}, notFound error, touchUpdatedAt bool) error {
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

	if touchUpdatedAt {
		setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argPos))
		args = append(args, time.Now())
		argPos++
	}

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

// CreateSalesOrder inserts the subtype row referencing the base order.
func (t *txRepository) CreateSalesOrder(ctx context.Context, so SalesOrder) (int64, error) {
	query := `
		INSERT INTO sales_orders (order_id, customer_id, driver_id, payment_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query, so.OrderID, so.CustomerID, so.DriverID, so.PaymentStatus).Scan(&id)
	return id, err
}

// UpdateOrder patches base order columns.
func (t *txRepository) UpdateOrder(ctx context.Context, orderID int64, updates map[string]interface{}) error {
	return applyUpdates(ctx, t.tx, "orders", orderID, updates, orders.ErrOrderNotFound, true)
}

// UpdateSalesOrder patches subtype columns.
func (t *txRepository) UpdateSalesOrder(ctx context.Context, id int64, updates map[string]interface{}) error {
	return applyUpdates(ctx, t.tx, "sales_orders", id, updates, ErrSalesOrderNotFound, true)
}

// DeleteOrder removes the base order. The schema cascades the delete to
// the subtype row, its payments and sales invoices.
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
