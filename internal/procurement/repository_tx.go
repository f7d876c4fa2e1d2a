package procurement

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/meridian-dms/meridian/internal/orders"
)

func decodeItems(raw []byte, target *[]orders.Item) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("procurement: decode items: %w", err)
	}
	return nil
}

// CreateOrder inserts the base order row.
func (t *txRepository) CreateOrder(ctx context.Context, o orders.Order) (int64, error) {
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

// CreatePurchaseOrder inserts the subtype row referencing the base order.
func (t *txRepository) CreatePurchaseOrder(ctx context.Context, orderID, supplierID int64, dueDate time.Time) (int64, error) {
	query := `
		INSERT INTO purchase_orders (order_id, supplier_id, due_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query, orderID, supplierID, dueDate).Scan(&id)
	return id, err
}

func applyUpdates(ctx context.Context, t *txRepository, table string, id int64, updates map[string]interface{}, notFound error) error {
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

// UpdateOrder patches base order columns.
func (t *txRepository) UpdateOrder(ctx context.Context, orderID int64, updates map[string]interface{}) error {
	return applyUpdates(ctx, t, "orders", orderID, updates, orders.ErrOrderNotFound)
}

// UpdatePurchaseOrder patches subtype columns.
func (t *txRepository) UpdatePurchaseOrder(ctx context.Context, id int64, updates map[string]interface{}) error {
	return applyUpdates(ctx, t, "purchase_orders", id, updates, ErrPurchaseOrderNotFound)
}

// DeleteOrder removes the base order. The schema cascades the delete to
// the subtype row, shipments and purchase invoices.
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

// CreateShipment inserts a shipment row.
func (t *txRepository) CreateShipment(ctx context.Context, input CreateShipmentInput) (int64, error) {
	query := `
		INSERT INTO shipments (shipment_number, purchase_order_id, supplier_id, shipment_date,
			expected_delivery_date, carrier, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := t.tx.QueryRow(ctx, query,
		input.ShipmentNumber, input.PurchaseOrderID, input.SupplierID, input.ShipmentDate,
		input.ExpectedDeliveryDate, input.Carrier, ShipmentPending, input.Notes,
	).Scan(&id)
	return id, err
}

// UpdateShipment patches shipment columns.
func (t *txRepository) UpdateShipment(ctx context.Context, id int64, updates map[string]interface{}) error {
	return applyUpdates(ctx, t, "shipments", id, updates, ErrShipmentNotFound)
}

// DeleteShipment removes a shipment row.
func (t *txRepository) DeleteShipment(ctx context.Context, id int64) error {
	cmdTag, err := t.tx.Exec(ctx, `DELETE FROM shipments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrShipmentNotFound
	}
	return nil
}
