package procurement

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/orders"
)

type memoryRepo struct {
	orders       map[int64]orders.Order
	pos          map[int64]PurchaseOrder
	suppliers    map[int64]masterdata.Supplier
	shipments    map[int64]Shipment
	nextOrderID  int64
	nextPOID     int64
	nextShipID   int64
	failCreatePO bool
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		orders:    make(map[int64]orders.Order),
		pos:       make(map[int64]PurchaseOrder),
		suppliers: make(map[int64]masterdata.Supplier),
		shipments: make(map[int64]Shipment),
	}
}

func copyOrders(src map[int64]orders.Order) map[int64]orders.Order {
	dst := make(map[int64]orders.Order, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyPOs(src map[int64]PurchaseOrder) map[int64]PurchaseOrder {
	dst := make(map[int64]PurchaseOrder, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyShipments(src map[int64]Shipment) map[int64]Shipment {
	dst := make(map[int64]Shipment, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// WithTx emulates transaction rollback by restoring a snapshot on error.
func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	ordersSnap := copyOrders(r.orders)
	posSnap := copyPOs(r.pos)
	shipSnap := copyShipments(r.shipments)
	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.orders = ordersSnap
		r.pos = posSnap
		r.shipments = shipSnap
		return err
	}
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*Detail, error) {
	po, ok := r.pos[id]
	if !ok {
		return nil, ErrPurchaseOrderNotFound
	}
	return r.buildDetail(po)
}

func (r *memoryRepo) GetByOrderID(ctx context.Context, orderID int64) (*Detail, error) {
	for _, po := range r.pos {
		if po.OrderID == orderID {
			return r.buildDetail(po)
		}
	}
	return nil, ErrPurchaseOrderNotFound
}

func (r *memoryRepo) buildDetail(po PurchaseOrder) (*Detail, error) {
	order, ok := r.orders[po.OrderID]
	if !ok {
		return nil, ErrPurchaseOrderNotFound
	}
	return &Detail{
		PurchaseOrder: po,
		Order:         order,
		Supplier:      r.suppliers[po.SupplierID],
	}, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Detail, error) {
	var out []Detail
	for _, po := range r.pos {
		d, err := r.buildDetail(po)
		if err != nil {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *memoryRepo) Summarize(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	for _, po := range r.pos {
		order := r.orders[po.OrderID]
		summary.Total++
		summary.Amount += order.TotalAmount
		switch order.Status {
		case orders.StatusPending:
			summary.Pending++
		case orders.StatusCompleted:
			summary.Completed++
		case orders.StatusCancelled:
			summary.Cancelled++
		}
	}
	return summary, nil
}

func (r *memoryRepo) CheckSupplierExists(ctx context.Context, supplierID int64) (bool, error) {
	_, ok := r.suppliers[supplierID]
	return ok, nil
}

func (r *memoryRepo) GetShipment(ctx context.Context, id int64) (*Shipment, error) {
	s, ok := r.shipments[id]
	if !ok {
		return nil, ErrShipmentNotFound
	}
	return &s, nil
}

func (r *memoryRepo) ListShipments(ctx context.Context) ([]Shipment, error) {
	var out []Shipment
	for _, s := range r.shipments {
		out = append(out, s)
	}
	return out, nil
}

func (t *memoryTx) CreateOrder(ctx context.Context, o orders.Order) (int64, error) {
	for _, existing := range t.repo.orders {
		if existing.OrderNumber == o.OrderNumber {
			return 0, errors.New("duplicate order number")
		}
	}
	t.repo.nextOrderID++
	o.ID = t.repo.nextOrderID
	o.CreatedAt = time.Now()
	t.repo.orders[o.ID] = o
	return o.ID, nil
}

func (t *memoryTx) CreatePurchaseOrder(ctx context.Context, orderID, supplierID int64, dueDate time.Time) (int64, error) {
	if t.repo.failCreatePO {
		return 0, errors.New("injected subtype insert failure")
	}
	t.repo.nextPOID++
	t.repo.pos[t.repo.nextPOID] = PurchaseOrder{
		ID:         t.repo.nextPOID,
		OrderID:    orderID,
		SupplierID: supplierID,
		DueDate:    dueDate,
	}
	return t.repo.nextPOID, nil
}

func (t *memoryTx) UpdateOrder(ctx context.Context, orderID int64, updates map[string]interface{}) error {
	o, ok := t.repo.orders[orderID]
	if !ok {
		return orders.ErrOrderNotFound
	}
	for field, value := range updates {
		switch field {
		case "order_number":
			o.OrderNumber = value.(string)
		case "order_date":
			o.OrderDate = value.(time.Time)
		case "status":
			o.Status = value.(orders.Status)
		case "total_amount":
			o.TotalAmount = value.(float64)
		case "items":
			var items []orders.Item
			if err := json.Unmarshal(value.([]byte), &items); err != nil {
				return err
			}
			o.Items = items
		case "notes":
			notes := value.(string)
			o.Notes = &notes
		}
	}
	t.repo.orders[orderID] = o
	return nil
}

func (t *memoryTx) UpdatePurchaseOrder(ctx context.Context, id int64, updates map[string]interface{}) error {
	po, ok := t.repo.pos[id]
	if !ok {
		return ErrPurchaseOrderNotFound
	}
	for field, value := range updates {
		switch field {
		case "supplier_id":
			po.SupplierID = value.(int64)
		case "due_date":
			po.DueDate = value.(time.Time)
		}
	}
	t.repo.pos[id] = po
	return nil
}

func (t *memoryTx) DeleteOrder(ctx context.Context, orderID int64) error {
	if _, ok := t.repo.orders[orderID]; !ok {
		return orders.ErrOrderNotFound
	}
	delete(t.repo.orders, orderID)
	for id, po := range t.repo.pos {
		if po.OrderID == orderID {
			delete(t.repo.pos, id)
			for sid, s := range t.repo.shipments {
				if s.PurchaseOrderID == id {
					delete(t.repo.shipments, sid)
				}
			}
		}
	}
	return nil
}

func (t *memoryTx) CreateShipment(ctx context.Context, input CreateShipmentInput) (int64, error) {
	t.repo.nextShipID++
	t.repo.shipments[t.repo.nextShipID] = Shipment{
		ID:                   t.repo.nextShipID,
		ShipmentNumber:       input.ShipmentNumber,
		PurchaseOrderID:      input.PurchaseOrderID,
		SupplierID:           input.SupplierID,
		ShipmentDate:         input.ShipmentDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Carrier:              input.Carrier,
		Status:               ShipmentPending,
		Notes:                input.Notes,
	}
	return t.repo.nextShipID, nil
}

func (t *memoryTx) UpdateShipment(ctx context.Context, id int64, updates map[string]interface{}) error {
	s, ok := t.repo.shipments[id]
	if !ok {
		return ErrShipmentNotFound
	}
	for field, value := range updates {
		switch field {
		case "shipment_date":
			s.ShipmentDate = value.(time.Time)
		case "expected_delivery_date":
			s.ExpectedDeliveryDate = value.(time.Time)
		case "actual_delivery_date":
			d := value.(time.Time)
			s.ActualDeliveryDate = &d
		case "carrier":
			s.Carrier = value.(string)
		case "status":
			s.Status = value.(ShipmentStatus)
		case "notes":
			notes := value.(string)
			s.Notes = &notes
		}
	}
	t.repo.shipments[id] = s
	return nil
}

func (t *memoryTx) DeleteShipment(ctx context.Context, id int64) error {
	if _, ok := t.repo.shipments[id]; !ok {
		return ErrShipmentNotFound
	}
	delete(t.repo.shipments, id)
	return nil
}

func seedSupplier(repo *memoryRepo, id int64) {
	repo.suppliers[id] = masterdata.Supplier{ID: id, Name: "Acme Wholesale"}
}

func createInput(supplierID int64, number string, total float64) CreateInput {
	return CreateInput{
		SupplierID:  supplierID,
		DueDate:     time.Now().AddDate(0, 1, 0),
		OrderNumber: number,
		OrderDate:   time.Now(),
		TotalAmount: total,
		Items:       []orders.Item{{Name: "Rice 25kg", Quantity: 10}},
	}
}

func TestCreateWritesOrderAndSubtype(t *testing.T) {
	repo := newMemoryRepo()
	seedSupplier(repo, 7)
	svc := NewService(repo, nil)

	detail, err := svc.Create(context.Background(), createInput(7, "PO-1001", 1000))
	require.NoError(t, err)
	require.Equal(t, orders.TypePurchase, detail.Order.OrderType)
	require.Equal(t, orders.StatusPending, detail.Order.Status)
	require.Equal(t, int64(7), detail.SupplierID)
	require.Len(t, repo.orders, 1)
	require.Len(t, repo.pos, 1)
}

func TestCreateRollsBackBaseOrderOnSubtypeFailure(t *testing.T) {
	repo := newMemoryRepo()
	seedSupplier(repo, 7)
	repo.failCreatePO = true
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), createInput(7, "PO-1002", 500))
	require.Error(t, err)

	// The base order insert must not survive the failed subtype insert.
	require.Empty(t, repo.orders)
	require.Empty(t, repo.pos)
}

func TestCreateUnknownSupplier(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), createInput(99, "PO-1003", 500))
	require.ErrorIs(t, err, ErrSupplierRequired)
	require.Empty(t, repo.orders)
}

func TestUpdateTwoPhasePatch(t *testing.T) {
	repo := newMemoryRepo()
	seedSupplier(repo, 7)
	seedSupplier(repo, 8)
	svc := NewService(repo, nil)

	detail, err := svc.Create(context.Background(), createInput(7, "PO-1004", 900))
	require.NoError(t, err)

	status := orders.StatusCompleted
	newSupplier := int64(8)
	updated, err := svc.Update(context.Background(), detail.ID, UpdateInput{
		Order:      orders.UpdateInput{Status: &status},
		SupplierID: &newSupplier,
	})
	require.NoError(t, err)
	require.Equal(t, orders.StatusCompleted, updated.Order.Status)
	require.Equal(t, int64(8), updated.SupplierID)
	require.Equal(t, float64(900), updated.Order.TotalAmount)
}

func TestDeleteCascadesFromBaseOrder(t *testing.T) {
	repo := newMemoryRepo()
	seedSupplier(repo, 7)
	svc := NewService(repo, nil)

	detail, err := svc.Create(context.Background(), createInput(7, "PO-1005", 100))
	require.NoError(t, err)

	_, err = svc.CreateShipment(context.Background(), CreateShipmentInput{
		ShipmentNumber:       "SHP-1",
		PurchaseOrderID:      detail.ID,
		ShipmentDate:         time.Now(),
		ExpectedDeliveryDate: time.Now().AddDate(0, 0, 7),
		Carrier:              "DHL",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), detail.ID))

	_, err = svc.Get(context.Background(), detail.ID)
	require.ErrorIs(t, err, ErrPurchaseOrderNotFound)
	require.Empty(t, repo.orders)
	require.Empty(t, repo.shipments)
}

func TestDeleteUnknownPurchaseOrder(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	err := svc.Delete(context.Background(), 42)
	require.ErrorIs(t, err, ErrPurchaseOrderNotFound)
}

func TestShipmentStatusPatch(t *testing.T) {
	repo := newMemoryRepo()
	seedSupplier(repo, 7)
	svc := NewService(repo, nil)

	detail, err := svc.Create(context.Background(), createInput(7, "PO-1006", 100))
	require.NoError(t, err)

	shipment, err := svc.CreateShipment(context.Background(), CreateShipmentInput{
		ShipmentNumber:       "SHP-2",
		PurchaseOrderID:      detail.ID,
		ShipmentDate:         time.Now(),
		ExpectedDeliveryDate: time.Now().AddDate(0, 0, 7),
		Carrier:              "JNE",
	})
	require.NoError(t, err)
	require.Equal(t, ShipmentPending, shipment.Status)
	require.Equal(t, detail.SupplierID, shipment.SupplierID)

	status := ShipmentDelivered
	delivered := time.Now()
	updated, err := svc.UpdateShipment(context.Background(), shipment.ID, UpdateShipmentInput{
		Status:             &status,
		ActualDeliveryDate: &delivered,
	})
	require.NoError(t, err)
	require.Equal(t, ShipmentDelivered, updated.Status)
	require.NotNil(t, updated.ActualDeliveryDate)
}
