package ar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-dms/meridian/internal/billing"
	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/sales"
)

type memoryRepo struct {
	invoices  map[int64]billing.Invoice
	sis       map[int64]SalesInvoice
	sos       map[int64]sales.SalesOrder
	customers map[int64]masterdata.Customer

	nextInvoiceID int64
	nextSIID      int64
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		invoices:  make(map[int64]billing.Invoice),
		sis:       make(map[int64]SalesInvoice),
		sos:       make(map[int64]sales.SalesOrder),
		customers: make(map[int64]masterdata.Customer),
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	invSnap := make(map[int64]billing.Invoice, len(r.invoices))
	for k, v := range r.invoices {
		invSnap[k] = v
	}
	siSnap := make(map[int64]SalesInvoice, len(r.sis))
	for k, v := range r.sis {
		siSnap[k] = v
	}
	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.invoices = invSnap
		r.sis = siSnap
		return err
	}
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*Detail, error) {
	si, ok := r.sis[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	inv, ok := r.invoices[si.InvoiceID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	return &Detail{
		SalesInvoice: si,
		Invoice:      inv,
		SalesOrder:   r.sos[si.SalesOrderID],
		Customer:     r.customers[si.CustomerID],
	}, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Detail, error) {
	var out []Detail
	for id := range r.sis {
		d, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *memoryRepo) ListByDriver(ctx context.Context, driverID int64) ([]Detail, error) {
	var out []Detail
	for id, si := range r.sis {
		so := r.sos[si.SalesOrderID]
		if so.DriverID == nil || *so.DriverID != driverID {
			continue
		}
		d, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *memoryRepo) GetSalesOrder(ctx context.Context, id int64) (*sales.SalesOrder, error) {
	so, ok := r.sos[id]
	if !ok {
		return nil, sales.ErrSalesOrderNotFound
	}
	return &so, nil
}

func (t *memoryTx) CreateInvoice(ctx context.Context, inv billing.Invoice) (int64, error) {
	t.repo.nextInvoiceID++
	inv.ID = t.repo.nextInvoiceID
	t.repo.invoices[inv.ID] = inv
	return inv.ID, nil
}

func (t *memoryTx) CreateSalesInvoice(ctx context.Context, si SalesInvoice) (int64, error) {
	t.repo.nextSIID++
	si.ID = t.repo.nextSIID
	t.repo.sis[si.ID] = si
	return si.ID, nil
}

func (t *memoryTx) UpdateInvoice(ctx context.Context, invoiceID int64, updates map[string]interface{}) error {
	inv, ok := t.repo.invoices[invoiceID]
	if !ok {
		return billing.ErrInvoiceNotFound
	}
	for field, value := range updates {
		switch field {
		case "status":
			inv.Status = value.(billing.InvoiceStatus)
		case "total_amount":
			inv.TotalAmount = value.(float64)
		case "due_date":
			due := value.(time.Time)
			inv.DueDate = &due
		case "notes":
			notes := value.(string)
			inv.Notes = &notes
		}
	}
	t.repo.invoices[invoiceID] = inv
	return nil
}

func (t *memoryTx) UpdateSalesInvoice(ctx context.Context, id int64, updates map[string]interface{}) error {
	si, ok := t.repo.sis[id]
	if !ok {
		return ErrInvoiceNotFound
	}
	for field, value := range updates {
		switch field {
		case "collected_amount":
			si.CollectedAmount = value.(float64)
		case "collected_at":
			collectedAt := value.(time.Time)
			si.CollectedAt = &collectedAt
		case "payment_method":
			method := value.(string)
			si.PaymentMethod = &method
		case "delivery_id":
			deliveryID := value.(int64)
			si.DeliveryID = &deliveryID
		}
	}
	t.repo.sis[id] = si
	return nil
}

func (t *memoryTx) GetForCollect(ctx context.Context, id int64) (*CollectRow, error) {
	si, ok := t.repo.sis[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	inv := t.repo.invoices[si.InvoiceID]
	return &CollectRow{
		SubtypeID:       si.ID,
		InvoiceID:       si.InvoiceID,
		CollectedAmount: si.CollectedAmount,
		TotalAmount:     inv.TotalAmount,
	}, nil
}

func newTestService(repo *memoryRepo) *Service {
	driverID := int64(5)
	repo.customers[1] = masterdata.Customer{ID: 1, Name: "Toko Sinar"}
	repo.sos[20] = sales.SalesOrder{ID: 20, OrderID: 200, CustomerID: 1, DriverID: &driverID}
	repo.sos[21] = sales.SalesOrder{ID: 21, OrderID: 201, CustomerID: 1}
	return NewService(repo, nil)
}

func TestCreateOpensPendingWithZeroCollected(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		SalesOrderID:  20,
		InvoiceNumber: "SI-001",
		TotalAmount:   500,
		Subtotal:      500,
	})
	require.NoError(t, err)
	require.Equal(t, float64(0), detail.CollectedAmount)
	require.Nil(t, detail.CollectedAt)
	require.Equal(t, billing.StatusPending, detail.Invoice.Status)
	require.Equal(t, billing.TypeSales, detail.Invoice.InvoiceType)
	require.Equal(t, int64(200), detail.Invoice.OrderID)
	require.Equal(t, int64(1), detail.CustomerID)
}

func TestCreateUnresolvableSalesOrderIsValidationError(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateInput{SalesOrderID: 42, TotalAmount: 100})
	require.ErrorIs(t, err, ErrSalesOrderRequired)
}

func TestCollectStampsCollectedAtOnPartial(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		SalesOrderID:  20,
		InvoiceNumber: "SI-001",
		TotalAmount:   500,
	})
	require.NoError(t, err)

	after, err := svc.Collect(context.Background(), detail.ID, 200, nil)
	require.NoError(t, err)
	require.Equal(t, float64(200), after.CollectedAmount)
	require.Equal(t, billing.StatusPartial, after.Invoice.Status)
	require.NotNil(t, after.CollectedAt)

	after, err = svc.Collect(context.Background(), detail.ID, 300, nil)
	require.NoError(t, err)
	require.Equal(t, float64(500), after.CollectedAmount)
	require.Equal(t, billing.StatusPaid, after.Invoice.Status)
	require.NotNil(t, after.CollectedAt)
}

func TestCollectRecordsPaymentMethod(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		SalesOrderID:  20,
		InvoiceNumber: "SI-001",
		TotalAmount:   500,
	})
	require.NoError(t, err)

	method := "cash"
	after, err := svc.Collect(context.Background(), detail.ID, 500, &method)
	require.NoError(t, err)
	require.NotNil(t, after.PaymentMethod)
	require.Equal(t, "cash", *after.PaymentMethod)
	require.Equal(t, billing.StatusPaid, after.Invoice.Status)
}

func TestCollectOvercollectionStillSettles(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		SalesOrderID:  20,
		InvoiceNumber: "SI-001",
		TotalAmount:   500,
	})
	require.NoError(t, err)

	after, err := svc.Collect(context.Background(), detail.ID, 600, nil)
	require.NoError(t, err)
	require.Equal(t, float64(600), after.CollectedAmount)
	require.Equal(t, billing.StatusPaid, after.Invoice.Status)
}

func TestCollectRejectsNonPositiveAmount(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		SalesOrderID:  20,
		InvoiceNumber: "SI-001",
		TotalAmount:   500,
	})
	require.NoError(t, err)

	for _, amount := range []float64{0, -100} {
		_, err = svc.Collect(context.Background(), detail.ID, amount, nil)
		require.ErrorIs(t, err, ErrInvalidAmount)
	}

	after, err := svc.Get(context.Background(), detail.ID)
	require.NoError(t, err)
	require.Equal(t, float64(0), after.CollectedAmount)
	require.Nil(t, after.CollectedAt)
}

func TestCollectUnknownInvoice(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	_, err := svc.Collect(context.Background(), 42, 100, nil)
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestListByDriverFiltersAssignedOrders(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	assigned, err := svc.Create(context.Background(), CreateInput{
		SalesOrderID:  20,
		InvoiceNumber: "SI-001",
		TotalAmount:   500,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{
		SalesOrderID:  21,
		InvoiceNumber: "SI-002",
		TotalAmount:   300,
	})
	require.NoError(t, err)

	details, err := svc.ListByDriver(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, assigned.ID, details[0].ID)

	details, err = svc.ListByDriver(context.Background(), 99)
	require.NoError(t, err)
	require.Empty(t, details)
}

func TestUpdateOverwritesStatusSupervisory(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		SalesOrderID:  20,
		InvoiceNumber: "SI-001",
		TotalAmount:   500,
	})
	require.NoError(t, err)

	_, err = svc.Collect(context.Background(), detail.ID, 200, nil)
	require.NoError(t, err)

	status := billing.StatusPending
	after, err := svc.Update(context.Background(), detail.ID, UpdateInput{
		Invoice: billing.UpdateInput{Status: &status},
	})
	require.NoError(t, err)
	require.Equal(t, billing.StatusPending, after.Invoice.Status)
	require.Equal(t, float64(200), after.CollectedAmount)
}
