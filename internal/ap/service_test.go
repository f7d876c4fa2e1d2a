package ap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-dms/meridian/internal/billing"
	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/procurement"
)

type memoryRepo struct {
	invoices  map[int64]billing.Invoice
	pis       map[int64]PurchaseInvoice
	pos       map[int64]procurement.PurchaseOrder
	suppliers map[int64]masterdata.Supplier

	nextInvoiceID int64
	nextPIID      int64

	failCreatePI bool
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		invoices:  make(map[int64]billing.Invoice),
		pis:       make(map[int64]PurchaseInvoice),
		pos:       make(map[int64]procurement.PurchaseOrder),
		suppliers: make(map[int64]masterdata.Supplier),
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	invSnap := make(map[int64]billing.Invoice, len(r.invoices))
	for k, v := range r.invoices {
		invSnap[k] = v
	}
	piSnap := make(map[int64]PurchaseInvoice, len(r.pis))
	for k, v := range r.pis {
		piSnap[k] = v
	}
	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.invoices = invSnap
		r.pis = piSnap
		return err
	}
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*Detail, error) {
	pi, ok := r.pis[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	inv, ok := r.invoices[pi.InvoiceID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	return &Detail{
		PurchaseInvoice: pi,
		Invoice:         inv,
		PurchaseOrder:   r.pos[pi.PurchaseOrderID],
		Supplier:        r.suppliers[pi.SupplierID],
	}, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Detail, error) {
	var out []Detail
	for id := range r.pis {
		d, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *memoryRepo) GetPurchaseOrder(ctx context.Context, id int64) (*procurement.PurchaseOrder, error) {
	po, ok := r.pos[id]
	if !ok {
		return nil, procurement.ErrPurchaseOrderNotFound
	}
	return &po, nil
}

func (t *memoryTx) CreateInvoice(ctx context.Context, inv billing.Invoice) (int64, error) {
	t.repo.nextInvoiceID++
	inv.ID = t.repo.nextInvoiceID
	t.repo.invoices[inv.ID] = inv
	return inv.ID, nil
}

func (t *memoryTx) CreatePurchaseInvoice(ctx context.Context, pi PurchaseInvoice) (int64, error) {
	if t.repo.failCreatePI {
		return 0, errors.New("simulated subtype insert failure")
	}
	t.repo.nextPIID++
	pi.ID = t.repo.nextPIID
	t.repo.pis[pi.ID] = pi
	return pi.ID, nil
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

func (t *memoryTx) UpdatePurchaseInvoice(ctx context.Context, id int64, updates map[string]interface{}) error {
	pi, ok := t.repo.pis[id]
	if !ok {
		return ErrInvoiceNotFound
	}
	for field, value := range updates {
		switch field {
		case "paid_amount":
			pi.PaidAmount = value.(float64)
		case "balance":
			pi.Balance = value.(float64)
		case "paid_date":
			pi.PaidDate, _ = value.(*time.Time)
		}
	}
	t.repo.pis[id] = pi
	return nil
}

func (t *memoryTx) GetForPay(ctx context.Context, id int64) (*PayRow, error) {
	pi, ok := t.repo.pis[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	inv := t.repo.invoices[pi.InvoiceID]
	return &PayRow{
		SubtypeID:   pi.ID,
		InvoiceID:   pi.InvoiceID,
		PaidAmount:  pi.PaidAmount,
		TotalAmount: inv.TotalAmount,
	}, nil
}

func newTestService(repo *memoryRepo) *Service {
	repo.suppliers[1] = masterdata.Supplier{ID: 1, Name: "PT Sumber Makmur"}
	repo.pos[10] = procurement.PurchaseOrder{ID: 10, OrderID: 100, SupplierID: 1}
	return NewService(repo, nil)
}

func TestCreateOpensWithFullBalance(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		PurchaseOrderID: 10,
		InvoiceNumber:   "PI-001",
		TotalAmount:     1000,
	})
	require.NoError(t, err)
	require.Equal(t, float64(0), detail.PaidAmount)
	require.Equal(t, float64(1000), detail.Balance)
	require.Nil(t, detail.PaidDate)
	require.Equal(t, billing.StatusPending, detail.Invoice.Status)
	require.Equal(t, billing.TypePurchase, detail.Invoice.InvoiceType)
	require.Equal(t, int64(100), detail.Invoice.OrderID)
	require.Equal(t, int64(1), detail.SupplierID)
}

func TestCreateUnknownPurchaseOrder(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateInput{PurchaseOrderID: 42, TotalAmount: 100})
	require.ErrorIs(t, err, procurement.ErrPurchaseOrderNotFound)
}

func TestCreateRollsBackInvoiceOnSubtypeFailure(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	repo.failCreatePI = true

	_, err := svc.Create(context.Background(), CreateInput{
		PurchaseOrderID: 10,
		InvoiceNumber:   "PI-001",
		TotalAmount:     1000,
	})
	require.Error(t, err)
	require.Empty(t, repo.invoices)
	require.Empty(t, repo.pis)
}

func TestPayPartialThenSettle(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		PurchaseOrderID: 10,
		InvoiceNumber:   "PI-001",
		TotalAmount:     1000,
	})
	require.NoError(t, err)

	after, err := svc.Pay(context.Background(), detail.ID, 400)
	require.NoError(t, err)
	require.Equal(t, float64(400), after.PaidAmount)
	require.Equal(t, float64(600), after.Balance)
	require.Equal(t, billing.StatusPartial, after.Invoice.Status)
	require.Nil(t, after.PaidDate)

	after, err = svc.Pay(context.Background(), detail.ID, 600)
	require.NoError(t, err)
	require.Equal(t, float64(1000), after.PaidAmount)
	require.Equal(t, float64(0), after.Balance)
	require.Equal(t, billing.StatusPaid, after.Invoice.Status)
	require.NotNil(t, after.PaidDate)
}

func TestPayOverpaymentClampsBalance(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		PurchaseOrderID: 10,
		InvoiceNumber:   "PI-001",
		TotalAmount:     500,
	})
	require.NoError(t, err)

	after, err := svc.Pay(context.Background(), detail.ID, 800)
	require.NoError(t, err)
	require.Equal(t, float64(800), after.PaidAmount)
	require.Equal(t, float64(0), after.Balance)
	require.Equal(t, billing.StatusPaid, after.Invoice.Status)
	require.NotNil(t, after.PaidDate)
}

func TestPayBalanceStaysDerived(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		PurchaseOrderID: 10,
		InvoiceNumber:   "PI-001",
		TotalAmount:     1000,
	})
	require.NoError(t, err)

	for _, amount := range []float64{150, 250, 100, 700} {
		after, err := svc.Pay(context.Background(), detail.ID, amount)
		require.NoError(t, err)

		expected := after.Invoice.TotalAmount - after.PaidAmount
		if expected < 0 {
			expected = 0
		}
		require.Equal(t, expected, after.Balance)
	}
}

func TestPayRejectsNonPositiveAmount(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		PurchaseOrderID: 10,
		InvoiceNumber:   "PI-001",
		TotalAmount:     1000,
	})
	require.NoError(t, err)

	for _, amount := range []float64{0, -50} {
		_, err = svc.Pay(context.Background(), detail.ID, amount)
		require.ErrorIs(t, err, ErrInvalidAmount)
	}

	after, err := svc.Get(context.Background(), detail.ID)
	require.NoError(t, err)
	require.Equal(t, float64(0), after.PaidAmount)
	require.Equal(t, billing.StatusPending, after.Invoice.Status)
}

func TestPayUnknownInvoice(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	_, err := svc.Pay(context.Background(), 42, 100)
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestUpdatePatchesBothRows(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		PurchaseOrderID: 10,
		InvoiceNumber:   "PI-001",
		TotalAmount:     1000,
	})
	require.NoError(t, err)

	status := billing.StatusOverdue
	paid := float64(250)
	after, err := svc.Update(context.Background(), detail.ID, UpdateInput{
		Invoice:    billing.UpdateInput{Status: &status},
		PaidAmount: &paid,
	})
	require.NoError(t, err)
	require.Equal(t, billing.StatusOverdue, after.Invoice.Status)
	require.Equal(t, float64(250), after.PaidAmount)
	require.Equal(t, float64(1000), after.Balance)
}
