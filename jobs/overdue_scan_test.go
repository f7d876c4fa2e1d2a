package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/meridian-dms/meridian/internal/billing"
)

type memoryBillingRepo struct {
	invoices map[int64]billing.Invoice
}

func (r *memoryBillingRepo) ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]billing.Invoice, error) {
	var out []billing.Invoice
	for _, inv := range r.invoices {
		if inv.Status != billing.StatusPending && inv.Status != billing.StatusPartial {
			continue
		}
		if inv.DueDate == nil || !inv.DueDate.Before(asOf) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *memoryBillingRepo) MarkOverdue(ctx context.Context, ids []int64) (int64, error) {
	var flipped int64
	for _, id := range ids {
		inv, ok := r.invoices[id]
		if !ok {
			continue
		}
		if inv.Status != billing.StatusPending && inv.Status != billing.StatusPartial {
			continue
		}
		inv.Status = billing.StatusOverdue
		r.invoices[id] = inv
		flipped++
	}
	return flipped, nil
}

func TestOverdueScanFlipsPastDueInvoices(t *testing.T) {
	now := time.Date(2025, 6, 15, 2, 0, 0, 0, time.UTC)
	pastDue := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	repo := &memoryBillingRepo{invoices: map[int64]billing.Invoice{
		1: {ID: 1, Status: billing.StatusPending, DueDate: &pastDue},
		2: {ID: 2, Status: billing.StatusPartial, DueDate: &pastDue},
		3: {ID: 3, Status: billing.StatusPending, DueDate: &future},
		4: {ID: 4, Status: billing.StatusPaid, DueDate: &pastDue},
		5: {ID: 5, Status: billing.StatusPending},
	}}

	job := NewOverdueScanJob(repo, nil)
	job.clock = func() time.Time { return now }

	task, err := NewOverdueScanTask(OverdueScanPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Equal(t, billing.StatusOverdue, repo.invoices[1].Status)
	require.Equal(t, billing.StatusOverdue, repo.invoices[2].Status)
	require.Equal(t, billing.StatusPending, repo.invoices[3].Status)
	require.Equal(t, billing.StatusPaid, repo.invoices[4].Status)
	require.Equal(t, billing.StatusPending, repo.invoices[5].Status)
}

func TestOverdueScanHonoursGracePeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 2, 0, 0, 0, time.UTC)
	justDue := now.Add(-2 * time.Hour)

	repo := &memoryBillingRepo{invoices: map[int64]billing.Invoice{
		1: {ID: 1, Status: billing.StatusPending, DueDate: &justDue},
	}}

	job := NewOverdueScanJob(repo, nil)
	job.clock = func() time.Time { return now }

	task, err := NewOverdueScanTask(OverdueScanPayload{GraceHours: 24})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, billing.StatusPending, repo.invoices[1].Status)
}

func TestOverdueScanSkipsRetryOnBadPayload(t *testing.T) {
	repo := &memoryBillingRepo{invoices: map[int64]billing.Invoice{}}
	job := NewOverdueScanJob(repo, nil)

	task := asynq.NewTask(TaskOverdueScan, []byte("{not json"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}
