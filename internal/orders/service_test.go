package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryOrderRepo struct {
	orders        map[int64]Order
	summarizeHits int
}

type memoryOrderTx struct {
	repo *memoryOrderRepo
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[int64]Order)}
}

func (r *memoryOrderRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryOrderTx{repo: r})
}

func (r *memoryOrderRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

func (r *memoryOrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (r *memoryOrderRepo) List(ctx context.Context, req ListRequest) ([]Order, int, error) {
	var out []Order
	for _, o := range r.orders {
		if req.Type != "" && o.OrderType != req.Type {
			continue
		}
		if req.Status != "" && o.Status != req.Status {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (r *memoryOrderRepo) Summarize(ctx context.Context) (*Summary, error) {
	r.summarizeHits++
	summary := &Summary{ByType: map[string]int{}, ByStatus: map[string]int{}}
	for _, o := range r.orders {
		summary.Total++
		summary.ByType[string(o.OrderType)]++
		summary.ByStatus[string(o.Status)]++
		summary.TotalAmount += o.TotalAmount
	}
	return summary, nil
}

func (t *memoryOrderTx) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	o, ok := t.repo.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	for field, value := range updates {
		switch field {
		case "order_number":
			o.OrderNumber = value.(string)
		case "order_date":
			o.OrderDate = value.(time.Time)
		case "status":
			o.Status = value.(Status)
		case "total_amount":
			o.TotalAmount = value.(float64)
		case "items":
			var items []Item
			if err := json.Unmarshal(value.([]byte), &items); err != nil {
				return err
			}
			o.Items = items
		case "notes":
			notes := value.(string)
			o.Notes = &notes
		}
	}
	o.UpdatedAt = time.Now()
	t.repo.orders[id] = o
	return nil
}

func seedOrder(repo *memoryOrderRepo, id int64, orderType OrderType, status Status, total float64) {
	repo.orders[id] = Order{
		ID:          id,
		OrderNumber: "ORD-" + time.Now().Format("20060102") + "-" + string(rune('0'+id)),
		OrderType:   orderType,
		OrderDate:   time.Now(),
		Status:      status,
		TotalAmount: total,
	}
}

func TestUpdateAppliesOnlySetPointers(t *testing.T) {
	repo := newMemoryOrderRepo()
	seedOrder(repo, 1, TypePurchase, StatusPending, 1000)
	svc := NewService(repo, nil, 0, nil)

	status := StatusProcessing
	updated, err := svc.Update(context.Background(), 1, UpdateInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, StatusProcessing, updated.Status)
	require.Equal(t, float64(1000), updated.TotalAmount)
}

func TestUpdateWritesZeroValues(t *testing.T) {
	repo := newMemoryOrderRepo()
	seedOrder(repo, 1, TypeSales, StatusPending, 750)
	svc := NewService(repo, nil, 0, nil)

	// A present zero must be written, not treated as absent.
	zero := 0.0
	empty := ""
	updated, err := svc.Update(context.Background(), 1, UpdateInput{TotalAmount: &zero, Notes: &empty})
	require.NoError(t, err)
	require.Equal(t, float64(0), updated.TotalAmount)
	require.NotNil(t, updated.Notes)
	require.Equal(t, "", *updated.Notes)
}

func TestUpdateUnknownOrder(t *testing.T) {
	repo := newMemoryOrderRepo()
	svc := NewService(repo, nil, 0, nil)

	status := StatusCompleted
	_, err := svc.Update(context.Background(), 99, UpdateInput{Status: &status})
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSummaryCountsByTypeAndStatus(t *testing.T) {
	repo := newMemoryOrderRepo()
	seedOrder(repo, 1, TypePurchase, StatusPending, 100)
	seedOrder(repo, 2, TypePurchase, StatusCompleted, 200)
	seedOrder(repo, 3, TypeSales, StatusPending, 300)
	svc := NewService(repo, nil, 0, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, summary.Total)
	require.Equal(t, 2, summary.ByType["purchase"])
	require.Equal(t, 1, summary.ByType["sales"])
	require.Equal(t, 2, summary.ByStatus["pending"])
	require.Equal(t, float64(600), summary.TotalAmount)
}

func TestSummaryServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemoryOrderRepo()
	seedOrder(repo, 1, TypeRetail, StatusCompleted, 50)
	svc := NewService(repo, client, time.Minute, nil)

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Total)

	second, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, first.Total, second.Total)
	require.Equal(t, 1, repo.summarizeHits)
}

func TestUpdateInvalidatesSummaryCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemoryOrderRepo()
	seedOrder(repo, 1, TypeRetail, StatusPending, 50)
	svc := NewService(repo, client, time.Minute, nil)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	status := StatusCompleted
	_, err = svc.Update(context.Background(), 1, UpdateInput{Status: &status})
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.ByStatus["completed"])
	require.Equal(t, 2, repo.summarizeHits)
}
