package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-dms/meridian/internal/masterdata"
)

type memoryRepo struct {
	deliveries  map[int64]Delivery
	drivers     map[int64]masterdata.Driver
	vehicles    map[int64]masterdata.Vehicle
	assignments map[int64]int64 // sales order id -> delivery id

	nextID int64
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		deliveries:  make(map[int64]Delivery),
		drivers:     make(map[int64]masterdata.Driver),
		vehicles:    make(map[int64]masterdata.Vehicle),
		assignments: make(map[int64]int64),
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	deliverySnap := make(map[int64]Delivery, len(r.deliveries))
	for k, v := range r.deliveries {
		deliverySnap[k] = v
	}
	assignSnap := make(map[int64]int64, len(r.assignments))
	for k, v := range r.assignments {
		assignSnap[k] = v
	}
	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.deliveries = deliverySnap
		r.assignments = assignSnap
		return err
	}
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*Detail, error) {
	d, ok := r.deliveries[id]
	if !ok {
		return nil, ErrDeliveryNotFound
	}
	return &Detail{Delivery: d, Driver: r.drivers[d.DriverID], Vehicle: r.vehicles[d.VehicleID]}, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Detail, error) {
	var out []Detail
	for id := range r.deliveries {
		d, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *memoryRepo) ListSalesOrderIDs(ctx context.Context, deliveryID int64) ([]int64, error) {
	var out []int64
	for soID, dID := range r.assignments {
		if dID == deliveryID {
			out = append(out, soID)
		}
	}
	return out, nil
}

func (r *memoryRepo) CheckDriverExists(ctx context.Context, driverID int64) (bool, error) {
	_, ok := r.drivers[driverID]
	return ok, nil
}

func (r *memoryRepo) CheckVehicleExists(ctx context.Context, vehicleID int64) (bool, error) {
	_, ok := r.vehicles[vehicleID]
	return ok, nil
}

func (t *memoryTx) CreateDelivery(ctx context.Context, d Delivery) (int64, error) {
	t.repo.nextID++
	d.ID = t.repo.nextID
	t.repo.deliveries[d.ID] = d
	return d.ID, nil
}

func (t *memoryTx) UpdateDelivery(ctx context.Context, id int64, updates map[string]interface{}) error {
	d, ok := t.repo.deliveries[id]
	if !ok {
		return ErrDeliveryNotFound
	}
	for field, value := range updates {
		switch field {
		case "driver_id":
			d.DriverID = value.(int64)
		case "vehicle_id":
			d.VehicleID = value.(int64)
		case "status":
			d.Status = value.(Status)
		case "scheduled_date":
			d.ScheduledDate = value.(time.Time)
		case "delivered_date":
			delivered := value.(time.Time)
			d.DeliveredDate = &delivered
		}
	}
	t.repo.deliveries[id] = d
	return nil
}

func (t *memoryTx) AssignSalesOrders(ctx context.Context, deliveryID int64, salesOrderIDs []int64) error {
	for _, soID := range salesOrderIDs {
		t.repo.assignments[soID] = deliveryID
	}
	return nil
}

func (t *memoryTx) ReleaseSalesOrders(ctx context.Context, deliveryID int64) error {
	for soID, dID := range t.repo.assignments {
		if dID == deliveryID {
			delete(t.repo.assignments, soID)
		}
	}
	return nil
}

func newTestService(repo *memoryRepo) *Service {
	repo.drivers[5] = masterdata.Driver{ID: 5, Name: "Budi"}
	repo.vehicles[7] = masterdata.Vehicle{ID: 7, PlateNumber: "B 1234 XYZ"}
	return NewService(repo, nil)
}

func TestCreateSchedulesPendingRun(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		DriverID:      5,
		VehicleID:     7,
		SalesOrderIDs: []int64{20, 21},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, detail.Status)
	require.Regexp(t, `^DL-\d+$`, detail.DeliveryNumber)
	require.Nil(t, detail.DeliveredDate)

	ids, err := svc.SalesOrderIDs(context.Background(), detail.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{20, 21}, ids)
}

func TestCreateUnknownDriverOrVehicle(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateInput{DriverID: 99, VehicleID: 7})
	require.ErrorIs(t, err, masterdata.ErrDriverNotFound)

	_, err = svc.Create(context.Background(), CreateInput{DriverID: 5, VehicleID: 99})
	require.ErrorIs(t, err, masterdata.ErrVehicleNotFound)
}

func TestStatusLadder(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{DriverID: 5, VehicleID: 7})
	require.NoError(t, err)

	// pending cannot jump straight to completed
	completed := StatusCompleted
	_, err = svc.Update(context.Background(), detail.ID, UpdateInput{Status: &completed})
	require.ErrorIs(t, err, ErrInvalidTransition)

	inTransit := StatusInTransit
	after, err := svc.Update(context.Background(), detail.ID, UpdateInput{Status: &inTransit})
	require.NoError(t, err)
	require.Equal(t, StatusInTransit, after.Status)
	require.Nil(t, after.DeliveredDate)

	after, err = svc.Update(context.Background(), detail.ID, UpdateInput{Status: &completed})
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, after.Status)
	require.NotNil(t, after.DeliveredDate)

	// completed is terminal
	pending := StatusPending
	_, err = svc.Update(context.Background(), detail.ID, UpdateInput{Status: &pending})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateReplacesAssignedSalesOrders(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	detail, err := svc.Create(context.Background(), CreateInput{
		DriverID:      5,
		VehicleID:     7,
		SalesOrderIDs: []int64{20, 21},
	})
	require.NoError(t, err)

	replacement := []int64{22}
	_, err = svc.Update(context.Background(), detail.ID, UpdateInput{SalesOrderIDs: &replacement})
	require.NoError(t, err)

	ids, err := svc.SalesOrderIDs(context.Background(), detail.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{22}, ids)
}

func TestUpdateUnknownDelivery(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), 42, UpdateInput{})
	require.ErrorIs(t, err, ErrDeliveryNotFound)
}
