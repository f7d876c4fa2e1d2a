package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridian-dms/meridian/internal/masterdata"
)

// Service implements delivery scheduling and assignment.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create schedules a delivery run and attaches the given sales orders
// in the same transaction. The delivery number defaults to "DL-" +
// current millis.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Detail, error) {
	ok, err := s.repo.CheckDriverExists(ctx, input.DriverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, masterdata.ErrDriverNotFound
	}
	ok, err = s.repo.CheckVehicleExists(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, masterdata.ErrVehicleNotFound
	}

	deliveryNumber := input.DeliveryNumber
	if deliveryNumber == "" {
		deliveryNumber = fmt.Sprintf("DL-%d", s.now().UnixMilli())
	}
	scheduledDate := input.ScheduledDate
	if scheduledDate.IsZero() {
		scheduledDate = s.now()
	}

	var deliveryID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateDelivery(ctx, Delivery{
			DeliveryNumber: deliveryNumber,
			DriverID:       input.DriverID,
			VehicleID:      input.VehicleID,
			Status:         StatusPending,
			ScheduledDate:  scheduledDate,
		})
		if err != nil {
			return err
		}
		deliveryID = id
		return tx.AssignSalesOrders(ctx, id, input.SalesOrderIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, deliveryID)
}

// Update patches a delivery. Status moves are checked against the
// pending -> in_transit -> completed ladder; completing the run stamps
// DeliveredDate. Reassigning sales orders replaces the whole set.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Detail, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.DriverID != nil {
		ok, err := s.repo.CheckDriverExists(ctx, *input.DriverID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, masterdata.ErrDriverNotFound
		}
		updates["driver_id"] = *input.DriverID
	}
	if input.VehicleID != nil {
		ok, err := s.repo.CheckVehicleExists(ctx, *input.VehicleID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, masterdata.ErrVehicleNotFound
		}
		updates["vehicle_id"] = *input.VehicleID
	}
	if input.ScheduledDate != nil {
		updates["scheduled_date"] = *input.ScheduledDate
	}
	if input.Status != nil && *input.Status != detail.Status {
		if !detail.Status.CanTransition(*input.Status) {
			return nil, ErrInvalidTransition
		}
		updates["status"] = *input.Status
		if *input.Status == StatusCompleted {
			updates["delivered_date"] = s.now()
		}
	}

	if len(updates) > 0 || input.SalesOrderIDs != nil {
		err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			if len(updates) > 0 {
				if err := tx.UpdateDelivery(ctx, id, updates); err != nil {
					return err
				}
			}
			if input.SalesOrderIDs != nil {
				if err := tx.ReleaseSalesOrders(ctx, id); err != nil {
					return err
				}
				return tx.AssignSalesOrders(ctx, id, *input.SalesOrderIDs)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Detail, error) {
	return s.repo.List(ctx)
}

// SalesOrderIDs lists the sales orders attached to a delivery.
func (s *Service) SalesOrderIDs(ctx context.Context, id int64) ([]int64, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListSalesOrderIDs(ctx, id)
}
