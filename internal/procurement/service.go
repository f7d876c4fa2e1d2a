package procurement

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-dms/meridian/internal/orders"
)

// Service implements the purchase order engine.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create writes the base order and the purchase order subtype in one
// transaction: either both rows exist afterwards or neither does.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Detail, error) {
	exists, err := s.repo.CheckSupplierExists(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSupplierRequired
	}

	status := orders.StatusPending
	if input.Status != nil {
		status = *input.Status
	}
	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	var poID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		orderID, err := tx.CreateOrder(ctx, orders.Order{
			OrderNumber: input.OrderNumber,
			OrderType:   orders.TypePurchase,
			OrderDate:   orderDate,
			Status:      status,
			TotalAmount: input.TotalAmount,
			Items:       input.Items,
			Notes:       input.Notes,
		})
		if err != nil {
			return err
		}
		id, err := tx.CreatePurchaseOrder(ctx, orderID, input.SupplierID, input.DueDate)
		if err != nil {
			return err
		}
		poID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, poID)
}

// Update applies the two-phase patch: base order fields first, then the
// subtype fields, both inside one transaction.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Detail, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	baseUpdates := orders.BaseUpdates(input.Order)
	subtypeUpdates := map[string]interface{}{}
	if input.SupplierID != nil {
		subtypeUpdates["supplier_id"] = *input.SupplierID
	}
	if input.DueDate != nil {
		subtypeUpdates["due_date"] = *input.DueDate
	}

	if len(baseUpdates) > 0 || len(subtypeUpdates) > 0 {
		err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			if len(baseUpdates) > 0 {
				if err := tx.UpdateOrder(ctx, detail.OrderID, baseUpdates); err != nil {
					return err
				}
			}
			if len(subtypeUpdates) > 0 {
				return tx.UpdatePurchaseOrder(ctx, id, subtypeUpdates)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// Delete resolves the subtype row then deletes the base order; the
// cascade removes the purchase order, shipments and purchase invoices.
func (s *Service) Delete(ctx context.Context, id int64) error {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteOrder(ctx, detail.OrderID)
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Detail, error) {
	return s.repo.List(ctx)
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summarize(ctx)
}

// CreateShipment records an inbound shipment against a purchase order.
func (s *Service) CreateShipment(ctx context.Context, input CreateShipmentInput) (*Shipment, error) {
	po, err := s.repo.GetByID(ctx, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	input.SupplierID = po.SupplierID

	var shipmentID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateShipment(ctx, input)
		if err != nil {
			return err
		}
		shipmentID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetShipment(ctx, shipmentID)
}

// UpdateShipment applies a pointer-field patch to a shipment.
func (s *Service) UpdateShipment(ctx context.Context, id int64, input UpdateShipmentInput) (*Shipment, error) {
	if _, err := s.repo.GetShipment(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.ShipmentDate != nil {
		updates["shipment_date"] = *input.ShipmentDate
	}
	if input.ExpectedDeliveryDate != nil {
		updates["expected_delivery_date"] = *input.ExpectedDeliveryDate
	}
	if input.ActualDeliveryDate != nil {
		updates["actual_delivery_date"] = *input.ActualDeliveryDate
	}
	if input.Carrier != nil {
		updates["carrier"] = *input.Carrier
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) > 0 {
		err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			return tx.UpdateShipment(ctx, id, updates)
		})
		if err != nil {
			return nil, err
		}
	}
	return s.repo.GetShipment(ctx, id)
}

// DeleteShipment removes a shipment.
func (s *Service) DeleteShipment(ctx context.Context, id int64) error {
	if _, err := s.repo.GetShipment(ctx, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteShipment(ctx, id)
	})
}

func (s *Service) GetShipmentByID(ctx context.Context, id int64) (*Shipment, error) {
	return s.repo.GetShipment(ctx, id)
}

func (s *Service) ListShipments(ctx context.Context) ([]Shipment, error) {
	return s.repo.ListShipments(ctx)
}
