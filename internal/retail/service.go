package retail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridian-dms/meridian/internal/orders"
)

// Service implements the cart and retail order engines.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create snapshots the cart into a completed retail order. The total
// and items come from the cart, the base order is created with status
// completed unconditionally, and the cart flips to completed in the
// same transaction. The default order number is "RO-" + current
// millis, which is not collision-safe for two creates in the same
// millisecond.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Detail, error) {
	cart, err := s.repo.GetCart(ctx, input.CartID)
	if err != nil {
		return nil, err
	}

	orderNumber := input.OrderNumber
	if orderNumber == "" {
		orderNumber = fmt.Sprintf("RO-%d", s.now().UnixMilli())
	}

	var roID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		orderID, err := tx.CreateOrder(ctx, OrderRow{
			OrderNumber: orderNumber,
			OrderType:   orders.TypeRetail,
			OrderDate:   s.now(),
			Status:      orders.StatusCompleted,
			TotalAmount: cart.TotalAmount,
			Items:       cart.Items,
			Notes:       input.Notes,
		})
		if err != nil {
			return err
		}
		id, err := tx.CreateRetailOrder(ctx, RetailOrder{
			OrderID: orderID,
			CartID:  cart.ID,
		})
		if err != nil {
			return err
		}
		roID = id
		return tx.UpdateCart(ctx, cart.ID, map[string]interface{}{
			"status": CartCompleted,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, roID)
}

// Update patches the base order; the subtype row has nothing mutable.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Detail, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) > 0 {
		err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			return tx.UpdateOrder(ctx, detail.OrderID, updates)
		})
		if err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// Delete resolves the subtype row then deletes the base order; the
// cascade removes the retail order row.
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

// CreateCart opens a new cart.
func (s *Service) CreateCart(ctx context.Context, input CartInput) (*Cart, error) {
	id, err := s.repo.CreateCart(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.repo.GetCart(ctx, id)
}

// UpdateCart replaces the cart's items and total.
func (s *Service) UpdateCart(ctx context.Context, id int64, input CartInput) (*Cart, error) {
	if _, err := s.repo.GetCart(ctx, id); err != nil {
		return nil, err
	}
	items, err := orders.EncodeItems(input.Items)
	if err != nil {
		return nil, err
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateCart(ctx, id, map[string]interface{}{
			"items":        items,
			"total_amount": input.TotalAmount,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetCart(ctx, id)
}

func (s *Service) GetCart(ctx context.Context, id int64) (*Cart, error) {
	return s.repo.GetCart(ctx, id)
}

func (s *Service) ListCarts(ctx context.Context) ([]Cart, error) {
	return s.repo.ListCarts(ctx)
}
