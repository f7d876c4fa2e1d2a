package ar

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/meridian-dms/meridian/internal/billing"
	"github.com/meridian-dms/meridian/internal/sales"
)

// Service implements the sales invoice engine.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create derives a sales invoice from an existing sales order. An
// unresolvable sales order id is a validation error, not a not-found
// error, because the caller may have omitted the id entirely.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Detail, error) {
	so, err := s.repo.GetSalesOrder(ctx, input.SalesOrderID)
	if err != nil {
		if errors.Is(err, sales.ErrSalesOrderNotFound) {
			return nil, ErrSalesOrderRequired
		}
		return nil, err
	}

	invoiceDate := input.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = s.now()
	}

	var siID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		invoiceID, err := tx.CreateInvoice(ctx, billing.Invoice{
			InvoiceNumber: input.InvoiceNumber,
			InvoiceType:   billing.TypeSales,
			OrderID:       so.OrderID,
			InvoiceDate:   invoiceDate,
			DueDate:       input.DueDate,
			TotalAmount:   input.TotalAmount,
			Status:        billing.StatusPending,
			Notes:         input.Notes,
		})
		if err != nil {
			return err
		}
		id, err := tx.CreateSalesInvoice(ctx, SalesInvoice{
			InvoiceID:       invoiceID,
			SalesOrderID:    so.ID,
			CustomerID:      so.CustomerID,
			DeliveryID:      so.DeliveryID,
			PaymentMethod:   input.PaymentMethod,
			Items:           input.Items,
			Subtotal:        input.Subtotal,
			CollectedAmount: 0,
		})
		if err != nil {
			return err
		}
		siID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, siID)
}

// Update applies the two-phase patch: base invoice fields first, then
// the subtype fields, both inside one transaction. This is the
// supervisory path; it allows arbitrary status overwrite.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Detail, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	baseUpdates := billing.BaseUpdates(input.Invoice)
	subtypeUpdates := map[string]interface{}{}
	if input.DeliveryID != nil {
		subtypeUpdates["delivery_id"] = *input.DeliveryID
	}
	if input.PaymentMethod != nil {
		subtypeUpdates["payment_method"] = *input.PaymentMethod
	}
	if input.CollectedAmount != nil {
		subtypeUpdates["collected_amount"] = *input.CollectedAmount
	}
	if input.CollectedAt != nil {
		subtypeUpdates["collected_at"] = *input.CollectedAt
	}

	if len(baseUpdates) > 0 || len(subtypeUpdates) > 0 {
		err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			if len(baseUpdates) > 0 {
				if err := tx.UpdateInvoice(ctx, detail.InvoiceID, baseUpdates); err != nil {
					return err
				}
			}
			if len(subtypeUpdates) > 0 {
				return tx.UpdateSalesInvoice(ctx, id, subtypeUpdates)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// Collect applies a collection amount to the invoice. Inside one
// transaction the current state is re-read under a row lock, then
// collectedAmount accumulates and the status flips to paid once the
// collected total covers the invoice total. Unlike the purchase side,
// collectedAt is stamped on every call, partial or not.
func (s *Service) Collect(ctx context.Context, id int64, amount float64, paymentMethod *string) (*Detail, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		row, err := tx.GetForCollect(ctx, id)
		if err != nil {
			return err
		}

		newCollected := row.CollectedAmount + amount
		status := billing.StatusPartial
		if newCollected >= row.TotalAmount {
			status = billing.StatusPaid
		}

		if err := tx.UpdateInvoice(ctx, row.InvoiceID, map[string]interface{}{
			"status": status,
		}); err != nil {
			return err
		}

		subtypeUpdates := map[string]interface{}{
			"collected_amount": newCollected,
			"collected_at":     s.now(),
		}
		if paymentMethod != nil {
			subtypeUpdates["payment_method"] = *paymentMethod
		}
		return tx.UpdateSalesInvoice(ctx, row.SubtypeID, subtypeUpdates)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Detail, error) {
	return s.repo.List(ctx)
}

// ListByDriver returns the collection worklist for a driver.
func (s *Service) ListByDriver(ctx context.Context, driverID int64) ([]Detail, error) {
	return s.repo.ListByDriver(ctx, driverID)
}
