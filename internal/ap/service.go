package ap

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-dms/meridian/internal/billing"
)

// Service implements the purchase invoice engine.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create derives a purchase invoice from an existing purchase order.
// The base invoice and the subtype row are written in one transaction;
// the opening balance equals the invoice total.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Detail, error) {
	po, err := s.repo.GetPurchaseOrder(ctx, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}

	invoiceDate := input.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = s.now()
	}

	var piID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		invoiceID, err := tx.CreateInvoice(ctx, billing.Invoice{
			InvoiceNumber: input.InvoiceNumber,
			InvoiceType:   billing.TypePurchase,
			OrderID:       po.OrderID,
			InvoiceDate:   invoiceDate,
			DueDate:       input.DueDate,
			TotalAmount:   input.TotalAmount,
			Status:        billing.StatusPending,
			Notes:         input.Notes,
		})
		if err != nil {
			return err
		}
		id, err := tx.CreatePurchaseInvoice(ctx, PurchaseInvoice{
			InvoiceID:       invoiceID,
			PurchaseOrderID: po.ID,
			SupplierID:      po.SupplierID,
			PaidAmount:      0,
			Balance:         input.TotalAmount,
		})
		if err != nil {
			return err
		}
		piID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, piID)
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
	if input.PaidAmount != nil {
		subtypeUpdates["paid_amount"] = *input.PaidAmount
	}
	if input.Balance != nil {
		subtypeUpdates["balance"] = *input.Balance
	}
	if input.PaidDate != nil {
		subtypeUpdates["paid_date"] = *input.PaidDate
	}

	if len(baseUpdates) > 0 || len(subtypeUpdates) > 0 {
		err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			if len(baseUpdates) > 0 {
				if err := tx.UpdateInvoice(ctx, detail.InvoiceID, baseUpdates); err != nil {
					return err
				}
			}
			if len(subtypeUpdates) > 0 {
				return tx.UpdatePurchaseInvoice(ctx, id, subtypeUpdates)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// Pay applies a payment amount to the invoice. Inside one transaction
// the current state is re-read under a row lock, then:
//
//	newPaid    = paidAmount + amount
//	newBalance = max(0, totalAmount - newPaid)
//	status     = paid when the balance reaches zero, else partial
//
// paidDate is set only on full settlement and cleared otherwise.
// Overpayment is accepted and the balance clamps to zero.
func (s *Service) Pay(ctx context.Context, id int64, amount float64) (*Detail, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		row, err := tx.GetForPay(ctx, id)
		if err != nil {
			return err
		}

		newPaid := row.PaidAmount + amount
		newBalance := row.TotalAmount - newPaid
		if newBalance < 0 {
			newBalance = 0
		}

		status := billing.StatusPartial
		var paidDate *time.Time
		if newBalance <= 0 {
			status = billing.StatusPaid
			now := s.now()
			paidDate = &now
		}

		if err := tx.UpdateInvoice(ctx, row.InvoiceID, map[string]interface{}{
			"status": status,
		}); err != nil {
			return err
		}
		return tx.UpdatePurchaseInvoice(ctx, row.SubtypeID, map[string]interface{}{
			"paid_amount": newPaid,
			"balance":     newBalance,
			"paid_date":   paidDate,
		})
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
