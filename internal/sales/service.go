package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-dms/meridian/internal/orders"
)

// Service implements the sales order and payment engines.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create writes the base order and the sales order subtype in one
// transaction. The order number defaults to "SO-" + current millis.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Detail, error) {
	exists, err := s.repo.CheckCustomerExists(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCustomerRequired
	}
	if input.DriverID != nil {
		ok, err := s.repo.CheckDriverExists(ctx, *input.DriverID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDriverNotFound
		}
	}

	status := orders.StatusPending
	if input.Status != nil {
		status = *input.Status
	}
	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = s.now()
	}
	orderNumber := input.OrderNumber
	if orderNumber == "" {
		orderNumber = fmt.Sprintf("SO-%d", s.now().UnixMilli())
	}

	var soID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		orderID, err := tx.CreateOrder(ctx, OrderRow{
			OrderNumber: orderNumber,
			OrderType:   orders.TypeSales,
			OrderDate:   orderDate,
			Status:      status,
			TotalAmount: input.TotalAmount,
			Items:       input.Items,
			Notes:       input.Notes,
		})
		if err != nil {
			return err
		}
		id, err := tx.CreateSalesOrder(ctx, SalesOrder{
			OrderID:       orderID,
			CustomerID:    input.CustomerID,
			DriverID:      input.DriverID,
			PaymentStatus: PaymentUnpaid,
		})
		if err != nil {
			return err
		}
		soID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, soID)
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
	if input.CustomerID != nil {
		subtypeUpdates["customer_id"] = *input.CustomerID
	}
	if input.DriverID != nil {
		subtypeUpdates["driver_id"] = *input.DriverID
	}
	if input.PaymentStatus != nil {
		subtypeUpdates["payment_status"] = *input.PaymentStatus
	}

	if len(baseUpdates) > 0 || len(subtypeUpdates) > 0 {
		err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			if len(baseUpdates) > 0 {
				if err := tx.UpdateOrder(ctx, detail.OrderID, baseUpdates); err != nil {
					return err
				}
			}
			if len(subtypeUpdates) > 0 {
				return tx.UpdateSalesOrder(ctx, id, subtypeUpdates)
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
// cascade removes the sales order, its payments and sales invoices.
func (s *Service) Delete(ctx context.Context, id int64) error {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteOrder(ctx, detail.OrderID)
	})
}

// AssignDriver sets the driver on a sales order.
func (s *Service) AssignDriver(ctx context.Context, id, driverID int64) (*Detail, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	ok, err := s.repo.CheckDriverExists(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDriverNotFound
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateSalesOrder(ctx, id, map[string]interface{}{"driver_id": driverID})
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

// CreatePayment records a full settlement against a sales order. The
// amount must equal the order total exactly; partial and over-payments
// are rejected before any write. On success the payment row and the
// paymentStatus flip commit atomically.
func (s *Service) CreatePayment(ctx context.Context, salesOrderID int64, amount float64) (*PaymentDetail, error) {
	detail, err := s.repo.GetByID(ctx, salesOrderID)
	if err != nil {
		if errors.Is(err, ErrSalesOrderNotFound) {
			return nil, ErrSalesOrderRequired
		}
		return nil, err
	}
	if amount != detail.Order.TotalAmount {
		return nil, ErrAmountMismatch
	}

	var paymentID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreatePayment(ctx, Payment{
			Reference:    uuid.NewString(),
			SalesOrderID: salesOrderID,
			Amount:       amount,
			Status:       string(PaymentPaid),
		})
		if err != nil {
			return err
		}
		paymentID = id
		return tx.UpdateSalesOrder(ctx, salesOrderID, map[string]interface{}{
			"payment_status": PaymentPaid,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetPaymentDetail(ctx, paymentID)
}

// UpdatePaymentStatus sets the caller-supplied status on both the
// payment and its sales order in one transaction. The status value is
// not checked against an enum, matching the legacy contract.
func (s *Service) UpdatePaymentStatus(ctx context.Context, paymentID int64, status string) (*PaymentDetail, error) {
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdatePayment(ctx, paymentID, map[string]interface{}{"status": status}); err != nil {
			return err
		}
		return tx.UpdateSalesOrder(ctx, payment.SalesOrderID, map[string]interface{}{
			"payment_status": PaymentStatus(status),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetPaymentDetail(ctx, paymentID)
}

// GetPaymentDetail loads a payment with its sales order context.
func (s *Service) GetPaymentDetail(ctx context.Context, paymentID int64) (*PaymentDetail, error) {
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	detail, err := s.repo.GetByID(ctx, payment.SalesOrderID)
	if err != nil {
		return nil, err
	}
	return &PaymentDetail{Payment: *payment, SalesOrder: *detail}, nil
}

func (s *Service) ListPayments(ctx context.Context) ([]Payment, error) {
	return s.repo.ListPayments(ctx)
}
