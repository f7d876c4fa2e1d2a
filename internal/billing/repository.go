package billing

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository exposes base invoice operations that cut across both
// invoice subtypes, used by the background worker.
type Repository interface {
	// ListOverdueCandidates returns pending or partial invoices whose
	// due date has passed as of the given time.
	ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]Invoice, error)
	// MarkOverdue flips the given invoices to overdue and reports how
	// many rows changed.
	MarkOverdue(ctx context.Context, ids []int64) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]Invoice, error) {
	query := `
		SELECT id, invoice_number, invoice_type, order_id, invoice_date, due_date,
		       total_amount, status, notes, created_at, updated_at
		FROM invoices
		WHERE status IN ($1, $2)
		  AND due_date IS NOT NULL
		  AND due_date < $3
		ORDER BY due_date
	`
	rows, err := r.pool.Query(ctx, query, StatusPending, StatusPartial, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.InvoiceType, &inv.OrderID, &inv.InvoiceDate,
			&inv.DueDate, &inv.TotalAmount, &inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *repository) MarkOverdue(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `
		UPDATE invoices
		SET status = $1, updated_at = $2
		WHERE id = ANY($3)
		  AND status IN ($4, $5)
	`
	cmdTag, err := r.pool.Exec(ctx, query, StatusOverdue, time.Now(), ids, StatusPending, StatusPartial)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}
