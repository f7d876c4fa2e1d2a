package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-dms/meridian/internal/billing"
)

// OverdueScanJob marks pending and partial invoices whose due date has
// passed as overdue.
type OverdueScanJob struct {
	Repo   billing.Repository
	Logger *slog.Logger
	clock  func() time.Time
}

// NewOverdueScanJob initialises the overdue scan handler.
func NewOverdueScanJob(repo billing.Repository, logger *slog.Logger) *OverdueScanJob {
	return &OverdueScanJob{
		Repo:   repo,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the overdue scan.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	asOf := j.clock().Add(-time.Duration(payload.GraceHours) * time.Hour)
	logger := j.logger().With(slog.Time("as_of", asOf))
	logger.Info("starting overdue scan")

	candidates, err := j.Repo.ListOverdueCandidates(ctx, asOf)
	if err != nil {
		logger.Error("list overdue candidates", slog.Any("error", err))
		return err
	}
	if len(candidates) == 0 {
		logger.Info("no overdue candidates")
		return nil
	}

	ids := make([]int64, 0, len(candidates))
	for _, inv := range candidates {
		ids = append(ids, inv.ID)
	}
	flipped, err := j.Repo.MarkOverdue(ctx, ids)
	if err != nil {
		logger.Error("mark overdue", slog.Any("error", err))
		return err
	}

	logger.Info("completed overdue scan",
		slog.Int("candidates", len(candidates)),
		slog.Int64("flipped", flipped),
	)
	return nil
}

func (j *OverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
