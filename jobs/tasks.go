package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverdueScan flips past-due invoices to overdue.
	TaskOverdueScan = "billing:overdue_scan"
)

// OverdueScanPayload parameterizes an overdue scan run. A zero
// GraceHours means invoices turn overdue the moment their due date
// passes.
type OverdueScanPayload struct {
	GraceHours int `json:"graceHours"`
}

// NewOverdueScanTask constructs an Asynq task.
func NewOverdueScanTask(payload OverdueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueScan, data), nil
}
