package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stitchdesk/stitchdesk/internal/jobs"
	"github.com/stitchdesk/stitchdesk/internal/payroll"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPayrollRefresh recomputes and re-caches payroll summaries for one
	// month across all groups.
	TaskPayrollRefresh = "payroll:refresh"
)

// PayrollRefreshPayload names the month to recompute. An empty month means
// the month in which the task runs, which lets a cron registration reuse one
// static payload.
type PayrollRefreshPayload struct {
	Month string `json:"month"`
}

// NewPayrollRefreshTask constructs an Asynq task.
func NewPayrollRefreshTask(payload PayrollRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPayrollRefresh, data), nil
}

// PayrollRefresher recomputes a month's summaries.
type PayrollRefresher interface {
	RefreshMonth(ctx context.Context, month payroll.Month) error
}

// NewPayrollRefreshHandler builds the handler for TaskPayrollRefresh.
func NewPayrollRefreshHandler(service PayrollRefresher, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskPayrollRefresh)
		var payload PayrollRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			_ = tracker.End(err)
			return asynq.SkipRetry
		}
		month := payroll.MonthOf(time.Now().UTC())
		if payload.Month != "" {
			parsed, err := payroll.ParseMonth(payload.Month)
			if err != nil {
				_ = tracker.End(err)
				return asynq.SkipRetry
			}
			month = parsed
		}
		return tracker.End(service.RefreshMonth(ctx, month))
	}
}
