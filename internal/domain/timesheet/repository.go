package timesheet

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

// TimesheetRepository - interface for timesheets table
type TimesheetRepository interface {
	approval.RequestStore

	Create(ctx context.Context, ts Timesheet) (Timesheet, error)
	GetByID(ctx context.Context, id string) (Timesheet, error)
	ListByWorker(ctx context.Context, workerID string, filter approval.ListFilter) ([]Timesheet, error)
}
