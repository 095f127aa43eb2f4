package timesheet

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

type TimesheetService interface {
	Submit(ctx context.Context, req SubmitTimesheetRequest) (TimesheetResponse, error)
	Get(ctx context.Context, id string) (TimesheetResponse, error)
	ListMine(ctx context.Context, workerID string, filter approval.ListFilter) ([]TimesheetResponse, error)
}
