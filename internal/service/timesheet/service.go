package timesheet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

type TimesheetServiceImpl struct {
	timesheet.TimesheetRepository
	ledger    timeledger.LedgerService
	approvals approval.ApprovalService
}

func NewTimesheetService(
	timesheetRepo timesheet.TimesheetRepository,
	ledger timeledger.LedgerService,
	approvals approval.ApprovalService,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		TimesheetRepository: timesheetRepo,
		ledger:              ledger,
		approvals:           approvals,
	}
}

// Submit implements timesheet.TimesheetService.
// Without explicit hours the entry takes the worker's ledger hours for that day.
func (s *TimesheetServiceImpl) Submit(ctx context.Context, req timesheet.SubmitTimesheetRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	day, _ := validator.IsValidDate(req.Date)

	status, err := s.approvals.InitialStatus(approval.VariantTimesheet)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	ts := timesheet.Timesheet{
		Request: approval.Request{
			WorkerID: req.WorkerID,
			Status:   status,
			Notes:    req.Notes,
		},
		Project: req.Project,
		Task:    req.Task,
		Date:    day,
	}

	if req.Hours != nil {
		ts.Hours = *req.Hours
	} else {
		summary, err := s.ledger.DailyHours(ctx, req.WorkerID, inLocation(day, s.ledger))
		if err != nil {
			return timesheet.TimesheetResponse{}, fmt.Errorf("failed to derive timesheet hours: %w", err)
		}
		ts.Hours = summary.Hours
		ts.HoursDerived = true
	}

	created, err := s.TimesheetRepository.Create(ctx, ts)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to create timesheet: %w", err)
	}

	slog.Info("timesheet submitted", "id", created.ID, "worker_id", created.WorkerID,
		"date", req.Date, "hours", created.Hours, "derived", created.HoursDerived)
	return timesheet.NewTimesheetResponse(created), nil
}

// Get implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Get(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	ts, err := s.TimesheetRepository.GetByID(ctx, id)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return timesheet.NewTimesheetResponse(ts), nil
}

// ListMine implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ListMine(ctx context.Context, workerID string, filter approval.ListFilter) ([]timesheet.TimesheetResponse, error) {
	items, err := s.TimesheetRepository.ListByWorker(ctx, workerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	resp := make([]timesheet.TimesheetResponse, 0, len(items))
	for _, ts := range items {
		resp = append(resp, timesheet.NewTimesheetResponse(ts))
	}
	return resp, nil
}
