package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/reimbursement"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timesheet"
)

type timesheetRepository struct {
	requests[timesheet.Timesheet]
}

func newTimesheetRepository(s *Store) timesheetRepository {
	return timesheetRepository{requests[timesheet.Timesheet]{
		store:    s,
		variant:  approval.VariantTimesheet,
		table:    func() map[string]timesheet.Timesheet { return s.timesheets },
		base:     func(t *timesheet.Timesheet) *approval.Request { return &t.Request },
		notFound: timesheet.ErrTimesheetNotFound,
	}}
}

func (r timesheetRepository) Create(ctx context.Context, t timesheet.Timesheet) (timesheet.Timesheet, error) {
	return r.create(ctx, t), nil
}

func (r timesheetRepository) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	return r.get(ctx, id)
}

func (r timesheetRepository) ListByWorker(ctx context.Context, workerID string, filter approval.ListFilter) ([]timesheet.Timesheet, error) {
	return r.listByWorker(ctx, workerID, filter), nil
}

type leaveRepository struct {
	requests[leave.LeaveRequest]
}

func newLeaveRepository(s *Store) leaveRepository {
	return leaveRepository{requests[leave.LeaveRequest]{
		store:    s,
		variant:  approval.VariantLeave,
		table:    func() map[string]leave.LeaveRequest { return s.leaves },
		base:     func(l *leave.LeaveRequest) *approval.Request { return &l.Request },
		notFound: leave.ErrLeaveRequestNotFound,
	}}
}

func (r leaveRepository) Create(ctx context.Context, l leave.LeaveRequest) (leave.LeaveRequest, error) {
	return r.create(ctx, l), nil
}

func (r leaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.get(ctx, id)
}

func (r leaveRepository) ListByWorker(ctx context.Context, workerID string, filter approval.ListFilter) ([]leave.LeaveRequest, error) {
	return r.listByWorker(ctx, workerID, filter), nil
}

// AcceptedLeaveDays implements timeledger.LeaveDayCounter.
func (r leaveRepository) AcceptedLeaveDays(ctx context.Context, workerIDs []string, from, to time.Time) (map[string]int, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	wanted := make(map[string]bool, len(workerIDs))
	for _, id := range workerIDs {
		wanted[id] = true
	}
	fromDay, toDay := dateOnly(from), dateOnly(to)

	days := make(map[string]int)
	for _, l := range r.table() {
		if l.Status != approval.StatusApproved {
			continue
		}
		if len(wanted) > 0 && !wanted[l.WorkerID] {
			continue
		}
		if dateOnly(l.StartDate).After(toDay) || dateOnly(l.EndDate).Before(fromDay) {
			continue
		}
		days[l.WorkerID] += l.DayCount
	}
	return days, nil
}

// dateOnly drops the clock so DATE columns compare the way PostgreSQL compares them
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type reimbursementRepository struct {
	requests[reimbursement.Reimbursement]
}

func newReimbursementRepository(s *Store) reimbursementRepository {
	return reimbursementRepository{requests[reimbursement.Reimbursement]{
		store:    s,
		variant:  approval.VariantReimbursement,
		table:    func() map[string]reimbursement.Reimbursement { return s.reimbursements },
		base:     func(rb *reimbursement.Reimbursement) *approval.Request { return &rb.Request },
		notFound: reimbursement.ErrReimbursementNotFound,
	}}
}

func (r reimbursementRepository) Create(ctx context.Context, rb reimbursement.Reimbursement) (reimbursement.Reimbursement, error) {
	return r.create(ctx, rb), nil
}

func (r reimbursementRepository) GetByID(ctx context.Context, id string) (reimbursement.Reimbursement, error) {
	return r.get(ctx, id)
}

func (r reimbursementRepository) ListByWorker(ctx context.Context, workerID string, filter approval.ListFilter) ([]reimbursement.Reimbursement, error) {
	return r.listByWorker(ctx, workerID, filter), nil
}
