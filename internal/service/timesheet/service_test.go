package timesheet_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/memory"
	approvalService "github.com/cmlabs-hris/hris-workflow-go/internal/service/approval"
	ledgerService "github.com/cmlabs-hris/hris-workflow-go/internal/service/timeledger"
	timesheetService "github.com/cmlabs-hris/hris-workflow-go/internal/service/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, loc *time.Location) (timeledger.LedgerService, timesheet.TimesheetService) {
	t.Helper()
	store := memory.NewStore()
	workerID := "w1"
	store.AddIdentity(
		user.Identity{UserID: "u1", WorkerID: &workerID, Role: user.RoleEmployee},
		&employee.Employee{ID: workerID, EmployeeCode: "E-1", FullName: "Ana"},
	)

	ledger := ledgerService.NewLedgerService(store.Punches(), store.Leaves(), store.Employees(), nil, nil, loc)
	approvals := approvalService.NewApprovalService(
		map[approval.Variant]approval.RequestStore{
			approval.VariantTimesheet:     store.Timesheets(),
			approval.VariantLeave:         store.Leaves(),
			approval.VariantReimbursement: store.Reimbursements(),
		},
		store.Actions(), store, approval.DefaultChainConfig(), store.Identities(), nil,
	)
	return ledger, timesheetService.NewTimesheetService(store.Timesheets(), ledger, approvals)
}

func record(t *testing.T, ledger timeledger.LedgerService, kind timeledger.PunchKind, at time.Time) {
	t.Helper()
	_, err := ledger.RecordPunch(context.Background(), timeledger.RecordPunchRequest{
		WorkerID: "w1", Kind: string(kind), OccurredAt: &at,
	})
	require.NoError(t, err)
}

// IN at 09:00 and OUT at 18:00 with no hours supplied stores 9.00
func TestSubmit_DerivesHoursFromLedger(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	ledger, svc := setup(t, loc)

	record(t, ledger, timeledger.PunchIn, time.Date(2026, 4, 6, 9, 0, 0, 0, loc))
	record(t, ledger, timeledger.PunchOut, time.Date(2026, 4, 6, 18, 0, 0, 0, loc))

	resp, err := svc.Submit(context.Background(), timesheet.SubmitTimesheetRequest{
		WorkerID: "w1", Project: "Apollo", Task: "review", Date: "2026-04-06",
	})
	require.NoError(t, err)
	assert.InDelta(t, 9.0, resp.Hours, 0.0001)
	assert.True(t, resp.HoursDerived)
	assert.Equal(t, "PENDING_MANAGER", resp.Status)
	assert.Equal(t, "2026-04-06", resp.Date)
}

func TestSubmit_ExplicitHoursWin(t *testing.T) {
	ledger, svc := setup(t, time.UTC)
	record(t, ledger, timeledger.PunchIn, time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC))
	record(t, ledger, timeledger.PunchOut, time.Date(2026, 4, 6, 18, 0, 0, 0, time.UTC))

	hours := 6.5
	resp, err := svc.Submit(context.Background(), timesheet.SubmitTimesheetRequest{
		WorkerID: "w1", Project: "Apollo", Task: "review", Date: "2026-04-06", Hours: &hours,
	})
	require.NoError(t, err)
	assert.InDelta(t, 6.5, resp.Hours, 0.0001)
	assert.False(t, resp.HoursDerived)
}

func TestSubmit_NoPunchesGivesZeroHours(t *testing.T) {
	_, svc := setup(t, time.UTC)

	resp, err := svc.Submit(context.Background(), timesheet.SubmitTimesheetRequest{
		WorkerID: "w1", Project: "Apollo", Task: "review", Date: "2026-04-07",
	})
	require.NoError(t, err)
	assert.Zero(t, resp.Hours)
}

func TestSubmit_Validation(t *testing.T) {
	_, svc := setup(t, time.UTC)
	bad := 30.0

	_, err := svc.Submit(context.Background(), timesheet.SubmitTimesheetRequest{
		WorkerID: "w1", Date: "06-04-2026", Hours: &bad,
	})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "project")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "hours")
}

func TestListMineAndGet(t *testing.T) {
	_, svc := setup(t, time.UTC)
	hours := 8.0
	created, err := svc.Submit(context.Background(), timesheet.SubmitTimesheetRequest{
		WorkerID: "w1", Project: "Apollo", Task: "build", Date: "2026-04-06", Hours: &hours,
	})
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), "w1", approval.ListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "build", got.Task)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, approval.ErrRequestNotFound)
}
