package timeledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/memory"
	ledgerService "github.com/cmlabs-hris/hris-workflow-go/internal/service/timeledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T) (*memory.Store, timeledger.LedgerService) {
	t.Helper()
	store := memory.NewStore()
	for _, id := range []string{"w1", "w2"} {
		workerID := id
		store.AddIdentity(
			user.Identity{UserID: "u-" + id, WorkerID: &workerID, Role: user.RoleEmployee},
			&employee.Employee{ID: id, EmployeeCode: id, FullName: "Worker " + id},
		)
	}
	svc := ledgerService.NewLedgerService(store.Punches(), store.Leaves(), store.Employees(), nil, nil, time.UTC)
	return store, svc
}

func punch(t *testing.T, svc timeledger.LedgerService, workerID string, kind timeledger.PunchKind, at time.Time) {
	t.Helper()
	_, err := svc.RecordPunch(context.Background(), timeledger.RecordPunchRequest{
		WorkerID:   workerID,
		Kind:       string(kind),
		OccurredAt: &at,
	})
	require.NoError(t, err)
}

func TestRecordPunch_Validation(t *testing.T) {
	_, svc := newLedger(t)
	ctx := context.Background()

	_, err := svc.RecordPunch(ctx, timeledger.RecordPunchRequest{WorkerID: "w1", Kind: "LUNCH"})
	assert.Error(t, err)

	_, err = svc.RecordPunch(ctx, timeledger.RecordPunchRequest{WorkerID: "ghost", Kind: "IN"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDailyHours(t *testing.T) {
	_, svc := newLedger(t)
	ctx := context.Background()
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	punch(t, svc, "w1", timeledger.PunchIn, day.Add(9*time.Hour))
	punch(t, svc, "w1", timeledger.PunchOut, day.Add(17*time.Hour+30*time.Minute))
	punch(t, svc, "w1", timeledger.PunchIn, day.Add(24*time.Hour+9*time.Hour))

	summary, err := svc.DailyHours(ctx, "w1", day.Add(12*time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 8.5, summary.Hours, 0.001)
	assert.Equal(t, 2, summary.EventCount)
	require.NotNil(t, summary.FirstIn)
	assert.True(t, summary.FirstIn.Equal(day.Add(9*time.Hour)))

	empty, err := svc.DailyHours(ctx, "w2", day)
	require.NoError(t, err)
	assert.Zero(t, empty.Hours)
	assert.Nil(t, empty.FirstIn)
}

func TestDailyHoursForWorkers_DefaultsToActiveWorkers(t *testing.T) {
	_, svc := newLedger(t)
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	punch(t, svc, "w2", timeledger.PunchIn, day.Add(8*time.Hour))

	summaries, err := svc.DailyHoursForWorkers(context.Background(), nil, day)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "w1", summaries[0].WorkerID)
	assert.Equal(t, 0, summaries[0].EventCount)
	assert.Equal(t, 1, summaries[1].EventCount)
}

// 20 worked days and 2 accepted leave days in a 30 day month leave 8 absent days
func TestMonthlyRollup_AbsentDays(t *testing.T) {
	store, svc := newLedger(t)
	ctx := context.Background()

	for d := 1; d <= 20; d++ {
		day := time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC)
		punch(t, svc, "w1", timeledger.PunchIn, day.Add(9*time.Hour))
		punch(t, svc, "w1", timeledger.PunchOut, day.Add(17*time.Hour))
	}

	_, err := store.Leaves().Create(ctx, leave.LeaveRequest{
		Request:   approval.Request{WorkerID: "w1", Status: approval.StatusApproved},
		LeaveType: leave.LeaveTypeAnnual,
		StartDate: time.Date(2026, 4, 23, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 24, 0, 0, 0, 0, time.UTC),
		DayCount:  2,
	})
	require.NoError(t, err)
	_, err = store.Leaves().Create(ctx, leave.LeaveRequest{
		Request:   approval.Request{WorkerID: "w1", Status: approval.StatusPendingHR},
		StartDate: time.Date(2026, 4, 27, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 27, 0, 0, 0, 0, time.UTC),
		DayCount:  1,
	})
	require.NoError(t, err)

	rollups, err := svc.MonthlyRollup(ctx, []string{"w1"}, 2026, time.April)
	require.NoError(t, err)
	require.Len(t, rollups, 1)

	r := rollups[0]
	assert.Equal(t, 30, r.DaysInMonth)
	assert.Equal(t, 20, r.DaysWorked)
	assert.InDelta(t, 160.0, r.TotalHours, 0.001)
	assert.Equal(t, 2, r.LeaveDays)
	assert.Equal(t, 8, r.AbsentDays)
}

func TestMonthlyRollup_EventsOutsideMonthIgnored(t *testing.T) {
	_, svc := newLedger(t)

	punch(t, svc, "w2", timeledger.PunchIn, time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC))
	punch(t, svc, "w2", timeledger.PunchOut, time.Date(2026, 4, 1, 1, 0, 0, 0, time.UTC))

	rollups, err := svc.MonthlyRollup(context.Background(), []string{"w2"}, 2026, time.April)
	require.NoError(t, err)
	require.Len(t, rollups, 1)
	assert.Equal(t, 1, rollups[0].DaysWorked)
	assert.Zero(t, rollups[0].TotalHours)
	assert.Equal(t, 29, rollups[0].AbsentDays)
}
