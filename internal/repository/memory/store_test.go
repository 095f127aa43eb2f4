package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := store.Timesheets()

	created, err := repo.Create(ctx, timesheet.Timesheet{
		Request: approval.Request{WorkerID: "w1", Status: approval.StatusPendingManager},
		Project: "Apollo",
		Hours:   8,
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithinTx(ctx, func(ctx context.Context) error {
		req, err := repo.GetForDecision(ctx, created.ID)
		require.NoError(t, err)
		req.Status = approval.StatusPendingHR
		require.NoError(t, repo.SaveDecision(ctx, req))

		_, err = store.Actions().Append(ctx, approval.ActionRecord{
			Variant: approval.VariantTimesheet, RequestID: created.ID,
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPendingManager, found.Status)

	history, err := store.Actions().ListByRequest(ctx, approval.VariantTimesheet, created.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := store.Timesheets()

	created, err := repo.Create(ctx, timesheet.Timesheet{
		Request: approval.Request{WorkerID: "w1", Status: approval.StatusPendingManager},
	})
	require.NoError(t, err)

	err = store.WithinTx(ctx, func(ctx context.Context) error {
		req, err := repo.GetForDecision(ctx, created.ID)
		if err != nil {
			return err
		}
		req.Status = approval.StatusPendingHR
		return repo.SaveDecision(ctx, req)
	})
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPendingHR, found.Status)
}

func TestRequests_NotFound(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	_, err := store.Timesheets().GetForDecision(ctx, "missing")
	assert.ErrorIs(t, err, approval.ErrRequestNotFound)

	err = store.Reimbursements().SaveDecision(ctx, approval.Request{ID: "missing"})
	assert.ErrorIs(t, err, approval.ErrRequestNotFound)
}

func TestRequests_ListByStatusOrdersByCreation(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	store := memory.NewStore(memory.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))
	ctx := context.Background()
	repo := store.Leaves()

	var ids []string
	for _, status := range []approval.Status{approval.StatusPendingHR, approval.StatusPendingManager, approval.StatusPendingHR} {
		created, err := repo.Create(ctx, leave.LeaveRequest{Request: approval.Request{WorkerID: "w1", Status: status}})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	pending, err := repo.ListByStatus(ctx, []approval.Status{approval.StatusPendingHR})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[0], pending[0].ID)
	assert.Equal(t, ids[2], pending[1].ID)
	assert.Equal(t, approval.VariantLeave, pending[0].Variant)
}

func TestLeaves_AcceptedLeaveDays(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := store.Leaves()

	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }
	seed := []leave.LeaveRequest{
		{Request: approval.Request{WorkerID: "w1", Status: approval.StatusApproved}, StartDate: day(4, 9), EndDate: day(4, 10), DayCount: 2},
		{Request: approval.Request{WorkerID: "w1", Status: approval.StatusApproved}, StartDate: day(3, 30), EndDate: day(4, 1), DayCount: 3},
		{Request: approval.Request{WorkerID: "w1", Status: approval.StatusRejected}, StartDate: day(4, 20), EndDate: day(4, 20), DayCount: 1},
		{Request: approval.Request{WorkerID: "w1", Status: approval.StatusPendingHR}, StartDate: day(4, 21), EndDate: day(4, 21), DayCount: 1},
		{Request: approval.Request{WorkerID: "w2", Status: approval.StatusApproved}, StartDate: day(5, 4), EndDate: day(5, 4), DayCount: 1},
	}
	for _, l := range seed {
		_, err := repo.Create(ctx, l)
		require.NoError(t, err)
	}

	days, err := repo.AcceptedLeaveDays(ctx, nil, day(4, 1), day(4, 30))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"w1": 5}, days)
}

func TestListByWorker_Paging(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := store.Timesheets()

	for range 5 {
		_, err := repo.Create(ctx, timesheet.Timesheet{Request: approval.Request{WorkerID: "w1", Status: approval.StatusPendingManager}})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, timesheet.Timesheet{Request: approval.Request{WorkerID: "w2", Status: approval.StatusPendingManager}})
	require.NoError(t, err)

	page, err := repo.ListByWorker(ctx, "w1", approval.ListFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	all, err := repo.ListByWorker(ctx, "w1", approval.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
