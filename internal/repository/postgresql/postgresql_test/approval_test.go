package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimesheetRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	_, workerID, err := setup.SeedWorker(ctx, "EMP-1", string(user.RoleEmployee))
	require.NoError(t, err)

	repo := postgresql.NewTimesheetRepository(setup.DB)
	created, err := repo.Create(ctx, timesheet.Timesheet{
		Request: approval.Request{WorkerID: workerID, Status: approval.StatusPendingManager},
		Project: "Apollo",
		Date:    time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		Hours:   8,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, approval.StatusPendingManager, created.Status)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", found.Project)
	assert.InDelta(t, 8.0, found.Hours, 0.0001)

	_, err = repo.GetByID(ctx, "0190a6d4-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, approval.ErrRequestNotFound)
}

func TestRepositories_MalformedIDsAreNotFound(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	timesheets := postgresql.NewTimesheetRepository(setup.DB)
	_, err := timesheets.GetForDecision(ctx, "abc")
	assert.ErrorIs(t, err, approval.ErrRequestNotFound)
	_, err = timesheets.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, approval.ErrRequestNotFound)

	listed, err := timesheets.ListByWorker(ctx, "abc", approval.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	history, err := postgresql.NewApprovalActionRepository(setup.DB).ListByRequest(ctx, approval.VariantTimesheet, "abc")
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = postgresql.NewIdentityRepository(setup.DB).GetIdentity(ctx, "abc")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	punches, err := postgresql.NewPunchRepository(setup.DB).ListBetween(ctx, []string{"abc"},
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, punches)
}

// Two managers approving the same timesheet at once: the row lock serializes them and
// the second one sees the advanced status.
func TestRequestStore_ConcurrentDecisions(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	managerID, _, err := setup.SeedWorker(ctx, "MGR-1", string(user.RoleManager))
	require.NoError(t, err)
	_, workerID, err := setup.SeedWorker(ctx, "EMP-2", string(user.RoleEmployee))
	require.NoError(t, err)

	repo := postgresql.NewTimesheetRepository(setup.DB)
	actions := postgresql.NewApprovalActionRepository(setup.DB)
	txManager := postgresql.NewTxManager(setup.DB)
	chain, err := approval.DefaultChainConfig().Chain(approval.VariantTimesheet)
	require.NoError(t, err)

	created, err := repo.Create(ctx, timesheet.Timesheet{
		Request: approval.Request{WorkerID: workerID, Status: approval.StatusPendingManager},
		Project: "Apollo",
		Date:    time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		Hours:   7.5,
	})
	require.NoError(t, err)

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = txManager.WithinTx(ctx, func(ctx context.Context) error {
				req, err := repo.GetForDecision(ctx, created.ID)
				if err != nil {
					return err
				}
				next, err := chain.Transition(req.Status, user.RoleManager, approval.DecisionApprove)
				if err != nil {
					return err
				}
				from := req.Status
				req.Status = next
				if err := repo.SaveDecision(ctx, req); err != nil {
					return err
				}
				_, err = actions.Append(ctx, approval.ActionRecord{
					Variant:    approval.VariantTimesheet,
					RequestID:  req.ID,
					ActorID:    managerID,
					ActorRole:  user.RoleManager,
					Decision:   approval.DecisionApprove,
					FromStatus: from,
					ToStatus:   next,
				})
				return err
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, approval.ErrStageMismatch)
	}
	assert.Equal(t, 1, succeeded)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPendingHR, found.Status)

	history, err := actions.ListByRequest(ctx, approval.VariantTimesheet, created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestLeaveRepository_AcceptedLeaveDays(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	_, workerID, err := setup.SeedWorker(ctx, "EMP-3", string(user.RoleEmployee))
	require.NoError(t, err)

	_, err = setup.DB.Exec(ctx, `
		INSERT INTO leave_requests (worker_id, status, leave_type, start_date, end_date, day_count, reason)
		VALUES
			($1, 'APPROVED', 'annual', '2026-04-09', '2026-04-10', 2, 'trip'),
			($1, 'APPROVED', 'annual', '2026-03-30', '2026-04-01', 3, 'spans month start'),
			($1, 'REJECTED', 'sick', '2026-04-20', '2026-04-20', 1, 'rejected'),
			($1, 'PENDING_HR', 'sick', '2026-04-21', '2026-04-21', 1, 'pending'),
			($1, 'APPROVED', 'annual', '2026-05-04', '2026-05-04', 1, 'next month')
	`, workerID)
	require.NoError(t, err)

	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)

	days, err := repo.AcceptedLeaveDays(ctx, []string{workerID}, from, to)
	require.NoError(t, err)
	assert.Equal(t, 5, days[workerID])
}
