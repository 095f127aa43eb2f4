package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
)

type punchRepository struct {
	store *Store
}

func (r punchRepository) Create(ctx context.Context, event timeledger.PunchEvent) (timeledger.PunchEvent, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	event.ID = newID()
	event.CreatedAt = r.store.now()
	r.store.punches = append(r.store.punches, event)
	return event, nil
}

func (r punchRepository) ListByWorkerBetween(ctx context.Context, workerID string, from, to time.Time) ([]timeledger.PunchEvent, error) {
	return r.ListBetween(ctx, []string{workerID}, from, to)
}

func (r punchRepository) ListBetween(ctx context.Context, workerIDs []string, from, to time.Time) ([]timeledger.PunchEvent, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	events := make([]timeledger.PunchEvent, 0)
	for _, e := range r.store.punches {
		if len(workerIDs) > 0 && !slices.Contains(workerIDs, e.WorkerID) {
			continue
		}
		if e.OccurredAt.Before(from) || e.OccurredAt.After(to) {
			continue
		}
		events = append(events, e)
	}
	slices.SortFunc(events, func(a, b timeledger.PunchEvent) int {
		return cmp.Or(
			cmp.Compare(a.WorkerID, b.WorkerID),
			a.OccurredAt.Compare(b.OccurredAt),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return events, nil
}

type actionRepository struct {
	store *Store
}

func (r actionRepository) Append(ctx context.Context, record approval.ActionRecord) (approval.ActionRecord, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	record.ID = newID()
	record.CreatedAt = r.store.now()
	r.store.actions = append(r.store.actions, record)
	return record, nil
}

// ListByRequest returns records in append order
func (r actionRepository) ListByRequest(ctx context.Context, variant approval.Variant, requestID string) ([]approval.ActionRecord, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	records := make([]approval.ActionRecord, 0)
	for _, a := range r.store.actions {
		if a.Variant == variant && a.RequestID == requestID {
			records = append(records, a)
		}
	}
	return records, nil
}

type identityRepository struct {
	store *Store
}

func (r identityRepository) GetIdentity(ctx context.Context, userID string) (user.Identity, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	identity, ok := r.store.identities[userID]
	if !ok {
		return user.Identity{}, user.ErrUserNotFound
	}
	return identity, nil
}

type employeeRepository struct {
	store *Store
}

func (r employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r employeeRepository) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	out := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.store.employees[id]; ok {
			out = append(out, e)
		}
	}
	sortByName(out)
	return out, nil
}

func (r employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	out := make([]employee.Employee, 0, len(r.store.employees))
	for _, e := range r.store.employees {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	sortByName(out)
	return out, nil
}

func sortByName(employees []employee.Employee) {
	slices.SortFunc(employees, func(a, b employee.Employee) int {
		return cmp.Or(cmp.Compare(a.FullName, b.FullName), cmp.Compare(a.ID, b.ID))
	})
}

type reportRepository struct {
	store *Store
}

// Reports returns the read side used by the report service
func (s *Store) Reports() report.ReportRepository {
	return reportRepository{s}
}

func (r reportRepository) CountByStatus(ctx context.Context, variant approval.Variant) (map[approval.Status]int64, error) {
	switch variant {
	case approval.VariantTimesheet:
		return newTimesheetRepository(r.store).countByStatus(ctx), nil
	case approval.VariantLeave:
		return newLeaveRepository(r.store).countByStatus(ctx), nil
	case approval.VariantReimbursement:
		return newReimbursementRepository(r.store).countByStatus(ctx), nil
	}
	return nil, approval.ErrUnknownVariant
}

func (r reportRepository) ListRecent(ctx context.Context, variant approval.Variant, limit int) ([]approval.Request, error) {
	switch variant {
	case approval.VariantTimesheet:
		return newTimesheetRepository(r.store).listRecent(ctx, limit), nil
	case approval.VariantLeave:
		return newLeaveRepository(r.store).listRecent(ctx, limit), nil
	case approval.VariantReimbursement:
		return newReimbursementRepository(r.store).listRecent(ctx, limit), nil
	}
	return nil, approval.ErrUnknownVariant
}
