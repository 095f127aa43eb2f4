// Package memory is a single-process implementation of every repository.
// Transactions serialize on one store-wide mutex and roll back by restoring a snapshot.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/reimbursement"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/google/uuid"
)

type txMarker struct{}

type Store struct {
	mu  sync.Mutex
	now func() time.Time

	identities     map[string]user.Identity
	employees      map[string]employee.Employee
	punches        []timeledger.PunchEvent
	timesheets     map[string]timesheet.Timesheet
	leaves         map[string]leave.LeaveRequest
	reimbursements map[string]reimbursement.Reimbursement
	actions        []approval.ActionRecord
}

type Option func(*Store)

// WithClock overrides the clock used for created_at and updated_at
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:            time.Now,
		identities:     make(map[string]user.Identity),
		employees:      make(map[string]employee.Employee),
		timesheets:     make(map[string]timesheet.Timesheet),
		leaves:         make(map[string]leave.LeaveRequest),
		reimbursements: make(map[string]reimbursement.Reimbursement),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lock takes the store mutex unless ctx already belongs to a transaction of this store
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txMarker{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type snapshot struct {
	identities     map[string]user.Identity
	employees      map[string]employee.Employee
	punches        []timeledger.PunchEvent
	timesheets     map[string]timesheet.Timesheet
	leaves         map[string]leave.LeaveRequest
	reimbursements map[string]reimbursement.Reimbursement
	actions        []approval.ActionRecord
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		identities:     maps.Clone(s.identities),
		employees:      maps.Clone(s.employees),
		punches:        slices.Clone(s.punches),
		timesheets:     maps.Clone(s.timesheets),
		leaves:         maps.Clone(s.leaves),
		reimbursements: maps.Clone(s.reimbursements),
		actions:        slices.Clone(s.actions),
	}
}

func (s *Store) restore(snap snapshot) {
	s.identities = snap.identities
	s.employees = snap.employees
	s.punches = snap.punches
	s.timesheets = snap.timesheets
	s.leaves = snap.leaves
	s.reimbursements = snap.reimbursements
	s.actions = snap.actions
}

// WithinTx implements approval.TxManager.
// Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if owner, ok := ctx.Value(txMarker{}).(*Store); ok && owner == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txMarker{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Healthy always succeeds; there is nothing to reach
func (s *Store) Healthy(context.Context) bool {
	return true
}

// AddIdentity registers a user and, when it has one, its worker record
func (s *Store) AddIdentity(identity user.Identity, e *employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identities[identity.UserID] = identity
	if e != nil {
		now := s.now()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
			e.UpdatedAt = now
		}
		if e.EmploymentStatus == "" {
			e.EmploymentStatus = employee.EmploymentStatusActive
		}
		s.employees[e.ID] = *e
	}
}

// Repository views over the same store

func (s *Store) Identities() user.IdentityRepository        { return identityRepository{s} }
func (s *Store) Employees() employee.EmployeeRepository     { return employeeRepository{s} }
func (s *Store) Punches() timeledger.PunchRepository        { return punchRepository{s} }
func (s *Store) Actions() approval.ActionRepository         { return actionRepository{s} }
func (s *Store) Timesheets() timesheet.TimesheetRepository  { return newTimesheetRepository(s) }
func (s *Store) Leaves() leave.LeaveRequestRepository       { return newLeaveRepository(s) }
func (s *Store) Reimbursements() reimbursement.ReimbursementRepository {
	return newReimbursementRepository(s)
}
