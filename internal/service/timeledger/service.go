package timeledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-workflow-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

type LedgerServiceImpl struct {
	timeledger.PunchRepository
	timeledger.LeaveDayCounter
	employee.EmployeeRepository
	fileService file.FileService
	metrics     *metrics.Metrics
	loc         *time.Location
	now         func() time.Time
}

func NewLedgerService(
	punchRepo timeledger.PunchRepository,
	leaveDays timeledger.LeaveDayCounter,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	m *metrics.Metrics,
	loc *time.Location,
) timeledger.LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerServiceImpl{
		PunchRepository:    punchRepo,
		LeaveDayCounter:    leaveDays,
		EmployeeRepository: employeeRepo,
		fileService:        fileService,
		metrics:            m,
		loc:                loc,
		now:                time.Now,
	}
}

// Location implements timeledger.LedgerService.
func (s *LedgerServiceImpl) Location() *time.Location {
	return s.loc
}

// RecordPunch implements timeledger.LedgerService.
func (s *LedgerServiceImpl) RecordPunch(ctx context.Context, req timeledger.RecordPunchRequest) (timeledger.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return timeledger.PunchResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.WorkerID); err != nil {
		return timeledger.PunchResponse{}, err
	}

	occurredAt := s.now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	proofRef := req.ProofRef
	if req.File != nil && req.FileHeader != nil && s.fileService != nil {
		path, err := s.fileService.UploadPunchProof(ctx, req.WorkerID, occurredAt.In(s.loc), req.Kind, req.File, req.FileHeader.Filename)
		if err != nil {
			return timeledger.PunchResponse{}, fmt.Errorf("failed to upload punch proof: %w", err)
		}
		proofRef = &path
	}

	created, err := s.PunchRepository.Create(ctx, timeledger.PunchEvent{
		WorkerID:   req.WorkerID,
		Kind:       timeledger.PunchKind(req.Kind),
		OccurredAt: occurredAt.UTC(),
		Location:   req.Location,
		ProofRef:   proofRef,
		DeviceID:   req.DeviceID,
	})
	if err != nil {
		return timeledger.PunchResponse{}, fmt.Errorf("failed to record punch: %w", err)
	}

	s.metrics.IncPunch(string(created.Kind))
	slog.Info("punch recorded", "worker_id", created.WorkerID, "kind", created.Kind, "occurred_at", created.OccurredAt)

	return timeledger.NewPunchResponse(created), nil
}

// DailyHours implements timeledger.LedgerService.
func (s *LedgerServiceImpl) DailyHours(ctx context.Context, workerID string, day time.Time) (timeledger.DaySummary, error) {
	if workerID == "" {
		return timeledger.DaySummary{}, timeledger.ErrWorkerRequired
	}

	start, end := timeledger.DayBounds(day, s.loc)
	events, err := s.PunchRepository.ListByWorkerBetween(ctx, workerID, start, end)
	if err != nil {
		return timeledger.DaySummary{}, fmt.Errorf("failed to load punches: %w", err)
	}

	return timeledger.Summarize(workerID, start, events), nil
}

// DailyHoursForWorkers implements timeledger.LedgerService.
// An empty worker set means every active worker.
func (s *LedgerServiceImpl) DailyHoursForWorkers(ctx context.Context, workerIDs []string, day time.Time) ([]timeledger.DaySummary, error) {
	workerIDs, err := s.resolveWorkers(ctx, workerIDs)
	if err != nil {
		return nil, err
	}

	start, end := timeledger.DayBounds(day, s.loc)
	events, err := s.PunchRepository.ListBetween(ctx, workerIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load punches: %w", err)
	}

	byWorker := groupByWorker(events)
	summaries := make([]timeledger.DaySummary, 0, len(workerIDs))
	for _, id := range workerIDs {
		summaries = append(summaries, timeledger.Summarize(id, start, byWorker[id]))
	}
	return summaries, nil
}

// MonthlyRollup implements timeledger.LedgerService.
func (s *LedgerServiceImpl) MonthlyRollup(ctx context.Context, workerIDs []string, year int, month time.Month) ([]timeledger.WorkerRollup, error) {
	workerIDs, err := s.resolveWorkers(ctx, workerIDs)
	if err != nil {
		return nil, err
	}
	if len(workerIDs) == 0 {
		return []timeledger.WorkerRollup{}, nil
	}

	start, end := timeledger.MonthBounds(year, month, s.loc)

	var (
		events    []timeledger.PunchEvent
		leaveDays map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		events, err = s.PunchRepository.ListBetween(gctx, workerIDs, start, end)
		if err != nil {
			return fmt.Errorf("failed to load punches: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		leaveDays, err = s.LeaveDayCounter.AcceptedLeaveDays(gctx, workerIDs, start, end)
		if err != nil {
			return fmt.Errorf("failed to load leave days: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byWorker := groupByWorker(events)
	rollups := make([]timeledger.WorkerRollup, 0, len(workerIDs))
	for _, id := range workerIDs {
		days := make([]timeledger.DaySummary, 0)
		for key, dayEvents := range timeledger.GroupByDay(byWorker[id], s.loc) {
			date, _ := time.ParseInLocation(time.DateOnly, key, s.loc)
			days = append(days, timeledger.Summarize(id, date, dayEvents))
		}
		rollups = append(rollups, timeledger.Rollup(id, year, month, days, leaveDays[id]))
	}
	return rollups, nil
}

func (s *LedgerServiceImpl) resolveWorkers(ctx context.Context, workerIDs []string) ([]string, error) {
	if len(workerIDs) > 0 {
		return dedupe(workerIDs), nil
	}
	active, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active workers: %w", err)
	}
	ids := make([]string, 0, len(active))
	for _, e := range active {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func groupByWorker(events []timeledger.PunchEvent) map[string][]timeledger.PunchEvent {
	byWorker := make(map[string][]timeledger.PunchEvent)
	for _, e := range events {
		byWorker[e.WorkerID] = append(byWorker[e.WorkerID], e)
	}
	return byWorker
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
