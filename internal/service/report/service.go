package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const statusBreakdownKey = "report:status-breakdown"

type ReportServiceImpl struct {
	report.ReportRepository
	employee.EmployeeRepository
	ledger   timeledger.LedgerService
	chains   approval.ChainConfig
	cutoff   report.Cutoff
	cache    report.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewReportService builds the read-only reporting service. cache may be nil.
func NewReportService(
	reportRepo report.ReportRepository,
	employeeRepo employee.EmployeeRepository,
	ledger timeledger.LedgerService,
	chains approval.ChainConfig,
	cutoff report.Cutoff,
	cache report.Cache,
	cacheTTL time.Duration,
	m *metrics.Metrics,
) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository:   reportRepo,
		EmployeeRepository: employeeRepo,
		ledger:             ledger,
		chains:             chains,
		cutoff:             cutoff,
		cache:              cache,
		cacheTTL:           cacheTTL,
		metrics:            m,
		now:                time.Now,
	}
}

// StatusBreakdown implements report.ReportService.
func (s *ReportServiceImpl) StatusBreakdown(ctx context.Context) (report.StatusBreakdownResponse, error) {
	var cached report.StatusBreakdownResponse
	if s.fromCache(ctx, "status_breakdown", statusBreakdownKey, &cached) {
		return cached, nil
	}

	variants := make([]report.VariantBreakdown, len(approval.Variants))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range approval.Variants {
		g.Go(func() error {
			counts, err := s.ReportRepository.CountByStatus(gctx, v)
			if err != nil {
				return fmt.Errorf("failed to count %s requests: %w", v, err)
			}
			chain, err := s.chains.Chain(v)
			if err != nil {
				return err
			}

			vb := report.VariantBreakdown{Variant: string(v), ByStatus: make(map[string]int64, len(counts))}
			for status, n := range counts {
				vb.ByStatus[string(status)] = n
				vb.Total += n
			}
			for _, status := range chain.PendingStatuses() {
				vb.Pending += counts[status]
			}
			variants[i] = vb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.StatusBreakdownResponse{}, err
	}

	resp := report.StatusBreakdownResponse{ByStatus: make(map[string]int64), Variants: variants}
	for _, vb := range variants {
		resp.Total += vb.Total
		for status, n := range vb.ByStatus {
			resp.ByStatus[status] += n
		}
	}

	s.toCache(ctx, statusBreakdownKey, resp)
	return resp, nil
}

// RecentActivity implements report.ReportService.
func (s *ReportServiceImpl) RecentActivity(ctx context.Context, req report.RecentActivityRequest) (report.RecentActivityResponse, error) {
	if err := req.Validate(); err != nil {
		return report.RecentActivityResponse{}, err
	}

	var (
		mu   sync.Mutex
		resp = report.RecentActivityResponse{
			Limit:    req.Limit,
			Variants: make(map[string][]approval.RequestResponse, len(approval.Variants)),
		}
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, v := range approval.Variants {
		g.Go(func() error {
			items, err := s.ReportRepository.ListRecent(gctx, v, req.Limit)
			if err != nil {
				return fmt.Errorf("failed to list recent %s requests: %w", v, err)
			}
			out := make([]approval.RequestResponse, 0, len(items))
			for _, r := range items {
				out = append(out, approval.NewRequestResponse(r))
			}
			mu.Lock()
			resp.Variants[string(v)] = out
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.RecentActivityResponse{}, err
	}
	return resp, nil
}

// AttendanceView implements report.ReportService.
// Every active worker is listed, including those with no punches and no profile fields.
func (s *ReportServiceImpl) AttendanceView(ctx context.Context, req report.AttendanceViewRequest) (report.AttendanceViewResponse, error) {
	if err := req.Validate(); err != nil {
		return report.AttendanceViewResponse{}, err
	}
	loc := s.ledger.Location()
	day, _ := time.ParseInLocation(time.DateOnly, req.Date, loc)

	workers, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return report.AttendanceViewResponse{}, fmt.Errorf("failed to list active workers: %w", err)
	}

	resp := report.AttendanceViewResponse{
		Date:    req.Date,
		Cutoff:  s.cutoff.String(),
		Workers: make([]report.AttendanceRow, 0, len(workers)),
	}
	if len(workers) == 0 {
		return resp, nil
	}

	summaries, err := s.ledger.DailyHoursForWorkers(ctx, employeeIDs(workers), day)
	if err != nil {
		return report.AttendanceViewResponse{}, err
	}
	byWorker := make(map[string]timeledger.DaySummary, len(summaries))
	for _, summary := range summaries {
		byWorker[summary.WorkerID] = summary
	}

	for _, w := range workers {
		summary := byWorker[w.ID]
		row := report.AttendanceRow{
			WorkerID:     w.ID,
			EmployeeCode: w.EmployeeCode,
			FullName:     w.FullName,
			Position:     w.PositionName,
			Status:       string(report.Classify(summary.FirstIn, s.cutoff, loc)),
		}
		if summary.FirstIn != nil {
			v := summary.FirstIn.In(loc).Format(time.RFC3339)
			row.FirstIn = &v
		}

		switch report.AttendanceStatus(row.Status) {
		case report.AttendancePresent:
			resp.Present++
		case report.AttendanceLate:
			resp.Late++
		case report.AttendanceAbsent:
			resp.Absent++
		}
		resp.Workers = append(resp.Workers, row)
	}
	return resp, nil
}

// DailySummary implements report.ReportService.
func (s *ReportServiceImpl) DailySummary(ctx context.Context, req report.DailySummaryRequest) (report.DailySummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return report.DailySummaryResponse{}, err
	}
	day, _ := time.ParseInLocation(time.DateOnly, req.Date, s.ledger.Location())

	workers, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return report.DailySummaryResponse{}, fmt.Errorf("failed to list active workers: %w", err)
	}

	resp := report.DailySummaryResponse{Date: req.Date, Workers: make([]report.DailySummaryRow, 0, len(workers))}
	if len(workers) == 0 {
		return resp, nil
	}

	summaries, err := s.ledger.DailyHoursForWorkers(ctx, employeeIDs(workers), day)
	if err != nil {
		return report.DailySummaryResponse{}, err
	}

	names := namesByID(workers)
	for _, summary := range summaries {
		resp.TotalHours += summary.Hours
		resp.Workers = append(resp.Workers, report.DailySummaryRow{
			FullName:           names[summary.WorkerID],
			DaySummaryResponse: timeledger.NewDaySummaryResponse(summary),
		})
	}
	resp.TotalHours = round2(resp.TotalHours)
	return resp, nil
}

// MonthlySummary implements report.ReportService.
func (s *ReportServiceImpl) MonthlySummary(ctx context.Context, req report.MonthlySummaryRequest) (report.MonthlySummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlySummaryResponse{}, err
	}

	rollups, err := s.ledger.MonthlyRollup(ctx, req.WorkerIDs, req.Year, time.Month(req.Month))
	if err != nil {
		return report.MonthlySummaryResponse{}, err
	}

	ids := make([]string, 0, len(rollups))
	for _, r := range rollups {
		ids = append(ids, r.WorkerID)
	}

	// Unknown worker ids still get a row, just without profile fields
	profiles := make(map[string]employee.Employee, len(ids))
	if len(ids) > 0 {
		found, err := s.EmployeeRepository.GetByIDs(ctx, ids)
		if err != nil {
			return report.MonthlySummaryResponse{}, fmt.Errorf("failed to load workers: %w", err)
		}
		for _, e := range found {
			profiles[e.ID] = e
		}
	}

	resp := report.MonthlySummaryResponse{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		DaysInMonth: timeledger.DaysInMonth(req.Year, time.Month(req.Month)),
		GeneratedAt: s.now().Format(time.RFC3339),
		Workers:     make([]report.MonthlySummaryRow, 0, len(rollups)),
	}
	for _, r := range rollups {
		p := profiles[r.WorkerID]
		resp.Totals.DaysWorked += r.DaysWorked
		resp.Totals.TotalHours += r.TotalHours
		resp.Totals.LeaveDays += r.LeaveDays
		resp.Totals.AbsentDays += r.AbsentDays
		resp.Workers = append(resp.Workers, report.MonthlySummaryRow{
			EmployeeCode:         p.EmployeeCode,
			FullName:             p.FullName,
			WorkerRollupResponse: timeledger.NewWorkerRollupResponse(r),
		})
	}
	resp.Totals.TotalHours = round2(resp.Totals.TotalHours)
	return resp, nil
}

// ==================== HELPER FUNCTIONS ====================

func (s *ReportServiceImpl) fromCache(ctx context.Context, name, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		slog.Warn("report cache read failed", "key", key, "error", err)
		return false
	}
	s.metrics.ReportCache(name, hit)
	return hit
}

func (s *ReportServiceImpl) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		slog.Warn("report cache write failed", "key", key, "error", err)
	}
}

func employeeIDs(workers []employee.Employee) []string {
	ids := make([]string, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.ID)
	}
	return ids
}

func namesByID(workers []employee.Employee) map[string]string {
	names := make(map[string]string, len(workers))
	for _, w := range workers {
		names[w.ID] = w.FullName
	}
	return names
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
