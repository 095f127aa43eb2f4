package report

import (
	"context"
	"io"
)

// ReportService defines the interface for report generation
type ReportService interface {
	StatusBreakdown(ctx context.Context) (StatusBreakdownResponse, error)
	RecentActivity(ctx context.Context, req RecentActivityRequest) (RecentActivityResponse, error)
	AttendanceView(ctx context.Context, req AttendanceViewRequest) (AttendanceViewResponse, error)
	DailySummary(ctx context.Context, req DailySummaryRequest) (DailySummaryResponse, error)
	MonthlySummary(ctx context.Context, req MonthlySummaryRequest) (MonthlySummaryResponse, error)

	// ExportMonthlySummary writes the monthly summary as an XLSX workbook
	ExportMonthlySummary(ctx context.Context, req MonthlySummaryRequest, w io.Writer) error
}
