package report

import (
	"context"
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Monthly Summary"

var summaryHeader = []any{
	"Employee Code", "Full Name", "Worker ID", "Days In Month",
	"Days Worked", "Total Hours", "Leave Days", "Absent Days",
}

// ExportMonthlySummary implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlySummary(ctx context.Context, req report.MonthlySummaryRequest, w io.Writer) error {
	summary, err := s.MonthlySummary(ctx, req)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	title := fmt.Sprintf("Workforce summary %04d-%02d", summary.PeriodYear, summary.PeriodMonth)
	if err := f.SetCellValue(summarySheet, "A1", title); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	if err := f.SetSheetRow(summarySheet, "A3", &summaryHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "H3", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	row := 4
	for _, wr := range summary.Workers {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{
			wr.EmployeeCode, wr.FullName, wr.WorkerID, wr.DaysInMonth,
			wr.DaysWorked, wr.TotalHours, wr.LeaveDays, wr.AbsentDays,
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	totalCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	totals := []any{
		"Total", "", "", summary.DaysInMonth,
		summary.Totals.DaysWorked, summary.Totals.TotalHours, summary.Totals.LeaveDays, summary.Totals.AbsentDays,
	}
	if err := f.SetSheetRow(summarySheet, totalCell, &totals); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}

	if err := f.SetColWidth(summarySheet, "A", "C", 22); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
