package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

// ========================================
// STATUS BREAKDOWN
// ========================================

type StatusBreakdownResponse struct {
	Total    int64              `json:"total"`
	ByStatus map[string]int64   `json:"by_status"`
	Variants []VariantBreakdown `json:"variants"`
}

type VariantBreakdown struct {
	Variant  string           `json:"variant"`
	Total    int64            `json:"total"`
	Pending  int64            `json:"pending"`
	ByStatus map[string]int64 `json:"by_status"`
}

// ========================================
// RECENT ACTIVITY
// ========================================

type RecentActivityRequest struct {
	Limit int `json:"limit"`
}

func (r *RecentActivityRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Limit < 1 || r.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecentActivityResponse struct {
	Limit    int                                   `json:"limit"`
	Variants map[string][]approval.RequestResponse `json:"variants"`
}

// ========================================
// ATTENDANCE VIEW
// ========================================

type AttendanceViewRequest struct {
	Date string `json:"date"`
}

func (r *AttendanceViewRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceViewResponse struct {
	Date    string          `json:"date"`
	Cutoff  string          `json:"late_cutoff"`
	Present int             `json:"present"`
	Late    int             `json:"late"`
	Absent  int             `json:"absent"`
	Workers []AttendanceRow `json:"workers"`
}

type AttendanceRow struct {
	WorkerID     string  `json:"worker_id"`
	EmployeeCode string  `json:"employee_code"`
	FullName     string  `json:"full_name"`
	Position     *string `json:"position,omitempty"`
	Status       string  `json:"status"`
	FirstIn      *string `json:"first_in,omitempty"`
}

// ========================================
// DAILY SUMMARY
// ========================================

type DailySummaryRequest struct {
	Date string `json:"date"`
}

func (r *DailySummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DailySummaryResponse struct {
	Date       string            `json:"date"`
	TotalHours float64           `json:"total_hours"`
	Workers    []DailySummaryRow `json:"workers"`
}

type DailySummaryRow struct {
	FullName string `json:"full_name"`
	timeledger.DaySummaryResponse
}

// ========================================
// MONTHLY SUMMARY
// ========================================

type MonthlySummaryRequest struct {
	Month     int      `json:"month"`
	Year      int      `json:"year"`
	WorkerIDs []string `json:"worker_ids"`
}

func (r *MonthlySummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlySummaryResponse struct {
	PeriodMonth int                 `json:"period_month"`
	PeriodYear  int                 `json:"period_year"`
	DaysInMonth int                 `json:"days_in_month"`
	GeneratedAt string              `json:"generated_at"`
	Totals      MonthlyTotals       `json:"totals"`
	Workers     []MonthlySummaryRow `json:"workers"`
}

type MonthlyTotals struct {
	DaysWorked int     `json:"days_worked"`
	TotalHours float64 `json:"total_hours"`
	LeaveDays  int     `json:"leave_days"`
	AbsentDays int     `json:"absent_days"`
}

type MonthlySummaryRow struct {
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	timeledger.WorkerRollupResponse
}
