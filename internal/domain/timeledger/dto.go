package timeledger

import (
	"io"
	"mime/multipart"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

type RecordPunchRequest struct {
	WorkerID string  `json:"-"`
	Kind     string  `json:"kind"`
	Location *string `json:"location,omitempty"`
	ProofRef *string `json:"proof_ref,omitempty"`
	DeviceID *string `json:"device_id,omitempty"`

	// OccurredAt defaults to the server clock
	OccurredAt *time.Time `json:"-"`

	// Proof photo; uploaded before the event is recorded
	File       io.Reader             `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *RecordPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	if !PunchKind(r.Kind).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: IN, OUT",
		})
	}

	if r.Location != nil && len(*r.Location) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 255 characters",
		})
	}

	if r.DeviceID != nil && len(*r.DeviceID) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "device_id",
			Message: "device_id must not exceed 255 characters",
		})
	}

	if r.FileHeader != nil && r.FileHeader.Size > 10<<20 {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "photo must not exceed 10MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DailyHoursRequest struct {
	WorkerID string `json:"worker_id"`
	Date     string `json:"date"`
}

func (r *DailyHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

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

type MonthlyRollupRequest struct {
	WorkerIDs []string `json:"worker_ids"`
	Year      int      `json:"year"`
	Month     int      `json:"month"`
}

func (r *MonthlyRollupRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 2000 || r.Year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 9999",
		})
	}

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	for _, id := range r.WorkerIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "worker_ids",
				Message: "worker_ids must not contain empty values",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	ID         string  `json:"id"`
	WorkerID   string  `json:"worker_id"`
	Kind       string  `json:"kind"`
	OccurredAt string  `json:"occurred_at"`
	Location   *string `json:"location,omitempty"`
	ProofRef   *string `json:"proof_ref,omitempty"`
	DeviceID   *string `json:"device_id,omitempty"`
}

type DaySummaryResponse struct {
	WorkerID   string  `json:"worker_id"`
	Date       string  `json:"date"`
	FirstIn    *string `json:"first_in,omitempty"`
	LastOut    *string `json:"last_out,omitempty"`
	Hours      float64 `json:"hours"`
	EventCount int     `json:"event_count"`
}

type WorkerRollupResponse struct {
	WorkerID    string  `json:"worker_id"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	DaysInMonth int     `json:"days_in_month"`
	DaysWorked  int     `json:"days_worked"`
	TotalHours  float64 `json:"total_hours"`
	LeaveDays   int     `json:"leave_days"`
	AbsentDays  int     `json:"absent_days"`
}

func NewPunchResponse(e PunchEvent) PunchResponse {
	return PunchResponse{
		ID:         e.ID,
		WorkerID:   e.WorkerID,
		Kind:       string(e.Kind),
		OccurredAt: e.OccurredAt.Format(time.RFC3339),
		Location:   e.Location,
		ProofRef:   e.ProofRef,
		DeviceID:   e.DeviceID,
	}
}

func NewDaySummaryResponse(s DaySummary) DaySummaryResponse {
	resp := DaySummaryResponse{
		WorkerID:   s.WorkerID,
		Date:       s.Date.Format("2006-01-02"),
		Hours:      s.Hours,
		EventCount: s.EventCount,
	}
	if s.FirstIn != nil {
		v := s.FirstIn.Format(time.RFC3339)
		resp.FirstIn = &v
	}
	if s.LastOut != nil {
		v := s.LastOut.Format(time.RFC3339)
		resp.LastOut = &v
	}
	return resp
}

func NewWorkerRollupResponse(r WorkerRollup) WorkerRollupResponse {
	return WorkerRollupResponse{
		WorkerID:    r.WorkerID,
		Year:        r.Year,
		Month:       int(r.Month),
		DaysInMonth: r.DaysInMonth,
		DaysWorked:  r.DaysWorked,
		TotalHours:  r.TotalHours,
		LeaveDays:   r.LeaveDays,
		AbsentDays:  r.AbsentDays,
	}
}
