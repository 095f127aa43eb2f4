package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

type SubmitTimesheetRequest struct {
	WorkerID string `json:"-"`
	Project  string `json:"project"`
	Task     string `json:"task"`
	Date     string `json:"date"`

	// Hours is derived from the worker's punches that day when omitted
	Hours *float64 `json:"hours,omitempty"`
	Notes *string  `json:"notes,omitempty"`
}

func (r *SubmitTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	if validator.IsEmpty(r.Project) {
		errs = append(errs, validator.ValidationError{
			Field:   "project",
			Message: "project is required",
		})
	} else if len(r.Project) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "project",
			Message: "project must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Task) {
		errs = append(errs, validator.ValidationError{
			Field:   "task",
			Message: "task is required",
		})
	} else if len(r.Task) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "task",
			Message: "task must not exceed 255 characters",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.Hours != nil && (*r.Hours < 0 || *r.Hours > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must be between 0 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimesheetResponse struct {
	approval.RequestResponse
	Project      string  `json:"project"`
	Task         string  `json:"task"`
	Date         string  `json:"date"`
	Hours        float64 `json:"hours"`
	HoursDerived bool    `json:"hours_derived"`
}

func NewTimesheetResponse(ts Timesheet) TimesheetResponse {
	return TimesheetResponse{
		RequestResponse: approval.NewRequestResponse(ts.Request),
		Project:         ts.Project,
		Task:            ts.Task,
		Date:            ts.Date.Format(time.DateOnly),
		Hours:           ts.Hours,
		HoursDerived:    ts.HoursDerived,
	}
}
