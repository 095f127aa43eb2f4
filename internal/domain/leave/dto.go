package leave

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

type SubmitLeaveRequest struct {
	WorkerID  string  `json:"-"`
	LeaveType string  `json:"leave_type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason,omitempty"`

	File       io.Reader             `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	if !validator.IsInSlice(r.LeaveType, LeaveTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: " + strings.Join(LeaveTypes, ", "),
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if r.Reason != nil && len(*r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if r.FileHeader != nil {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, []string{".pdf", ".jpg", ".jpeg", ".png"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: "attachment must be a pdf, jpg, jpeg or png file",
			})
		}
		if r.FileHeader.Size > 5<<20 {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: "attachment must not exceed 5MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestResponse struct {
	approval.RequestResponse
	LeaveType     string  `json:"leave_type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	DayCount      int     `json:"day_count"`
	Reason        *string `json:"reason,omitempty"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}

func NewLeaveRequestResponse(lr LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		RequestResponse: approval.NewRequestResponse(lr.Request),
		LeaveType:       string(lr.LeaveType),
		StartDate:       lr.StartDate.Format(time.DateOnly),
		EndDate:         lr.EndDate.Format(time.DateOnly),
		DayCount:        lr.DayCount,
		Reason:          lr.Reason,
		AttachmentURL:   lr.AttachmentURL,
	}
}
