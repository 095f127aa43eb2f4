package reimbursement

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SubmitReimbursementRequest struct {
	WorkerID    string          `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ReceiptRef  *string         `json:"receipt_ref,omitempty"`

	File       io.Reader             `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

var maxAmount = decimal.New(1, 12)

func (r *SubmitReimbursementRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	} else if r.Amount.GreaterThanOrEqual(maxAmount) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount is too large",
		})
	} else if !r.Amount.Equal(r.Amount.Round(2)) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must have at most 2 decimal places",
		})
	}

	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description is required",
		})
	} else if len(r.Description) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description must not exceed 1000 characters",
		})
	}

	if r.FileHeader != nil {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, []string{".pdf", ".jpg", ".jpeg", ".png"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "receipt",
				Message: "receipt must be a pdf, jpg, jpeg or png file",
			})
		}
		if r.FileHeader.Size > 5<<20 {
			errs = append(errs, validator.ValidationError{
				Field:   "receipt",
				Message: "receipt must not exceed 5MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReimbursementResponse struct {
	approval.RequestResponse
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	ReceiptRef  *string `json:"receipt_ref,omitempty"`
}

func NewReimbursementResponse(r Reimbursement) ReimbursementResponse {
	return ReimbursementResponse{
		RequestResponse: approval.NewRequestResponse(r.Request),
		Amount:          r.Amount.StringFixed(2),
		Description:     r.Description,
		ReceiptRef:      r.ReceiptRef,
	}
}
