package approval

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
)

type DecideRequest struct {
	Variant      Variant `json:"-"`
	RequestID    string  `json:"-"`
	ActingUserID string  `json:"-"`
	Decision     string  `json:"decision"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if validator.IsEmpty(r.ActingUserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "acting_user_id",
			Message: "acting_user_id is required",
		})
	}

	if !Decision(r.Decision).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be one of: approve, reject, override",
		})
	}

	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DecideCommand is a decision with the actor's role already resolved
type DecideCommand struct {
	Variant   Variant
	RequestID string
	ActorID   string
	ActorRole user.Role
	Decision  Decision
	Notes     *string
}

type RequestResponse struct {
	ID         string  `json:"id"`
	Variant    string  `json:"variant"`
	WorkerID   string  `json:"worker_id"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`
	ResolvedBy *string `json:"resolved_by,omitempty"`
	ResolvedAt *string `json:"resolved_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type ActionRecordResponse struct {
	ID         string  `json:"id"`
	RequestID  string  `json:"request_id"`
	ActorID    string  `json:"actor_id"`
	ActorRole  string  `json:"actor_role"`
	Decision   string  `json:"decision"`
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	Notes      *string `json:"notes,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func NewRequestResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:         r.ID,
		Variant:    string(r.Variant),
		WorkerID:   r.WorkerID,
		Status:     string(r.Status),
		Notes:      r.Notes,
		ResolvedBy: r.ResolvedBy,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
	if r.ResolvedAt != nil {
		resolvedAt := r.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &resolvedAt
	}
	return resp
}

func NewActionRecordResponse(a ActionRecord) ActionRecordResponse {
	return ActionRecordResponse{
		ID:         a.ID,
		RequestID:  a.RequestID,
		ActorID:    a.ActorID,
		ActorRole:  string(a.ActorRole),
		Decision:   string(a.Decision),
		FromStatus: string(a.FromStatus),
		ToStatus:   string(a.ToStatus),
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}
