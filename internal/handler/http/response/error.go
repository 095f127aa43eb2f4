package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-workflow-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Stage mismatch carries the stage-specific message
	var mismatch *approval.StageMismatchError
	if errors.As(err, &mismatch) {
		Forbidden(w, mismatch.Error())
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, user.ErrUserNotFound):
		Unauthorized(w, "Unknown user")
	case errors.Is(err, user.ErrInvalidRole):
		Forbidden(w, "User has no valid role")
	case errors.Is(err, user.ErrWorkerNotLinked):
		Forbidden(w, "User is not linked to a worker")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Approval errors
	case errors.Is(err, approval.ErrStageMismatch):
		Forbidden(w, err.Error())
	case errors.Is(err, approval.ErrUnauthorizedRole):
		Forbidden(w, "Your role has no stage in this approval chain")
	case errors.Is(err, approval.ErrAlreadyResolved):
		Conflict(w, "Request already resolved")
	case errors.Is(err, approval.ErrRequestNotFound):
		NotFound(w, "Request not found")
	case errors.Is(err, approval.ErrUnknownVariant):
		NotFound(w, "Unknown request type")
	case errors.Is(err, approval.ErrInvalidDecision):
		ValidationError(w, map[string]string{"decision": err.Error()})
	case errors.Is(err, approval.ErrTransientStore):
		ServiceUnavailable(w, "Approval store temporarily unavailable, please retry")

	// Time ledger and report errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, timeledger.ErrInvalidPunchKind):
		ValidationError(w, map[string]string{"kind": err.Error()})
	case errors.Is(err, timeledger.ErrWorkerRequired):
		ValidationError(w, map[string]string{"worker_id": err.Error()})
	case errors.Is(err, report.ErrInvalidMonth):
		ValidationError(w, map[string]string{"month": err.Error()})

	// File errors
	case errors.Is(err, file.ErrUnsupportedFileType):
		ValidationError(w, map[string]string{"file": err.Error()})
	case errors.Is(err, file.ErrFileTooLarge):
		ValidationError(w, map[string]string{"file": err.Error()})

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
