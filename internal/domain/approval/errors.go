package approval

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
)

var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrStageMismatch    = errors.New("request is not at the acting role's stage")
	ErrUnauthorizedRole = errors.New("role has no stage in this approval chain")
	ErrAlreadyResolved  = errors.New("request already resolved")
	ErrTransientStore   = errors.New("approval store temporarily unavailable")
	ErrUnknownVariant   = errors.New("unknown request variant")
	ErrInvalidDecision  = errors.New("decision must be approve, reject or override")
	ErrInvalidChain     = errors.New("invalid approval chain")
)

// StageMismatchError is returned when an approver acts on a request that is not at their stage
type StageMismatchError struct {
	Role     user.Role
	Expected Status
	Actual   Status
}

func (e *StageMismatchError) Error() string {
	return fmt.Sprintf("only items %s can be approved by %s (current status: %s)",
		e.Expected.Label(), roleLabel(e.Role), e.Actual)
}

func (e *StageMismatchError) Is(target error) bool {
	return target == ErrStageMismatch
}

func roleLabel(r user.Role) string {
	switch r {
	case user.RoleManager:
		return "a manager"
	case user.RoleHR:
		return "HR"
	case user.RoleFinance:
		return "finance"
	case user.RoleAdmin:
		return "an admin"
	case user.RoleEmployee:
		return "an employee"
	default:
		return string(r)
	}
}

// IsDomainError reports whether err is a decision outcome rather than an infrastructure failure
func IsDomainError(err error) bool {
	return errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrStageMismatch) ||
		errors.Is(err, ErrUnauthorizedRole) ||
		errors.Is(err, ErrAlreadyResolved) ||
		errors.Is(err, ErrUnknownVariant) ||
		errors.Is(err, ErrInvalidDecision)
}
