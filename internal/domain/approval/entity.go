package approval

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
)

type Variant string

const (
	VariantTimesheet     Variant = "timesheet"
	VariantLeave         Variant = "leave"
	VariantReimbursement Variant = "reimbursement"
)

var Variants = []Variant{VariantTimesheet, VariantLeave, VariantReimbursement}

// ParseVariant accepts both singular and plural route forms
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "timesheet", "timesheets":
		return VariantTimesheet, nil
	case "leave", "leaves":
		return VariantLeave, nil
	case "reimbursement", "reimbursements":
		return VariantReimbursement, nil
	}
	return "", ErrUnknownVariant
}

type Status string

const (
	StatusPendingManager Status = "PENDING_MANAGER"
	StatusPendingHR      Status = "PENDING_HR"
	StatusPendingFinance Status = "PENDING_FINANCE"
	StatusApproved       Status = "APPROVED"
	StatusRejected       Status = "REJECTED"
	StatusOverridden     Status = "OVERRIDDEN"
)

var knownStatuses = map[Status]string{
	StatusPendingManager: "pending manager review",
	StatusPendingHR:      "pending HR review",
	StatusPendingFinance: "pending finance review",
	StatusApproved:       "approved",
	StatusRejected:       "rejected",
	StatusOverridden:     "overridden",
}

func (s Status) IsValid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// Label is the human readable form used in error messages
func (s Status) Label() string {
	if label, ok := knownStatuses[s]; ok {
		return label
	}
	return string(s)
}

type Decision string

const (
	DecisionApprove  Decision = "approve"
	DecisionReject   Decision = "reject"
	DecisionOverride Decision = "override"
)

func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject || d == DecisionOverride
}

// Request holds the fields every approvable entity shares.
// Variant payloads embed it.
type Request struct {
	ID         string
	Variant    Variant
	WorkerID   string
	Status     Status
	Notes      *string
	ResolvedBy *string
	ResolvedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ActionRecord is one immutable entry in a request's decision history
type ActionRecord struct {
	ID         string
	Variant    Variant
	RequestID  string
	ActorID    string
	ActorRole  user.Role
	Decision   Decision
	FromStatus Status
	ToStatus   Status
	Notes      *string
	CreatedAt  time.Time
}
