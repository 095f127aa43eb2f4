package employee

import "time"

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

// Employee is the worker record the ledger and reports key on.
// Profile fields are optional; reports must still list a worker without them.
type Employee struct {
	ID               string
	UserID           *string
	EmployeeCode     string
	FullName         string
	PositionName     *string
	BranchName       *string
	EmploymentStatus EmploymentStatus
	HireDate         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}
