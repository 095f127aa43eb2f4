package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypeUnpaid    LeaveType = "unpaid"
)

var LeaveTypes = []string{
	string(LeaveTypeAnnual),
	string(LeaveTypeSick),
	string(LeaveTypePersonal),
	string(LeaveTypeMaternity),
	string(LeaveTypeUnpaid),
}

// LeaveRequest entity
type LeaveRequest struct {
	approval.Request

	LeaveType LeaveType
	StartDate time.Time
	EndDate   time.Time
	DayCount  int // calendar days, both ends inclusive

	Reason        *string
	AttachmentURL *string
}

// CountDays returns the inclusive number of calendar days between two dates
func CountDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
