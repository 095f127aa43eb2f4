package approval_test

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
)

func leaveWithNotes(notes *string) leave.LeaveRequest {
	reason := "family"
	day := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	return leave.LeaveRequest{
		Request:   approval.Request{WorkerID: "w1", Status: approval.StatusPendingManager, Notes: notes},
		LeaveType: leave.LeaveTypeAnnual,
		StartDate: day,
		EndDate:   day,
		DayCount:  1,
		Reason:    &reason,
	}
}
