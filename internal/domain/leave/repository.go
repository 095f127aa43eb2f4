package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	approval.RequestStore
	timeledger.LeaveDayCounter

	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	ListByWorker(ctx context.Context, workerID string, filter approval.ListFilter) ([]LeaveRequest, error)
}
