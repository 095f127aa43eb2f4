package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

type LeaveService interface {
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListMine(ctx context.Context, workerID string, filter approval.ListFilter) ([]LeaveRequestResponse, error)
}
