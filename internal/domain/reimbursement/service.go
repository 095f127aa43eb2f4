package reimbursement

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

type ReimbursementService interface {
	Submit(ctx context.Context, req SubmitReimbursementRequest) (ReimbursementResponse, error)
	Get(ctx context.Context, id string) (ReimbursementResponse, error)
	ListMine(ctx context.Context, workerID string, filter approval.ListFilter) ([]ReimbursementResponse, error)
}
