package reimbursement

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

// ReimbursementRepository - interface for reimbursements table
type ReimbursementRepository interface {
	approval.RequestStore

	Create(ctx context.Context, r Reimbursement) (Reimbursement, error)
	GetByID(ctx context.Context, id string) (Reimbursement, error)
	ListByWorker(ctx context.Context, workerID string, filter approval.ListFilter) ([]Reimbursement, error)
}
