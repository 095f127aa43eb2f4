package reimbursement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/reimbursement"
	"github.com/cmlabs-hris/hris-workflow-go/internal/service/file"
)

type ReimbursementServiceImpl struct {
	reimbursement.ReimbursementRepository
	approvals   approval.ApprovalService
	fileService file.FileService
}

func NewReimbursementService(
	reimbursementRepo reimbursement.ReimbursementRepository,
	approvals approval.ApprovalService,
	fileService file.FileService,
) reimbursement.ReimbursementService {
	return &ReimbursementServiceImpl{
		ReimbursementRepository: reimbursementRepo,
		approvals:               approvals,
		fileService:             fileService,
	}
}

// Submit implements reimbursement.ReimbursementService.
// An uploaded receipt takes precedence over a provided receipt reference.
func (s *ReimbursementServiceImpl) Submit(ctx context.Context, req reimbursement.SubmitReimbursementRequest) (reimbursement.ReimbursementResponse, error) {
	if err := req.Validate(); err != nil {
		return reimbursement.ReimbursementResponse{}, err
	}

	status, err := s.approvals.InitialStatus(approval.VariantReimbursement)
	if err != nil {
		return reimbursement.ReimbursementResponse{}, err
	}

	receiptRef := req.ReceiptRef
	uploaded := false
	if req.File != nil && req.FileHeader != nil && s.fileService != nil {
		path, err := s.fileService.UploadReceipt(ctx, req.WorkerID, req.File, req.FileHeader.Filename)
		if err != nil {
			return reimbursement.ReimbursementResponse{}, fmt.Errorf("failed to upload receipt: %w", err)
		}
		receiptRef = &path
		uploaded = true
	}

	created, err := s.ReimbursementRepository.Create(ctx, reimbursement.Reimbursement{
		Request: approval.Request{
			WorkerID: req.WorkerID,
			Status:   status,
		},
		Amount:      req.Amount.Round(2),
		Description: req.Description,
		ReceiptRef:  receiptRef,
	})
	if err != nil {
		if uploaded {
			if delErr := s.fileService.DeleteFile(ctx, *receiptRef); delErr != nil {
				slog.Error("failed to remove orphaned receipt", "path", *receiptRef, "error", delErr)
			}
		}
		return reimbursement.ReimbursementResponse{}, fmt.Errorf("failed to create reimbursement: %w", err)
	}

	slog.Info("reimbursement submitted", "id", created.ID, "worker_id", created.WorkerID,
		"amount", created.Amount.StringFixed(2))
	return reimbursement.NewReimbursementResponse(created), nil
}

// Get implements reimbursement.ReimbursementService.
func (s *ReimbursementServiceImpl) Get(ctx context.Context, id string) (reimbursement.ReimbursementResponse, error) {
	r, err := s.ReimbursementRepository.GetByID(ctx, id)
	if err != nil {
		return reimbursement.ReimbursementResponse{}, err
	}
	return reimbursement.NewReimbursementResponse(r), nil
}

// ListMine implements reimbursement.ReimbursementService.
func (s *ReimbursementServiceImpl) ListMine(ctx context.Context, workerID string, filter approval.ListFilter) ([]reimbursement.ReimbursementResponse, error) {
	items, err := s.ReimbursementRepository.ListByWorker(ctx, workerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reimbursements: %w", err)
	}
	resp := make([]reimbursement.ReimbursementResponse, 0, len(items))
	for _, r := range items {
		resp = append(resp, reimbursement.NewReimbursementResponse(r))
	}
	return resp, nil
}
