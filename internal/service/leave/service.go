package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-workflow-go/internal/service/file"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	approvals   approval.ApprovalService
	fileService file.FileService
}

func NewLeaveService(
	leaveRequestRepo leave.LeaveRequestRepository,
	approvals approval.ApprovalService,
	fileService file.FileService,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		approvals:              approvals,
		fileService:            fileService,
	}
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	status, err := s.approvals.InitialStatus(approval.VariantLeave)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var attachmentURL *string
	if req.File != nil && req.FileHeader != nil && s.fileService != nil {
		path, err := s.fileService.UploadLeaveAttachment(ctx, req.WorkerID, req.File, req.FileHeader.Filename)
		if err != nil {
			return leave.LeaveRequestResponse{}, fmt.Errorf("failed to upload attachment: %w", err)
		}
		attachmentURL = &path
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		Request: approval.Request{
			WorkerID: req.WorkerID,
			Status:   status,
		},
		LeaveType:     leave.LeaveType(req.LeaveType),
		StartDate:     start,
		EndDate:       end,
		DayCount:      leave.CountDays(start, end),
		Reason:        req.Reason,
		AttachmentURL: attachmentURL,
	})
	if err != nil {
		if attachmentURL != nil {
			if delErr := s.fileService.DeleteFile(ctx, *attachmentURL); delErr != nil {
				slog.Error("failed to remove orphaned leave attachment", "path", *attachmentURL, "error", delErr)
			}
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("leave request submitted", "id", created.ID, "worker_id", created.WorkerID,
		"type", created.LeaveType, "day_count", created.DayCount)
	return leave.NewLeaveRequestResponse(created), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	lr, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(lr), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, workerID string, filter approval.ListFilter) ([]leave.LeaveRequestResponse, error) {
	items, err := s.LeaveRequestRepository.ListByWorker(ctx, workerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	resp := make([]leave.LeaveRequestResponse, 0, len(items))
	for _, lr := range items {
		resp = append(resp, leave.NewLeaveRequestResponse(lr))
	}
	return resp, nil
}
