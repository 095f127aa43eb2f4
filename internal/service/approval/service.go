package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/metrics"
)

type ApprovalServiceImpl struct {
	stores  map[approval.Variant]approval.RequestStore
	actions approval.ActionRepository
	tx      approval.TxManager
	chains  approval.ChainConfig
	user.IdentityRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewApprovalService(
	stores map[approval.Variant]approval.RequestStore,
	actionRepo approval.ActionRepository,
	txManager approval.TxManager,
	chains approval.ChainConfig,
	identityRepo user.IdentityRepository,
	m *metrics.Metrics,
) approval.ApprovalService {
	return &ApprovalServiceImpl{
		stores:             stores,
		actions:            actionRepo,
		tx:                 txManager,
		chains:             chains,
		IdentityRepository: identityRepo,
		metrics:            m,
		now:                time.Now,
	}
}

// InitialStatus implements approval.ApprovalService.
func (s *ApprovalServiceImpl) InitialStatus(variant approval.Variant) (approval.Status, error) {
	chain, err := s.chains.Chain(variant)
	if err != nil {
		return "", err
	}
	return chain.Initial(), nil
}

// Decide implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Decide(ctx context.Context, req approval.DecideRequest) (approval.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.RequestResponse{}, err
	}

	identity, err := s.IdentityRepository.GetIdentity(ctx, req.ActingUserID)
	if err != nil {
		return approval.RequestResponse{}, err
	}

	decided, err := s.DecideAs(ctx, approval.DecideCommand{
		Variant:   req.Variant,
		RequestID: req.RequestID,
		ActorID:   identity.UserID,
		ActorRole: identity.Role,
		Decision:  approval.Decision(req.Decision),
		Notes:     req.Notes,
	})
	if err != nil {
		return approval.RequestResponse{}, err
	}
	return approval.NewRequestResponse(decided), nil
}

// DecideAs implements approval.ApprovalService.
// The read, the stage check, the status write and the action append happen in one
// transaction; the row lock makes a concurrent decision on the same request observe
// the updated status.
func (s *ApprovalServiceImpl) DecideAs(ctx context.Context, cmd approval.DecideCommand) (approval.Request, error) {
	started := s.now()

	decided, err := s.decide(ctx, cmd)

	s.metrics.ObserveDecision(string(cmd.Variant), string(cmd.Decision), outcome(err), s.now().Sub(started))
	if err != nil {
		if approval.IsDomainError(err) {
			slog.Info("approval decision refused",
				"variant", cmd.Variant, "request_id", cmd.RequestID, "role", cmd.ActorRole,
				"decision", cmd.Decision, "reason", err.Error())
			return approval.Request{}, err
		}
		slog.Error("approval decision failed",
			"variant", cmd.Variant, "request_id", cmd.RequestID, "error", err)
		return approval.Request{}, fmt.Errorf("%w: %w", approval.ErrTransientStore, err)
	}

	slog.Info("approval decision applied",
		"variant", cmd.Variant, "request_id", cmd.RequestID, "actor_id", cmd.ActorID,
		"role", cmd.ActorRole, "decision", cmd.Decision, "status", decided.Status)
	return decided, nil
}

func (s *ApprovalServiceImpl) decide(ctx context.Context, cmd approval.DecideCommand) (approval.Request, error) {
	if !cmd.Decision.IsValid() {
		return approval.Request{}, approval.ErrInvalidDecision
	}
	chain, err := s.chains.Chain(cmd.Variant)
	if err != nil {
		return approval.Request{}, err
	}
	store, ok := s.stores[cmd.Variant]
	if !ok {
		return approval.Request{}, approval.ErrUnknownVariant
	}

	var decided approval.Request
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		req, err := store.GetForDecision(ctx, cmd.RequestID)
		if err != nil {
			return err
		}

		next, err := chain.Transition(req.Status, cmd.ActorRole, cmd.Decision)
		if err != nil {
			return err
		}

		from := req.Status
		now := s.now()
		actorID := cmd.ActorID
		req.Status = next
		req.ResolvedBy = &actorID
		req.ResolvedAt = &now
		req.Notes = cmd.Notes

		if err := store.SaveDecision(ctx, req); err != nil {
			return err
		}

		if _, err := s.actions.Append(ctx, approval.ActionRecord{
			Variant:    cmd.Variant,
			RequestID:  req.ID,
			ActorID:    cmd.ActorID,
			ActorRole:  cmd.ActorRole,
			Decision:   cmd.Decision,
			FromStatus: from,
			ToStatus:   next,
			Notes:      cmd.Notes,
		}); err != nil {
			return fmt.Errorf("failed to append approval action: %w", err)
		}

		decided = req
		return nil
	})
	return decided, err
}

// ListByRoleView implements approval.ApprovalService.
// A role with a stage sees its pending status; admin sees every pending status.
func (s *ApprovalServiceImpl) ListByRoleView(ctx context.Context, variant approval.Variant, role user.Role) ([]approval.RequestResponse, error) {
	chain, err := s.chains.Chain(variant)
	if err != nil {
		return nil, err
	}
	store, ok := s.stores[variant]
	if !ok {
		return nil, approval.ErrUnknownVariant
	}

	var statuses []approval.Status
	switch {
	case role == user.RoleAdmin:
		statuses = chain.PendingStatuses()
	default:
		if pending, ok := chain.PendingStatusFor(role); ok {
			statuses = []approval.Status{pending}
		}
	}
	if len(statuses) == 0 {
		return []approval.RequestResponse{}, nil
	}

	requests, err := store.ListByStatus(ctx, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending %s requests: %w", variant, err)
	}

	resp := make([]approval.RequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, approval.NewRequestResponse(r))
	}
	return resp, nil
}

// History implements approval.ApprovalService.
func (s *ApprovalServiceImpl) History(ctx context.Context, variant approval.Variant, requestID string) ([]approval.ActionRecordResponse, error) {
	store, ok := s.stores[variant]
	if !ok {
		return nil, approval.ErrUnknownVariant
	}
	if _, err := store.GetForDecision(ctx, requestID); err != nil {
		return nil, err
	}

	records, err := s.actions.ListByRequest(ctx, variant, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval history: %w", err)
	}

	resp := make([]approval.ActionRecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, approval.NewActionRecordResponse(r))
	}
	return resp, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, approval.ErrRequestNotFound):
		return "not_found"
	case errors.Is(err, approval.ErrStageMismatch):
		return "stage_mismatch"
	case errors.Is(err, approval.ErrUnauthorizedRole):
		return "unauthorized_role"
	case errors.Is(err, approval.ErrAlreadyResolved):
		return "already_resolved"
	case approval.IsDomainError(err):
		return "invalid"
	default:
		return "transient"
	}
}
