package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ApprovalHandler interface {
	Decide(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type ApprovalHandlerImpl struct {
	approvalService approval.ApprovalService
}

func NewApprovalHandler(approvalService approval.ApprovalService) ApprovalHandler {
	return &ApprovalHandlerImpl{
		approvalService: approvalService,
	}
}

// Decide implements ApprovalHandler.
func (h *ApprovalHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	variant, err := approval.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req approval.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Decide decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Variant = variant
	req.RequestID = chi.URLParam(r, "id")
	req.ActingUserID = identity.UserID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.approvalService.Decide(r.Context(), req)
	if err != nil {
		slog.Error("Decide service error", "variant", variant, "request_id", req.RequestID,
			"user_id", identity.UserID, "decision", req.Decision, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded successfully", resp)
}

// ListPending implements ApprovalHandler.
// Returns the requests waiting on the caller's own stage.
func (h *ApprovalHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	variant, err := approval.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	items, err := h.approvalService.ListByRoleView(r.Context(), variant, identity.Role)
	if err != nil {
		slog.Error("ListPending service error", "variant", variant, "role", identity.Role, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, items)
}

// History implements ApprovalHandler.
func (h *ApprovalHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	variant, err := approval.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.approvalService.History(r.Context(), variant, chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("History service error", "variant", variant, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}
