package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/reimbursement"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReimbursementHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type ReimbursementHandlerImpl struct {
	reimbursementService reimbursement.ReimbursementService
}

func NewReimbursementHandler(reimbursementService reimbursement.ReimbursementService) ReimbursementHandler {
	return &ReimbursementHandlerImpl{
		reimbursementService: reimbursementService,
	}
}

// Submit implements ReimbursementHandler.
// Accepts JSON, or multipart with a "data" JSON field and an optional "receipt".
func (h *ReimbursementHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	_, workerID, ok := callerWorker(w, r)
	if !ok {
		return
	}

	var req reimbursement.SubmitReimbursementRequest
	file, header, closeFile, err := decodeWithFile(r, &req, "receipt")
	if err != nil {
		slog.Error("SubmitReimbursement decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	defer closeFile()

	req.WorkerID = workerID
	req.File = file
	req.FileHeader = header

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rb, err := h.reimbursementService.Submit(r.Context(), req)
	if err != nil {
		slog.Error("SubmitReimbursement service error", "worker_id", workerID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Reimbursement submitted successfully", rb)
}

// ListMine implements ReimbursementHandler.
func (h *ReimbursementHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	_, workerID, ok := callerWorker(w, r)
	if !ok {
		return
	}

	filter := listFilterFromQuery(r)
	items, err := h.reimbursementService.ListMine(r.Context(), workerID, filter)
	if err != nil {
		slog.Error("ListMyReimbursements service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, items, listMeta(filter))
}

// Get implements ReimbursementHandler.
func (h *ReimbursementHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Reimbursement ID is required", nil)
		return
	}

	rb, err := h.reimbursementService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !canView(identity, rb.WorkerID, user.PermissionRequestViewAll) {
		response.HandleError(w, reimbursement.ErrReimbursementNotFound)
		return
	}

	response.Success(w, rb)
}
