package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// Submit implements LeaveHandler.
// Accepts JSON, or multipart with a "data" JSON field and an optional "attachment".
func (h *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	_, workerID, ok := callerWorker(w, r)
	if !ok {
		return
	}

	var req leave.SubmitLeaveRequest
	file, header, closeFile, err := decodeWithFile(r, &req, "attachment")
	if err != nil {
		slog.Error("SubmitLeave decode error", "error", err)
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

	lr, err := h.leaveService.Submit(r.Context(), req)
	if err != nil {
		slog.Error("SubmitLeave service error", "worker_id", workerID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", lr)
}

// ListMine implements LeaveHandler.
func (h *LeaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	_, workerID, ok := callerWorker(w, r)
	if !ok {
		return
	}

	filter := listFilterFromQuery(r)
	items, err := h.leaveService.ListMine(r.Context(), workerID, filter)
	if err != nil {
		slog.Error("ListMyLeaves service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, items, listMeta(filter))
}

// Get implements LeaveHandler.
func (h *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	lr, err := h.leaveService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !canView(identity, lr.WorkerID, user.PermissionRequestViewAll) {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return
	}

	response.Success(w, lr)
}
