package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimesheetHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &TimesheetHandlerImpl{
		timesheetService: timesheetService,
	}
}

// Submit implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	_, workerID, ok := callerWorker(w, r)
	if !ok {
		return
	}

	var req timesheet.SubmitTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitTimesheet decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.WorkerID = workerID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	ts, err := h.timesheetService.Submit(r.Context(), req)
	if err != nil {
		slog.Error("SubmitTimesheet service error", "worker_id", workerID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Timesheet submitted successfully", ts)
}

// ListMine implements TimesheetHandler.
func (h *TimesheetHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	_, workerID, ok := callerWorker(w, r)
	if !ok {
		return
	}

	filter := listFilterFromQuery(r)
	items, err := h.timesheetService.ListMine(r.Context(), workerID, filter)
	if err != nil {
		slog.Error("ListMyTimesheets service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, items, listMeta(filter))
}

// Get implements TimesheetHandler.
// Requests owned by someone else are reported as not found to callers without request.view_all.
func (h *TimesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Timesheet ID is required", nil)
		return
	}

	ts, err := h.timesheetService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !canView(identity, ts.WorkerID, user.PermissionRequestViewAll) {
		response.HandleError(w, timesheet.ErrTimesheetNotFound)
		return
	}

	response.Success(w, ts)
}
