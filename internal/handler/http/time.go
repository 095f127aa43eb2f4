package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
)

type TimeHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	DailyHours(w http.ResponseWriter, r *http.Request)
	MonthlyRollup(w http.ResponseWriter, r *http.Request)
	ExportMonthlyRollup(w http.ResponseWriter, r *http.Request)
}

type TimeHandlerImpl struct {
	ledger        timeledger.LedgerService
	reportService report.ReportService
}

func NewTimeHandler(ledger timeledger.LedgerService, reportService report.ReportService) TimeHandler {
	return &TimeHandlerImpl{
		ledger:        ledger,
		reportService: reportService,
	}
}

// Punch implements TimeHandler.
// Accepts JSON, or multipart with a "data" JSON field and an optional "photo".
func (h *TimeHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	_, workerID, ok := callerWorker(w, r)
	if !ok {
		return
	}

	var req timeledger.RecordPunchRequest
	file, header, closeFile, err := decodeWithFile(r, &req, "photo")
	if err != nil {
		slog.Error("Punch decode error", "error", err)
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

	punch, err := h.ledger.RecordPunch(r.Context(), req)
	if err != nil {
		slog.Error("Punch service error", "worker_id", workerID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded successfully", punch)
}

// DailyHours implements TimeHandler.
func (h *TimeHandlerImpl) DailyHours(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := callerWorkerOrApprover(w, r)
	if !ok {
		return
	}

	req := timeledger.DailyHoursRequest{
		WorkerID: r.URL.Query().Get("worker_id"),
		Date:     r.URL.Query().Get("date"),
	}
	if req.WorkerID == "" && identity.HasWorker() {
		req.WorkerID = *identity.WorkerID
	}
	if req.Date == "" {
		req.Date = time.Now().In(h.ledger.Location()).Format(time.DateOnly)
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !canView(identity, req.WorkerID, user.PermissionTimeViewAll) {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	day, _ := time.ParseInLocation(time.DateOnly, req.Date, h.ledger.Location())
	summary, err := h.ledger.DailyHours(r.Context(), req.WorkerID, day)
	if err != nil {
		slog.Error("DailyHours service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, timeledger.NewDaySummaryResponse(summary))
}

// MonthlyRollup implements TimeHandler.
// Callers without time.view_all only ever see their own rollup.
func (h *TimeHandlerImpl) MonthlyRollup(w http.ResponseWriter, r *http.Request) {
	identity, _, ok := callerWorkerOrApprover(w, r)
	if !ok {
		return
	}

	req, ok := monthlyRollupFromQuery(w, r)
	if !ok {
		return
	}

	if !user.HasPermission(identity.Role, user.PermissionTimeViewAll) {
		if !identity.HasWorker() {
			response.HandleError(w, user.ErrWorkerNotLinked)
			return
		}
		for _, id := range req.WorkerIDs {
			if id != *identity.WorkerID {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}
		}
		req.WorkerIDs = []string{*identity.WorkerID}
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rollups, err := h.ledger.MonthlyRollup(r.Context(), req.WorkerIDs, req.Year, time.Month(req.Month))
	if err != nil {
		slog.Error("MonthlyRollup service error", "error", err)
		response.HandleError(w, err)
		return
	}

	resp := make([]timeledger.WorkerRollupResponse, 0, len(rollups))
	for _, rollup := range rollups {
		resp = append(resp, timeledger.NewWorkerRollupResponse(rollup))
	}
	response.Success(w, resp)
}

// ExportMonthlyRollup implements TimeHandler.
func (h *TimeHandlerImpl) ExportMonthlyRollup(w http.ResponseWriter, r *http.Request) {
	rollup, ok := monthlyRollupFromQuery(w, r)
	if !ok {
		return
	}

	req := report.MonthlySummaryRequest{
		Month:     rollup.Month,
		Year:      rollup.Year,
		WorkerIDs: rollup.WorkerIDs,
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("workforce-summary-%04d-%02d.xlsx", req.Year, req.Month)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.reportService.ExportMonthlySummary(r.Context(), req, w); err != nil {
		slog.Error("ExportMonthlyRollup service error", "error", err)
		w.Header().Del("Content-Disposition")
		response.HandleError(w, err)
		return
	}
}

// ==================== HELPER FUNCTIONS ====================

// callerWorkerOrApprover returns the identity; a caller without a worker record is
// accepted only when it may view other workers' time.
func callerWorkerOrApprover(w http.ResponseWriter, r *http.Request) (user.Identity, string, bool) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return user.Identity{}, "", false
	}
	if identity.HasWorker() {
		return identity, *identity.WorkerID, true
	}
	if !user.HasPermission(identity.Role, user.PermissionTimeViewAll) {
		response.HandleError(w, user.ErrWorkerNotLinked)
		return user.Identity{}, "", false
	}
	return identity, "", true
}

func monthlyRollupFromQuery(w http.ResponseWriter, r *http.Request) (timeledger.MonthlyRollupRequest, bool) {
	q := r.URL.Query()
	now := time.Now()
	req := timeledger.MonthlyRollupRequest{
		WorkerIDs: splitCSV(q.Get("worker_id")),
		Year:      now.Year(),
		Month:     int(now.Month()),
	}

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid year format", nil)
			return req, false
		}
		req.Year = year
	}
	if v := q.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid month format", nil)
			return req, false
		}
		req.Month = month
	}
	return req, true
}
