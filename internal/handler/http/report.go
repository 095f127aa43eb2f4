package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
)

const defaultRecentLimit = 10

type ReportHandler interface {
	StatusBreakdown(w http.ResponseWriter, r *http.Request)
	RecentActivity(w http.ResponseWriter, r *http.Request)
	AttendanceView(w http.ResponseWriter, r *http.Request)
	DailySummary(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
	loc           *time.Location
}

func NewReportHandler(reportService report.ReportService, loc *time.Location) ReportHandler {
	return &ReportHandlerImpl{
		reportService: reportService,
		loc:           loc,
	}
}

// StatusBreakdown implements ReportHandler.
func (h *ReportHandlerImpl) StatusBreakdown(w http.ResponseWriter, r *http.Request) {
	resp, err := h.reportService.StatusBreakdown(r.Context())
	if err != nil {
		slog.Error("StatusBreakdown service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// RecentActivity implements ReportHandler.
func (h *ReportHandlerImpl) RecentActivity(w http.ResponseWriter, r *http.Request) {
	req := report.RecentActivityRequest{Limit: defaultRecentLimit}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid limit format", nil)
			return
		}
		req.Limit = limit
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.reportService.RecentActivity(r.Context(), req)
	if err != nil {
		slog.Error("RecentActivity service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// AttendanceView implements ReportHandler.
func (h *ReportHandlerImpl) AttendanceView(w http.ResponseWriter, r *http.Request) {
	req := report.AttendanceViewRequest{Date: h.dateOrToday(r)}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.reportService.AttendanceView(r.Context(), req)
	if err != nil {
		slog.Error("AttendanceView service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// DailySummary implements ReportHandler.
func (h *ReportHandlerImpl) DailySummary(w http.ResponseWriter, r *http.Request) {
	req := report.DailySummaryRequest{Date: h.dateOrToday(r)}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.reportService.DailySummary(r.Context(), req)
	if err != nil {
		slog.Error("DailySummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *ReportHandlerImpl) dateOrToday(r *http.Request) string {
	if date := r.URL.Query().Get("date"); date != "" {
		return date
	}
	return time.Now().In(h.loc).Format(time.DateOnly)
}
