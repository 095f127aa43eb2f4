package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/memory"
	approvalService "github.com/cmlabs-hris/hris-workflow-go/internal/service/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hris-workflow-go/internal/service/leave"
	reimbursementService "github.com/cmlabs-hris/hris-workflow-go/internal/service/reimbursement"
	reportService "github.com/cmlabs-hris/hris-workflow-go/internal/service/report"
	ledgerService "github.com/cmlabs-hris/hris-workflow-go/internal/service/timeledger"
	timesheetService "github.com/cmlabs-hris/hris-workflow-go/internal/service/timesheet"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testServer struct {
	router *chi.Mux
	jwt    jwt.Service
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	fixtures.Seed(store)

	local, err := storage.NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)
	fileSvc := file.NewFileService(local)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	chains := approval.DefaultChainConfig()
	approvals := approvalService.NewApprovalService(map[approval.Variant]approval.RequestStore{
		approval.VariantTimesheet:     store.Timesheets(),
		approval.VariantLeave:         store.Leaves(),
		approval.VariantReimbursement: store.Reimbursements(),
	}, store.Actions(), store, chains, store.Identities(), m)

	ledger := ledgerService.NewLedgerService(store.Punches(), store.Leaves(), store.Employees(), fileSvc, m, time.UTC)
	reports := reportService.NewReportService(store.Reports(), store.Employees(), ledger, chains,
		report.Cutoff{Hour: 9}, nil, 0, m)

	jwtSvc := jwt.NewJWTService(handlerTestSecret, time.Hour)

	router := NewRouter(jwtSvc, store.Identities(), Handlers{
		Time:          NewTimeHandler(ledger, reports),
		Timesheet:     NewTimesheetHandler(timesheetService.NewTimesheetService(store.Timesheets(), ledger, approvals)),
		Leave:         NewLeaveHandler(leaveService.NewLeaveService(store.Leaves(), approvals, fileSvc)),
		Reimbursement: NewReimbursementHandler(reimbursementService.NewReimbursementService(store.Reimbursements(), approvals, fileSvc)),
		Approval:      NewApprovalHandler(approvals),
		Report:        NewReportHandler(reports, time.UTC),
	}, RouterOptions{
		Gatherer:     reg,
		PunchLimiter: middleware.NewTokenBucket(100, 100),
		Health:       map[string]HealthChecker{"store": store},
	})

	return &testServer{router: router, jwt: jwtSvc, store: store}
}

func (s *testServer) token(t *testing.T, userID string, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, userID string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		identity, err := s.store.Identities().GetIdentity(context.Background(), userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+s.token(t, userID, identity.Role))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	}
	return w, resp
}

func dataOf(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return data
}

func errorMessage(resp map[string]any) string {
	detail, _ := resp["error"].(map[string]any)
	msg, _ := detail["message"].(string)
	return msg
}

// ===== HANDLER TESTS =====

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/v1/timesheets/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RevokedToken(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, fixtures.EmployeeUserID, user.RoleEmployee)
	s.jwt.RevokeToken(token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timesheets/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ReimbursementFullChain(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/v1/reimbursements", fixtures.EmployeeUserID, map[string]any{
		"amount":      "125.50",
		"description": "client dinner",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := dataOf(t, resp)
	id := created["id"].(string)
	assert.Equal(t, "PENDING_MANAGER", created["status"])

	steps := []struct {
		userID string
		want   string
	}{
		{fixtures.ManagerUserID, "PENDING_HR"},
		{fixtures.HRUserID, "PENDING_FINANCE"},
		{fixtures.FinanceUserID, "APPROVED"},
	}
	for _, step := range steps {
		w, resp := s.do(t, http.MethodPost, "/api/v1/approvals/reimbursement/"+id+"/decision", step.userID,
			map[string]any{"decision": "approve"})
		require.Equal(t, http.StatusOK, w.Code, resp)
		assert.Equal(t, step.want, dataOf(t, resp)["status"])
	}

	w, resp = s.do(t, http.MethodGet, "/api/v1/approvals/reimbursement/"+id+"/history", fixtures.AdminUserID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := resp["data"].([]any)
	require.Len(t, history, 3)
	assert.Equal(t, "manager", history[0].(map[string]any)["actor_role"])
	assert.Equal(t, "finance", history[2].(map[string]any)["actor_role"])
}

func TestRouter_StageMismatchIsForbidden(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/v1/timesheets", fixtures.EmployeeUserID, map[string]any{
		"project": "Apollo",
		"task":    "Build",
		"date":    "2026-04-06",
		"hours":   8,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := dataOf(t, resp)["id"].(string)

	w, resp = s.do(t, http.MethodPost, "/api/v1/approvals/timesheet/"+id+"/decision", fixtures.HRUserID,
		map[string]any{"decision": "approve"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, errorMessage(resp), "only items pending HR review can be approved by HR")
	assert.Contains(t, errorMessage(resp), "current status: PENDING_MANAGER")

	w, resp = s.do(t, http.MethodGet, "/api/v1/approvals/timesheet/"+id+"/history", fixtures.AdminUserID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp["data"])
}

func TestRouter_RejectThenApproveOnTerminal(t *testing.T) {
	s := newTestServer(t)

	_, resp := s.do(t, http.MethodPost, "/api/v1/leaves", fixtures.EmployeeUserID, map[string]any{
		"leave_type": "annual",
		"start_date": "2026-04-09",
		"end_date":   "2026-04-10",
	})
	id := dataOf(t, resp)["id"].(string)
	assert.EqualValues(t, 2, dataOf(t, resp)["day_count"])

	w, _ := s.do(t, http.MethodPost, "/api/v1/approvals/leave/"+id+"/decision", fixtures.ManagerUserID,
		map[string]any{"decision": "reject", "notes": "overlaps release"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/approvals/leave/"+id+"/decision", fixtures.ManagerUserID,
		map[string]any{"decision": "reject"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/approvals/leave/"+id+"/decision", fixtures.HRUserID,
		map[string]any{"decision": "approve"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_EmployeeCannotDecideOrViewReports(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/v1/approvals/timesheet/pending", fixtures.EmployeeUserID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/reports/status-breakdown", fixtures.EmployeeUserID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_PendingForRole(t *testing.T) {
	s := newTestServer(t)

	for range 2 {
		w, _ := s.do(t, http.MethodPost, "/api/v1/timesheets", fixtures.EmployeeUserID, map[string]any{
			"project": "Apollo", "task": "Build", "date": "2026-04-06", "hours": 4,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, resp := s.do(t, http.MethodGet, "/api/v1/approvals/timesheets/pending", fixtures.ManagerUserID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 2)

	w, resp = s.do(t, http.MethodGet, "/api/v1/approvals/timesheets/pending", fixtures.HRUserID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp["data"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/approvals/payroll/pending", fixtures.ManagerUserID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_PunchAndDailyHours(t *testing.T) {
	s := newTestServer(t)

	for _, kind := range []string{"IN", "OUT"} {
		w, _ := s.do(t, http.MethodPost, "/api/v1/punches", fixtures.EmployeeUserID, map[string]any{"kind": kind})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, resp := s.do(t, http.MethodPost, "/api/v1/punches", fixtures.EmployeeUserID, map[string]any{"kind": "BREAK"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, resp["error"].(map[string]any)["details"], "kind")

	today := time.Now().UTC().Format(time.DateOnly)
	w, resp = s.do(t, http.MethodGet, "/api/v1/time/daily?date="+today, fixtures.EmployeeUserID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := dataOf(t, resp)
	assert.EqualValues(t, 2, summary["event_count"])
	assert.Equal(t, fixtures.EmployeeWorkerID, summary["worker_id"])

	// employees cannot read someone else's hours
	w, _ = s.do(t, http.MethodGet, "/api/v1/time/daily?worker_id="+fixtures.ManagerWorkerID, fixtures.EmployeeUserID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_PunchWithPhoto(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("data", `{"kind":"IN","location":"HQ"}`))
	part, err := mw.CreateFormFile("photo", "selfie.jpg")
	require.NoError(t, err)
	_, err = part.Write(testJPEG(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/punches", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token(t, fixtures.EmployeeUserID, user.RoleEmployee))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, dataOf(t, resp)["proof_ref"])
	assert.Equal(t, "HQ", dataOf(t, resp)["location"])
}

func TestRouter_AdminWithoutWorkerCannotPunch(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/punches", fixtures.AdminUserID, map[string]any{"kind": "IN"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_MalformedRequestIDIsNotFound(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		userID string
		body   any
	}{
		{"decision", http.MethodPost, "/api/v1/approvals/timesheet/abc/decision", fixtures.ManagerUserID, map[string]any{"decision": "approve"}},
		{"reject", http.MethodPost, "/api/v1/approvals/leave/abc/decision", fixtures.HRUserID, map[string]any{"decision": "reject"}},
		{"history", http.MethodGet, "/api/v1/approvals/reimbursement/abc/history", fixtures.AdminUserID, nil},
		{"timesheet detail", http.MethodGet, "/api/v1/timesheets/abc", fixtures.HRUserID, nil},
		{"leave detail", http.MethodGet, "/api/v1/leaves/abc", fixtures.HRUserID, nil},
		{"reimbursement detail", http.MethodGet, "/api/v1/reimbursements/abc", fixtures.HRUserID, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := s.do(t, tt.method, tt.path, tt.userID, tt.body)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}

	w, resp := s.do(t, http.MethodGet, "/api/v1/time/daily?worker_id=abc&date=2026-04-06", fixtures.HRUserID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, dataOf(t, resp)["hours"])
}

func TestRouter_OtherWorkersRequestIsHidden(t *testing.T) {
	s := newTestServer(t)

	_, resp := s.do(t, http.MethodPost, "/api/v1/reimbursements", fixtures.ManagerUserID, map[string]any{
		"amount": 20, "description": "parking",
	})
	id := dataOf(t, resp)["id"].(string)

	w, _ := s.do(t, http.MethodGet, "/api/v1/reimbursements/"+id, fixtures.EmployeeUserID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/reimbursements/"+id, fixtures.HRUserID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Reports(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodGet, "/api/v1/reports/attendance?date=2026-04-06", fixtures.HRUserID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	attendance := dataOf(t, resp)
	assert.EqualValues(t, 4, attendance["absent"])
	assert.Equal(t, "09:00", attendance["late_cutoff"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/reports/recent-activity?limit=500", fixtures.HRUserID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, resp = s.do(t, http.MethodGet, "/api/v1/reports/status-breakdown", fixtures.FinanceUserID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, dataOf(t, resp)["total"])
}

func TestRouter_MonthlyExport(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/time/monthly/export?year=2026&month=4", nil)
	req.Header.Set("Authorization", "Bearer "+s.token(t, fixtures.HRUserID, user.RoleHR))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "workforce-summary-2026-04.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestRouter_ReadyzAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
