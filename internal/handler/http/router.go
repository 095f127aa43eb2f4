package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker is a dependency checked by /readyz
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type Handlers struct {
	Time          TimeHandler
	Timesheet     TimesheetHandler
	Leave         LeaveHandler
	Reimbursement ReimbursementHandler
	Approval      ApprovalHandler
	Report        ReportHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
	PunchLimiter   *middleware.TokenBucket
	Health         map[string]HealthChecker
	// FilesDir and FilesPrefix serve locally stored uploads when set
	FilesDir    string
	FilesPrefix string
}

func NewRouter(JWTService jwt.Service, identities user.IdentityRepository, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/readyz", readiness(opts.Health))

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	if opts.FilesDir != "" && opts.FilesPrefix != "" {
		prefix := opts.FilesPrefix
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(opts.FilesDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.ResolveIdentity(identities))

			r.Route("/punches", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPunch))
				if opts.PunchLimiter != nil {
					r.Use(opts.PunchLimiter.Limit)
				}
				r.Post("/", h.Time.Punch)
			})

			r.Route("/time", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionTimeViewOwn))
				r.Get("/daily", h.Time.DailyHours)
				r.Get("/monthly", h.Time.MonthlyRollup)

				r.With(middleware.RequirePermission(user.PermissionReportsView)).
					Get("/monthly/export", h.Time.ExportMonthlyRollup)
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionRequestSubmit)).Post("/", h.Timesheet.Submit)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRequestViewOwn))
					r.Get("/me", h.Timesheet.ListMine)
					r.Get("/{id}", h.Timesheet.Get)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionRequestSubmit)).Post("/", h.Leave.Submit)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRequestViewOwn))
					r.Get("/me", h.Leave.ListMine)
					r.Get("/{id}", h.Leave.Get)
				})
			})

			r.Route("/reimbursements", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionRequestSubmit)).Post("/", h.Reimbursement.Submit)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRequestViewOwn))
					r.Get("/me", h.Reimbursement.ListMine)
					r.Get("/{id}", h.Reimbursement.Get)
				})
			})

			r.Route("/approvals/{variant}", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionApprovalDecide))
				r.Get("/pending", h.Approval.ListPending)
				r.Post("/{id}/decision", h.Approval.Decide)
				r.Get("/{id}/history", h.Approval.History)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/status-breakdown", h.Report.StatusBreakdown)
				r.Get("/recent-activity", h.Report.RecentActivity)
				r.Get("/attendance", h.Report.AttendanceView)
				r.Get("/daily", h.Report.DailySummary)
			})
		})
	})
	return r
}

func readiness(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(checks))
		healthy := true
		for name, check := range checks {
			if check.Healthy(ctx) {
				status[name] = "ok"
				continue
			}
			status[name] = "unavailable"
			healthy = false
		}

		if !healthy {
			slog.Warn("readiness check failed", "checks", status)
			response.ServiceUnavailable(w, "Dependencies unavailable")
			return
		}
		response.Success(w, status)
	}
}
