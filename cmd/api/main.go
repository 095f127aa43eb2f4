package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/config"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/reimbursement"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hris-workflow-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-workflow-go/internal/repository/postgresql"
	approvalService "github.com/cmlabs-hris/hris-workflow-go/internal/service/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hris-workflow-go/internal/service/leave"
	reimbursementService "github.com/cmlabs-hris/hris-workflow-go/internal/service/reimbursement"
	reportService "github.com/cmlabs-hris/hris-workflow-go/internal/service/report"
	ledgerService "github.com/cmlabs-hris/hris-workflow-go/internal/service/timeledger"
	timesheetService "github.com/cmlabs-hris/hris-workflow-go/internal/service/timesheet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// repositories is the persistence surface shared by both store drivers
type repositories struct {
	identities     user.IdentityRepository
	employees      employee.EmployeeRepository
	punches        timeledger.PunchRepository
	timesheets     timesheet.TimesheetRepository
	leaves         leave.LeaveRequestRepository
	reimbursements reimbursement.ReimbursementRepository
	actions        approval.ActionRepository
	reports        report.ReportRepository
	tx             approval.TxManager
	health         appHTTP.HealthChecker
	close          func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	appLogger := logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.Env, cfg.App.Version)
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(cfg)
	if err != nil {
		log.Fatal("Error opening store: ", err)
	}
	defer repos.close()

	chains, err := config.LoadApprovalChains(ctx, cfg.Approval)
	if err != nil {
		log.Fatal("Error loading approval chains: ", err)
	}

	fileStorage, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Error initializing storage: ", err)
	}
	fileService := file.NewFileService(fileStorage)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	health := map[string]appHTTP.HealthChecker{"store": repos.health}

	var reportCache report.Cache
	if cfg.Redis.Addr != "" {
		redisClient := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()
		reportCache = redisClient
		health["redis"] = redisClient
	}

	loc := cfg.Location()

	approvalSvc := approvalService.NewApprovalService(map[approval.Variant]approval.RequestStore{
		approval.VariantTimesheet:     repos.timesheets,
		approval.VariantLeave:         repos.leaves,
		approval.VariantReimbursement: repos.reimbursements,
	}, repos.actions, repos.tx, chains, repos.identities, appMetrics)

	ledgerSvc := ledgerService.NewLedgerService(repos.punches, repos.leaves, repos.employees, fileService, appMetrics, loc)
	timesheetSvc := timesheetService.NewTimesheetService(repos.timesheets, ledgerSvc, approvalSvc)
	leaveSvc := leaveService.NewLeaveService(repos.leaves, approvalSvc, fileService)
	reimbursementSvc := reimbursementService.NewReimbursementService(repos.reimbursements, approvalSvc, fileService)
	reportSvc := reportService.NewReportService(
		repos.reports,
		repos.employees,
		ledgerSvc,
		chains,
		cfg.Attendance.LateCutoff,
		reportCache,
		cfg.Redis.CacheTTL,
		appMetrics,
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	routerOpts := appHTTP.RouterOptions{
		Logger:         appLogger,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		Gatherer:       registry,
		PunchLimiter:   middleware.NewTokenBucket(cfg.RateLimit.PunchPerMinute, cfg.RateLimit.PunchPerMinute),
		Health:         health,
	}
	if cfg.Storage.Type == config.StorageTypeLocal {
		routerOpts.FilesDir = cfg.Storage.BasePath
		routerOpts.FilesPrefix = cfg.Storage.BaseURL
	}

	router := appHTTP.NewRouter(JWTService, repos.identities, appHTTP.Handlers{
		Time:          appHTTP.NewTimeHandler(ledgerSvc, reportSvc),
		Timesheet:     appHTTP.NewTimesheetHandler(timesheetSvc),
		Leave:         appHTTP.NewLeaveHandler(leaveSvc),
		Reimbursement: appHTTP.NewReimbursementHandler(reimbursementSvc),
		Approval:      appHTTP.NewApprovalHandler(approvalSvc),
		Report:        appHTTP.NewReportHandler(reportSvc, loc),
	}, routerOpts)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", srv.Addr, "store", cfg.Store.Driver, "storage", cfg.Storage.Type)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func openRepositories(cfg *config.Config) (repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		for _, m := range fixtures.Seed(store) {
			slog.Info("demo user seeded", "user_id", m.Identity.UserID, "role", m.Identity.Role)
		}
		return repositories{
			identities:     store.Identities(),
			employees:      store.Employees(),
			punches:        store.Punches(),
			timesheets:     store.Timesheets(),
			leaves:         store.Leaves(),
			reimbursements: store.Reimbursements(),
			actions:        store.Actions(),
			reports:        store.Reports(),
			tx:             store,
			health:         store,
			close:          func() {},
		}, nil

	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			identities:     postgresql.NewIdentityRepository(db),
			employees:      postgresql.NewEmployeeRepository(db),
			punches:        postgresql.NewPunchRepository(db),
			timesheets:     postgresql.NewTimesheetRepository(db),
			leaves:         postgresql.NewLeaveRequestRepository(db),
			reimbursements: postgresql.NewReimbursementRepository(db),
			actions:        postgresql.NewApprovalActionRepository(db),
			reports:        postgresql.NewReportRepository(db),
			tx:             postgresql.NewTxManager(db),
			health:         db,
			close:          db.Close,
		}, nil
	}
	return repositories{}, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.FileStorage, error) {
	switch cfg.Type {
	case config.StorageTypeLocal:
		return storage.NewLocalStorage(cfg.BasePath, cfg.BaseURL)
	case config.StorageTypeS3:
		return storage.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix, cfg.PresignExpiry)
	}
	return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
}
