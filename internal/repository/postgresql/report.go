package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	stores map[approval.Variant]requestStore
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	stores := make(map[approval.Variant]requestStore, len(requestTables))
	for variant := range requestTables {
		stores[variant] = newRequestStore(db, variant, approval.ErrRequestNotFound)
	}
	return &reportRepositoryImpl{stores: stores}
}

// CountByStatus implements report.ReportRepository.
func (r *reportRepositoryImpl) CountByStatus(ctx context.Context, variant approval.Variant) (map[approval.Status]int64, error) {
	store, ok := r.stores[variant]
	if !ok {
		return nil, approval.ErrUnknownVariant
	}
	return store.countByStatus(ctx)
}

// ListRecent implements report.ReportRepository.
func (r *reportRepositoryImpl) ListRecent(ctx context.Context, variant approval.Variant, limit int) ([]approval.Request, error) {
	store, ok := r.stores[variant]
	if !ok {
		return nil, approval.ErrUnknownVariant
	}
	return store.listRecent(ctx, limit)
}
