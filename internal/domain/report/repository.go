package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

// ReportRepository defines the read-only queries over request tables
type ReportRepository interface {
	CountByStatus(ctx context.Context, variant approval.Variant) (map[approval.Status]int64, error)
	ListRecent(ctx context.Context, variant approval.Variant, limit int) ([]approval.Request, error)
}

// Cache keeps computed report payloads for a short time. A miss is (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
