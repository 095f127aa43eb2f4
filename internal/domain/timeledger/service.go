package timeledger

import (
	"context"
	"time"
)

type LedgerService interface {
	RecordPunch(ctx context.Context, req RecordPunchRequest) (PunchResponse, error)
	DailyHours(ctx context.Context, workerID string, day time.Time) (DaySummary, error)
	DailyHoursForWorkers(ctx context.Context, workerIDs []string, day time.Time) ([]DaySummary, error)
	MonthlyRollup(ctx context.Context, workerIDs []string, year int, month time.Month) ([]WorkerRollup, error)
	Location() *time.Location
}
