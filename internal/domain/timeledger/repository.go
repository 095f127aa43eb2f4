package timeledger

import (
	"context"
	"time"
)

// PunchRepository - interface for punch_events table
type PunchRepository interface {
	Create(ctx context.Context, event PunchEvent) (PunchEvent, error)
	ListByWorkerBetween(ctx context.Context, workerID string, from, to time.Time) ([]PunchEvent, error)

	// ListBetween returns events of the given workers, or of everyone when workerIDs is empty
	ListBetween(ctx context.Context, workerIDs []string, from, to time.Time) ([]PunchEvent, error)
}

// LeaveDayCounter sums the day counts of accepted leave overlapping [from, to] per worker
type LeaveDayCounter interface {
	AcceptedLeaveDays(ctx context.Context, workerIDs []string, from, to time.Time) (map[string]int, error)
}
