package timeledger

import "time"

type PunchKind string

const (
	PunchIn  PunchKind = "IN"
	PunchOut PunchKind = "OUT"
)

func (k PunchKind) IsValid() bool {
	return k == PunchIn || k == PunchOut
}

// PunchEvent is a raw attendance event. It is never updated once recorded.
type PunchEvent struct {
	ID         string
	WorkerID   string
	Kind       PunchKind
	OccurredAt time.Time
	Location   *string
	ProofRef   *string
	DeviceID   *string
	CreatedAt  time.Time
}

// DaySummary is derived from a worker's punches on one calendar day
type DaySummary struct {
	WorkerID   string
	Date       time.Time
	FirstIn    *time.Time
	LastOut    *time.Time
	Hours      float64
	EventCount int
}

// WorkerRollup aggregates one worker's month
type WorkerRollup struct {
	WorkerID    string
	Year        int
	Month       time.Month
	DaysInMonth int
	DaysWorked  int
	TotalHours  float64
	LeaveDays   int
	AbsentDays  int
}
