package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

type Timesheet struct {
	approval.Request

	Project string
	Task    string
	Date    time.Time
	Hours   float64

	// HoursDerived is set when hours were taken from the time ledger
	HoursDerived bool
}
