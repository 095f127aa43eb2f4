package timesheet

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/timeledger"
)

// inLocation reinterprets a parsed calendar date as midnight in the ledger's zone
func inLocation(day time.Time, ledger timeledger.LedgerService) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, ledger.Location())
}
