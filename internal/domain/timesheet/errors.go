package timesheet

import (
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

var (
	ErrTimesheetNotFound = fmt.Errorf("timesheet %w", approval.ErrRequestNotFound)
)
