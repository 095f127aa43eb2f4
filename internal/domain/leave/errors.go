package leave

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

var (
	ErrLeaveRequestNotFound = fmt.Errorf("leave request %w", approval.ErrRequestNotFound)
	ErrInvalidDateRange     = errors.New("end_date must not be before start_date")
)
