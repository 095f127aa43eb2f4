package reimbursement

import (
	"fmt"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
)

var (
	ErrReimbursementNotFound = fmt.Errorf("reimbursement %w", approval.ErrRequestNotFound)
)
