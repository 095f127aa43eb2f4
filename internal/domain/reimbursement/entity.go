package reimbursement

import (
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/shopspring/decimal"
)

type Reimbursement struct {
	approval.Request

	Amount      decimal.Decimal
	Description string
	ReceiptRef  *string
}
