package approval

import (
	"context"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
)

type ApprovalService interface {
	// Decide resolves the acting user's role and applies the decision
	Decide(ctx context.Context, req DecideRequest) (RequestResponse, error)

	// DecideAs applies a decision for an already resolved role
	DecideAs(ctx context.Context, cmd DecideCommand) (Request, error)

	ListByRoleView(ctx context.Context, variant Variant, role user.Role) ([]RequestResponse, error)
	History(ctx context.Context, variant Variant, requestID string) ([]ActionRecordResponse, error)
	InitialStatus(variant Variant) (Status, error)
}
