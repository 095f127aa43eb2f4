package approval

import "context"

// RequestStore is implemented by each variant's repository. Inside a transaction
// GetForDecision must lock the row until commit.
type RequestStore interface {
	GetForDecision(ctx context.Context, id string) (Request, error)
	SaveDecision(ctx context.Context, req Request) error
	ListByStatus(ctx context.Context, statuses []Status) ([]Request, error)
}

// ActionRepository - append-only decision history
type ActionRepository interface {
	Append(ctx context.Context, record ActionRecord) (ActionRecord, error)
	ListByRequest(ctx context.Context, variant Variant, requestID string) ([]ActionRecord, error)
}

// TxManager runs fn in one atomic unit. Repositories called with the ctx passed to fn
// join that unit.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ListFilter narrows a worker's request listing
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}
