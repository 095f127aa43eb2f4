package employee

import "context"

// EmployeeRepository is the read side of the worker directory
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}
