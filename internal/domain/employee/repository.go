package employee

import "context"

// EmployeeRepository is the directory lookup used by attendance import
// validation and the absentee-marking job.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}
