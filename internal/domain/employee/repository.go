package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	ExistsByCode(ctx context.Context, employeeCode string) (bool, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListActive(ctx context.Context) ([]Employee, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	DepartmentExists(ctx context.Context, id string) (bool, error)
}
