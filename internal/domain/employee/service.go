package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// CreateEmployee registers a new staff member (admin only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// ListEmployees lists employees with filters
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// ListDepartments lists departments with their active headcount
	ListDepartments(ctx context.Context) ([]DepartmentResponse, error)

	// ValidateEmployeeCode reports whether a code is well formed and unused
	ValidateEmployeeCode(ctx context.Context, code string) (ValidateCodeResponse, error)
}
