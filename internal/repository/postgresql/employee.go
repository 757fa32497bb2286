package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saiharipapers/factory-erp/internal/domain/employee"
	"github.com/saiharipapers/factory-erp/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.employee_code, e.full_name, e.email, e.phone_number, e.department_id, e.position,
	e.employment_type, e.employment_status, e.join_date, e.bank_name, e.bank_account_number,
	e.created_at, e.updated_at, d.name`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.PhoneNumber, &emp.DepartmentID, &emp.Position,
		&emp.EmploymentType, &emp.EmploymentStatus, &emp.JoinDate, &emp.BankName, &emp.BankAccountNumber,
		&emp.CreatedAt, &emp.UpdatedAt, &emp.DepartmentName,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON e.department_id = d.id
		WHERE e.id = $1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			employee_code, full_name, email, phone_number, department_id, position,
			employment_type, employment_status, join_date, bank_name, bank_account_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newEmployee.EmployeeCode, newEmployee.FullName, newEmployee.Email, newEmployee.PhoneNumber,
		newEmployee.DepartmentID, newEmployee.Position, newEmployee.EmploymentType, newEmployee.EmploymentStatus,
		newEmployee.JoinDate, newEmployee.BankName, newEmployee.BankAccountNumber,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "uk_employee_code") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return e.GetByID(ctx, id)
}

// ExistsByCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByCode(ctx context.Context, employeeCode string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE employee_code = $1)`, employeeCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee code: %w", err)
	}
	return exists, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR e.employee_code ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.EmploymentType != nil && *filter.EmploymentType != "" {
		conditions = append(conditions, fmt.Sprintf("e.employment_type = $%d", argIdx))
		args = append(args, *filter.EmploymentType)
		argIdx++
	}
	if filter.EmploymentStatus != nil && *filter.EmploymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("e.employment_status = $%d", argIdx))
		args = append(args, *filter.EmploymentStatus)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM employees e WHERE ` + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	sortColumns := map[string]string{
		"full_name":     "e.full_name",
		"employee_code": "e.employee_code",
		"join_date":     "e.join_date",
		"created_at":    "e.created_at",
	}
	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = "e.employee_code"
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`SELECT %s
		FROM employees e
		LEFT JOIN departments d ON e.department_id = d.id
		WHERE %s
		ORDER BY %s %s, e.id
		LIMIT $%d OFFSET $%d
	`, employeeColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, totalCount, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON e.department_id = d.id
		WHERE e.employment_status = $1
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}

// ListDepartments implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListDepartments(ctx context.Context) ([]employee.Department, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT d.id, d.name, d.description, d.created_at, d.updated_at,
			COUNT(e.id) FILTER (WHERE e.employment_status = 'active') AS active_employees
		FROM departments d
		LEFT JOIN employees e ON e.department_id = d.id
		GROUP BY d.id
		ORDER BY d.name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []employee.Department
	for rows.Next() {
		var d employee.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt, &d.ActiveEmployees); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}

	return departments, rows.Err()
}

// DepartmentExists implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) DepartmentExists(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM departments WHERE id = $1)`, id).Scan(&exists); err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check department: %w", err)
	}
	return exists, nil
}
