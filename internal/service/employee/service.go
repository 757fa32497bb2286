package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/employee"
	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// Helper function to map Employee to EmployeeResponse
func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:                emp.ID,
		EmployeeCode:      emp.EmployeeCode,
		FullName:          emp.FullName,
		Email:             emp.Email,
		PhoneNumber:       emp.PhoneNumber,
		DepartmentID:      emp.DepartmentID,
		DepartmentName:    emp.DepartmentName,
		Position:          emp.Position,
		EmploymentType:    string(emp.EmploymentType),
		EmploymentStatus:  string(emp.EmploymentStatus),
		JoinDate:          emp.JoinDate.Format("2006-01-02"),
		BankName:          emp.BankName,
		BankAccountNumber: emp.BankAccountNumber,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	joinDate, _ := time.Parse("2006-01-02", req.JoinDate)
	if joinDate.After(s.now()) {
		return employee.EmployeeResponse{}, employee.ErrFutureDateNotAllowed
	}

	exists, err := s.employeeRepo.ExistsByCode(ctx, req.EmployeeCode)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee code existence: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
	}

	if req.DepartmentID != nil && *req.DepartmentID != "" {
		found, err := s.employeeRepo.DepartmentExists(ctx, *req.DepartmentID)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check department: %w", err)
		}
		if !found {
			return employee.EmployeeResponse{}, employee.ErrDepartmentNotFound
		}
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		EmployeeCode:      req.EmployeeCode,
		FullName:          strings.TrimSpace(req.FullName),
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		DepartmentID:      req.DepartmentID,
		Position:          req.Position,
		EmploymentType:    employee.EmploymentType(req.EmploymentType),
		EmploymentStatus:  employee.EmploymentStatusActive,
		JoinDate:          joinDate,
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.InfoContext(ctx, "employee created", "employee_id", created.ID, "employee_code", created.EmployeeCode)

	return mapEmployeeToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	data := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		data = append(data, mapEmployeeToResponse(emp))
	}

	return employee.ListEmployeeResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ListDepartments implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListDepartments(ctx context.Context) ([]employee.DepartmentResponse, error) {
	departments, err := s.employeeRepo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]employee.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		result = append(result, employee.DepartmentResponse{
			ID:              d.ID,
			Name:            d.Name,
			Description:     d.Description,
			ActiveEmployees: d.ActiveEmployees,
		})
	}
	return result, nil
}

// ValidateEmployeeCode implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ValidateEmployeeCode(ctx context.Context, code string) (employee.ValidateCodeResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	resp := employee.ValidateCodeResponse{Code: code}

	if !validator.IsValidEmployeeCode(code) {
		return resp, nil
	}
	resp.Valid = true

	exists, err := s.employeeRepo.ExistsByCode(ctx, code)
	if err != nil {
		return employee.ValidateCodeResponse{}, fmt.Errorf("failed to check employee code existence: %w", err)
	}
	resp.Available = !exists

	return resp, nil
}
