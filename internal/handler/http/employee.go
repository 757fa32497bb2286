package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saiharipapers/factory-erp/internal/domain/employee"
	"github.com/saiharipapers/factory-erp/internal/handler/http/response"
)

type EmployeeHandler interface {
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	ListDepartments(w http.ResponseWriter, r *http.Request)
	ValidateEmployeeCode(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		SortBy:    "employee_code",
		SortOrder: "asc",
	}
	filter.Page, filter.Limit = pageFromQuery(r)

	q := r.URL.Query()
	if search := q.Get("search"); search != "" {
		filter.Search = &search
	}
	if departmentID := q.Get("department_id"); departmentID != "" {
		filter.DepartmentID = &departmentID
	}
	if employmentType := q.Get("employment_type"); employmentType != "" {
		filter.EmploymentType = &employmentType
	}
	if status := q.Get("employment_status"); status != "" {
		filter.EmploymentStatus = &status
	}
	if sortBy := q.Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := q.Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	result, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// ListDepartments implements EmployeeHandler
func (h *employeeHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.ListDepartments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ValidateEmployeeCode implements EmployeeHandler
func (h *employeeHandlerImpl) ValidateEmployeeCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		response.BadRequest(w, "Query parameter 'code' is required", nil)
		return
	}

	result, err := h.employeeService.ValidateEmployeeCode(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
