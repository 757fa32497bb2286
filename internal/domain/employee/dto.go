package employee

import (
	"strings"

	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode      string  `json:"employee_code"`
	FullName          string  `json:"full_name"`
	Email             *string `json:"email,omitempty"`
	PhoneNumber       *string `json:"phone_number,omitempty"`
	DepartmentID      *string `json:"department_id,omitempty"`
	Position          *string `json:"position,omitempty"`
	EmploymentType    string  `json:"employment_type"`
	JoinDate          string  `json:"join_date"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.ToUpper(strings.TrimSpace(r.EmployeeCode))
	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employee_code", "is required")
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employee_code", "must look like EMP-0001")
	}
	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "is required")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "must be a valid email address")
	}
	if r.PhoneNumber != nil && !validator.IsValidPhoneNumber(*r.PhoneNumber) {
		errs.Add("phone_number", "must be a valid mobile number")
	}
	if !validator.IsInSlice(r.EmploymentType, []string{
		string(EmploymentTypePermanent), string(EmploymentTypeContract),
		string(EmploymentTypeTemporary), string(EmploymentTypeVendor),
	}) {
		errs.Add("employment_type", "must be one of permanent, contract, temporary, vendor")
	}
	if _, ok := validator.IsValidDate(r.JoinDate); !ok {
		errs.Add("join_date", "must be in YYYY-MM-DD format")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID                string  `json:"id"`
	EmployeeCode      string  `json:"employee_code"`
	FullName          string  `json:"full_name"`
	Email             *string `json:"email,omitempty"`
	PhoneNumber       *string `json:"phone_number,omitempty"`
	DepartmentID      *string `json:"department_id,omitempty"`
	DepartmentName    *string `json:"department_name,omitempty"`
	Position          *string `json:"position,omitempty"`
	EmploymentType    string  `json:"employment_type"`
	EmploymentStatus  string  `json:"employment_status"`
	JoinDate          string  `json:"join_date"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
}

type EmployeeFilter struct {
	Search           *string `json:"search,omitempty"`
	DepartmentID     *string `json:"department_id,omitempty"`
	EmploymentType   *string `json:"employment_type,omitempty"`
	EmploymentStatus *string `json:"employment_status,omitempty"`
	Page             int     `json:"page"`
	Limit            int     `json:"limit"`
	SortBy           string  `json:"sort_by"`
	SortOrder        string  `json:"sort_order"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		errs.Add("page", "must be at least 1")
	}
	if f.Limit < 1 || f.Limit > 100 {
		errs.Add("limit", "must be between 1 and 100")
	}
	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"full_name", "employee_code", "join_date", "created_at"}) {
		errs.Add("sort_by", "must be one of full_name, employee_code, join_date, created_at")
	}
	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs.Add("sort_order", "must be asc or desc")
	}
	if f.EmploymentStatus != nil && !validator.IsInSlice(*f.EmploymentStatus, []string{
		string(EmploymentStatusActive), string(EmploymentStatusInactive), string(EmploymentStatusTerminated),
	}) {
		errs.Add("employment_status", "must be one of active, inactive, terminated")
	}

	return errs.Err()
}

type ListEmployeeResponse struct {
	Data       []EmployeeResponse `json:"data"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

type DepartmentResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	ActiveEmployees int     `json:"active_employees"`
}

type ValidateCodeResponse struct {
	Code      string `json:"code"`
	Valid     bool   `json:"valid"`
	Available bool   `json:"available"`
}
