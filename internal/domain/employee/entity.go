package employee

import (
	"time"
)

type Employee struct {
	ID                string
	EmployeeCode      string
	FullName          string
	Email             *string
	PhoneNumber       *string
	DepartmentID      *string
	Position          *string
	EmploymentType    EmploymentType
	EmploymentStatus  EmploymentStatus
	JoinDate          time.Time
	BankName          *string
	BankAccountNumber *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined fields
	DepartmentName *string
}

type EmploymentType string

const (
	EmploymentTypePermanent EmploymentType = "permanent"
	EmploymentTypeContract  EmploymentType = "contract"
	EmploymentTypeTemporary EmploymentType = "temporary"
	EmploymentTypeVendor    EmploymentType = "vendor"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusInactive   EmploymentStatus = "inactive"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

type Department struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Aggregated
	ActiveEmployees int
}
