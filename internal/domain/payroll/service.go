package payroll

import "context"

// PayrollService defines compensation management and payroll runs
type PayrollService interface {
	// Compensation structures
	SaveCompensationStructure(ctx context.Context, req SaveCompensationRequest) (CompensationStructureResponse, error)
	GetActiveCompensationStructure(ctx context.Context, employeeID string) (CompensationStructureResponse, error)
	ListCompensationHistory(ctx context.Context, employeeID string) ([]CompensationStructureResponse, error)

	// PreviewPayroll calculates one employee's pay without saving it
	PreviewPayroll(ctx context.Context, req PreviewPayrollRequest) (PayrollPreviewResponse, error)

	// GeneratePayroll creates draft records for a period, skipping employees
	// that already have one or have no active structure
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (GeneratePayrollResponse, error)

	GetPayrollRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListPayrollRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	FinalizePayroll(ctx context.Context, req FinalizePayrollRequest) (FinalizePayrollResponse, error)
	DeletePayrollRecord(ctx context.Context, id string) error
	GetPayrollSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)

	// Documents
	RenderPayslip(ctx context.Context, id string) (filename string, pdf []byte, err error)
	ExportRegister(ctx context.Context, month, year int) (filename string, csv []byte, err error)
}
