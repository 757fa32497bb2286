package payroll

import "context"

// CompensationRepository persists versioned compensation structures.
// At most one structure per employee is active at a time.
type CompensationRepository interface {
	GetActive(ctx context.Context, employeeID string) (CompensationStructure, error)
	// Save deactivates the current active structure and inserts s as active.
	Save(ctx context.Context, s CompensationStructure) (CompensationStructure, error)
	ListHistory(ctx context.Context, employeeID string) ([]CompensationStructure, error)
}

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	CreatePayrollRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetPayrollRecordByID(ctx context.Context, id string) (PayrollRecord, error)
	GetPayrollRecordByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollRecord, error)
	ListPayrollRecords(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)
	FinalizePayrollRecords(ctx context.Context, ids []string, paidBy string) (int64, error)
	DeletePayrollRecord(ctx context.Context, id string) error
	GetPayrollSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}
