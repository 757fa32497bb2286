package payroll

import (
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
)

// NewPayrollRecord snapshots a calculation as a draft record.
func NewPayrollRecord(employeeID string, year, month int, agg attendance.Aggregate, result PayrollResult) PayrollRecord {
	return PayrollRecord{
		EmployeeID:        employeeID,
		PeriodMonth:       month,
		PeriodYear:        year,
		CalculationMethod: result.CalculationMethod,
		PresentDays:       agg.PresentDays,
		AbsentDays:        agg.AbsentDays,
		LeaveDays:         agg.LeaveDays,
		TotalHours:        agg.TotalHours,
		BaseAmount:        result.Gross.BaseAmount,
		AllowanceTotal:    result.Gross.AllowanceTotal,
		OvertimeHours:     result.Gross.OvertimeHours,
		OvertimeAmount:    result.Gross.OvertimeAmount,
		GrossSalary:       result.Gross.GrossSalary,
		PF:                result.Deductions.PF,
		ESI:               result.Deductions.ESI,
		TDS:               result.Deductions.TDS,
		ProfessionalTax:   result.Deductions.ProfessionalTax,
		Canteen:           result.Deductions.Canteen,
		Advance:           result.Deductions.Advance,
		TotalFines:        result.Deductions.TotalFines,
		TotalDeductions:   result.Deductions.Total,
		Fines:             result.Fines,
		NetSalary:         result.NetSalary,
		DisbursementType:  result.Disbursement.Type,
		BankAmount:        result.Disbursement.BankAmount,
		CashAmount:        result.Disbursement.CashAmount,
		Warnings:          result.Warnings,
		Status:            PayrollStatusDraft,
	}
}

// PreviousPeriod returns the payroll month before the one containing now.
func PreviousPeriod(now time.Time) (year, month int) {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}
