package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saiharipapers/factory-erp/internal/domain/payroll"
	"github.com/saiharipapers/factory-erp/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollRecordColumns = `
	pr.id, pr.employee_id, pr.period_month, pr.period_year, pr.calculation_method,
	pr.present_days, pr.absent_days, pr.leave_days, pr.total_hours,
	pr.base_amount, pr.allowance_total, pr.overtime_hours, pr.overtime_amount, pr.gross_salary,
	pr.pf, pr.esi, pr.tds, pr.professional_tax, pr.canteen, pr.advance, pr.total_fines, pr.total_deductions,
	pr.fines, pr.net_salary, pr.disbursement_type, pr.bank_amount, pr.cash_amount, pr.warnings,
	pr.status, pr.paid_at, pr.paid_by, pr.notes, pr.created_at, pr.updated_at,
	e.full_name, e.employee_code, d.name`

const payrollRecordFrom = `
	FROM payroll_records pr
	JOIN employees e ON pr.employee_id = e.id
	LEFT JOIN departments d ON e.department_id = d.id`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	var finesBytes, warningsBytes []byte
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear, &rec.CalculationMethod,
		&rec.PresentDays, &rec.AbsentDays, &rec.LeaveDays, &rec.TotalHours,
		&rec.BaseAmount, &rec.AllowanceTotal, &rec.OvertimeHours, &rec.OvertimeAmount, &rec.GrossSalary,
		&rec.PF, &rec.ESI, &rec.TDS, &rec.ProfessionalTax, &rec.Canteen, &rec.Advance, &rec.TotalFines, &rec.TotalDeductions,
		&finesBytes, &rec.NetSalary, &rec.DisbursementType, &rec.BankAmount, &rec.CashAmount, &warningsBytes,
		&rec.Status, &rec.PaidAt, &rec.PaidBy, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode, &rec.DepartmentName,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	if err := json.Unmarshal(finesBytes, &rec.Fines); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("decode fines: %w", err)
	}
	if err := json.Unmarshal(warningsBytes, &rec.Warnings); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("decode warnings: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) CreatePayrollRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	fines := record.Fines
	if fines == nil {
		fines = []payroll.Fine{}
	}
	warnings := record.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	finesJSON, err := json.Marshal(fines)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("encode fines: %w", err)
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("encode warnings: %w", err)
	}

	query := `
		INSERT INTO payroll_records (
			employee_id, period_month, period_year, calculation_method,
			present_days, absent_days, leave_days, total_hours,
			base_amount, allowance_total, overtime_hours, overtime_amount, gross_salary,
			pf, esi, tds, professional_tax, canteen, advance, total_fines, total_deductions,
			fines, net_salary, disbursement_type, bank_amount, cash_amount, warnings, status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29
		)
		RETURNING id
	`

	var id string
	err = q.QueryRow(ctx, query,
		record.EmployeeID, record.PeriodMonth, record.PeriodYear, record.CalculationMethod,
		record.PresentDays, record.AbsentDays, record.LeaveDays, record.TotalHours,
		record.BaseAmount, record.AllowanceTotal, record.OvertimeHours, record.OvertimeAmount, record.GrossSalary,
		record.PF, record.ESI, record.TDS, record.ProfessionalTax, record.Canteen, record.Advance,
		record.TotalFines, record.TotalDeductions,
		finesJSON, record.NetSalary, record.DisbursementType, record.BankAmount, record.CashAmount,
		warningsJSON, record.Status, record.Notes,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "uk_employee_period") {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return r.GetPayrollRecordByID(ctx, id)
}

func (r *payrollRepository) GetPayrollRecordByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + payrollRecordFrom + ` WHERE pr.id = $1`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) GetPayrollRecordByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + payrollRecordFrom + `
		WHERE pr.employee_id = $1 AND pr.period_month = $2 AND pr.period_year = $3
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argIdx := 1

	if filter.PeriodMonth != nil {
		conditions = append(conditions, fmt.Sprintf("pr.period_month = $%d", argIdx))
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		conditions = append(conditions, fmt.Sprintf("pr.period_year = $%d", argIdx))
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("pr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("pr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	// Count query
	var totalCount int64
	countQuery := "SELECT COUNT(*) " + payrollRecordFrom + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		if isInvalidID(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	// Sort
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	orderBy := "pr.created_at " + sortOrder
	switch filter.SortBy {
	case "period":
		orderBy = fmt.Sprintf("pr.period_year %s, pr.period_month %s", sortOrder, sortOrder)
	case "employee_name":
		orderBy = fmt.Sprintf("e.full_name %s, e.employee_code %s", sortOrder, sortOrder)
	case "net_salary":
		orderBy = "pr.net_salary " + sortOrder
	case "gross_salary":
		orderBy = "pr.gross_salary " + sortOrder
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	// pr.id keeps OFFSET paging stable across equal sort keys
	selectQuery := fmt.Sprintf(`SELECT %s %s %s
		ORDER BY %s, pr.id
		LIMIT $%d OFFSET $%d
	`, payrollRecordColumns, payrollRecordFrom, whereClause, orderBy, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, totalCount, nil
}

func (r *payrollRepository) FinalizePayrollRecords(ctx context.Context, ids []string, paidBy string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}

	query := `
		UPDATE payroll_records
		SET status = 'paid', paid_at = NOW(), paid_by = $1, updated_at = NOW()
		WHERE id = ANY($2) AND status = 'draft'
	`

	tag, err := q.Exec(ctx, query, paidBy, valid)
	if err != nil {
		return 0, fmt.Errorf("failed to finalize payroll records: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *payrollRepository) DeletePayrollRecord(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	// Check if record is already paid
	var status string
	err := q.QueryRow(ctx, `SELECT status FROM payroll_records WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to check payroll record status: %w", err)
	}
	if status == string(payroll.PayrollStatusPaid) {
		return payroll.ErrCannotDeletePaidRecord
	}

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrCannotDeletePaidRecord
	}

	return nil
}

func (r *payrollRepository) GetPayrollSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) AS total_employees,
			COALESCE(SUM(base_amount), 0),
			COALESCE(SUM(allowance_total), 0),
			COALESCE(SUM(overtime_amount), 0),
			COALESCE(SUM(gross_salary), 0),
			COALESCE(SUM(pf), 0),
			COALESCE(SUM(esi), 0),
			COALESCE(SUM(tds), 0),
			COALESCE(SUM(total_deductions), 0),
			COALESCE(SUM(net_salary), 0),
			COALESCE(SUM(bank_amount), 0),
			COALESCE(SUM(cash_amount), 0),
			COUNT(*) FILTER (WHERE net_salary < 0) AS negative_net_count,
			COUNT(*) FILTER (WHERE status = 'draft') AS draft_count,
			COUNT(*) FILTER (WHERE status = 'paid') AS paid_count
		FROM payroll_records
		WHERE period_month = $1 AND period_year = $2
	`

	var s payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, month, year).Scan(
		&s.TotalEmployees, &s.TotalBaseAmount, &s.TotalAllowances, &s.TotalOvertime, &s.TotalGrossSalary,
		&s.TotalPF, &s.TotalESI, &s.TotalTDS, &s.TotalDeductions, &s.TotalNetSalary,
		&s.TotalBankDisbursed, &s.TotalCashDisbursed, &s.NegativeNetCount, &s.DraftCount, &s.PaidCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	s.PeriodMonth = month
	s.PeriodYear = year

	return s, nil
}
