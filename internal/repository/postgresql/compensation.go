package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/saiharipapers/factory-erp/internal/domain/payroll"
	"github.com/saiharipapers/factory-erp/internal/pkg/database"
)

type compensationRepository struct {
	db *database.DB
}

func NewCompensationRepository(db *database.DB) payroll.CompensationRepository {
	return &compensationRepository{db: db}
}

const compensationColumns = `
	id, employee_id, calculation_method, basic_salary, hourly_rate, daily_rate,
	standard_working_days_per_month, standard_working_hours_per_day,
	overtime_eligible, overtime_rate_multiplier,
	house_rent_allowance, transport_allowance, medical_allowance, food_allowance, special_allowance,
	pf_applicable, pf_rate, esi_applicable, esi_rate, professional_tax, disbursement_type,
	is_active, created_at, updated_at`

func scanCompensation(row pgx.Row) (payroll.CompensationStructure, error) {
	var s payroll.CompensationStructure
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.CalculationMethod, &s.BasicSalary, &s.HourlyRate, &s.DailyRate,
		&s.StandardWorkingDaysPerMonth, &s.StandardWorkingHoursPerDay,
		&s.OvertimeEligible, &s.OvertimeRateMultiplier,
		&s.Allowances.HouseRent, &s.Allowances.Transport, &s.Allowances.Medical, &s.Allowances.Food, &s.Allowances.Special,
		&s.PFApplicable, &s.PFRate, &s.ESIApplicable, &s.ESIRate, &s.ProfessionalTax, &s.DisbursementType,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetActive implements payroll.CompensationRepository.
func (r *compensationRepository) GetActive(ctx context.Context, employeeID string) (payroll.CompensationStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + compensationColumns + `
		FROM compensation_structures
		WHERE employee_id = $1 AND is_active
	`

	s, err := scanCompensation(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.CompensationStructure{}, payroll.ErrCompensationNotFound
		}
		return payroll.CompensationStructure{}, fmt.Errorf("failed to get compensation structure: %w", err)
	}
	return s, nil
}

// Save implements payroll.CompensationRepository. The caller is expected to
// run it inside WithTransaction so deactivation and insert commit together.
func (r *compensationRepository) Save(ctx context.Context, s payroll.CompensationStructure) (payroll.CompensationStructure, error) {
	q := GetQuerier(ctx, r.db)

	// serialise concurrent saves for the same employee
	if _, err := q.Exec(ctx, `SELECT id FROM employees WHERE id = $1 FOR UPDATE`, s.EmployeeID); err != nil {
		return payroll.CompensationStructure{}, fmt.Errorf("failed to lock employee: %w", err)
	}

	if _, err := q.Exec(ctx, `
		UPDATE compensation_structures
		SET is_active = FALSE, updated_at = NOW()
		WHERE employee_id = $1 AND is_active
	`, s.EmployeeID); err != nil {
		return payroll.CompensationStructure{}, fmt.Errorf("failed to deactivate compensation structure: %w", err)
	}

	query := `
		INSERT INTO compensation_structures (
			employee_id, calculation_method, basic_salary, hourly_rate, daily_rate,
			standard_working_days_per_month, standard_working_hours_per_day,
			overtime_eligible, overtime_rate_multiplier,
			house_rent_allowance, transport_allowance, medical_allowance, food_allowance, special_allowance,
			pf_applicable, pf_rate, esi_applicable, esi_rate, professional_tax, disbursement_type, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, TRUE)
		RETURNING ` + compensationColumns

	saved, err := scanCompensation(q.QueryRow(ctx, query,
		s.EmployeeID, s.CalculationMethod, s.BasicSalary, s.HourlyRate, s.DailyRate,
		s.StandardWorkingDaysPerMonth, s.StandardWorkingHoursPerDay,
		s.OvertimeEligible, s.OvertimeRateMultiplier,
		s.Allowances.HouseRent, s.Allowances.Transport, s.Allowances.Medical, s.Allowances.Food, s.Allowances.Special,
		s.PFApplicable, s.PFRate, s.ESIApplicable, s.ESIRate, s.ProfessionalTax, s.DisbursementType,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_active_compensation") {
			return payroll.CompensationStructure{}, payroll.ErrCompensationConflict
		}
		return payroll.CompensationStructure{}, fmt.Errorf("failed to save compensation structure: %w", err)
	}

	return saved, nil
}

// ListHistory implements payroll.CompensationRepository.
func (r *compensationRepository) ListHistory(ctx context.Context, employeeID string) ([]payroll.CompensationStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + compensationColumns + `
		FROM compensation_structures
		WHERE employee_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list compensation history: %w", err)
	}
	defer rows.Close()

	var history []payroll.CompensationStructure
	for rows.Next() {
		s, err := scanCompensation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compensation structure: %w", err)
		}
		history = append(history, s)
	}

	return history, rows.Err()
}
