package payroll

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== COMPENSATION STRUCTURE DTOs ==========

type AllowancesPayload struct {
	HouseRent decimal.Decimal `json:"house_rent"`
	Transport decimal.Decimal `json:"transport"`
	Medical   decimal.Decimal `json:"medical"`
	Food      decimal.Decimal `json:"food"`
	Special   decimal.Decimal `json:"special"`
}

func (a AllowancesPayload) toAllowances() Allowances {
	return Allowances{
		HouseRent: a.HouseRent,
		Transport: a.Transport,
		Medical:   a.Medical,
		Food:      a.Food,
		Special:   a.Special,
	}
}

func newAllowancesPayload(a Allowances) AllowancesPayload {
	return AllowancesPayload{
		HouseRent: a.HouseRent,
		Transport: a.Transport,
		Medical:   a.Medical,
		Food:      a.Food,
		Special:   a.Special,
	}
}

// SaveCompensationRequest replaces the active structure of an employee.
// Omitted optional fields take the configured defaults.
type SaveCompensationRequest struct {
	EmployeeID                  string            `json:"-"`
	CalculationMethod           string            `json:"calculation_method"`
	BasicSalary                 decimal.Decimal   `json:"basic_salary"`
	HourlyRate                  decimal.Decimal   `json:"hourly_rate"`
	DailyRate                   decimal.Decimal   `json:"daily_rate"`
	StandardWorkingDaysPerMonth *int              `json:"standard_working_days_per_month,omitempty"`
	StandardWorkingHoursPerDay  *decimal.Decimal  `json:"standard_working_hours_per_day,omitempty"`
	OvertimeEligible            bool              `json:"overtime_eligible"`
	OvertimeRateMultiplier      *decimal.Decimal  `json:"overtime_rate_multiplier,omitempty"`
	Allowances                  AllowancesPayload `json:"allowances"`
	PFApplicable                bool              `json:"pf_applicable"`
	PFRate                      *decimal.Decimal  `json:"pf_rate,omitempty"`
	ESIApplicable               bool              `json:"esi_applicable"`
	ESIRate                     *decimal.Decimal  `json:"esi_rate,omitempty"`
	ProfessionalTax             decimal.Decimal   `json:"professional_tax"`
	DisbursementType            string            `json:"disbursement_type,omitempty"`
}

// StructureDefaults are the per-deployment defaults for omitted fields.
type StructureDefaults struct {
	WorkingDaysPerMonth int
	WorkingHoursPerDay  decimal.Decimal
}

// ToStructure builds the structure to persist. The method is not guessed:
// an unknown method is kept so Validate rejects it.
func (r *SaveCompensationRequest) ToStructure(defaults StructureDefaults) CompensationStructure {
	method, err := ParseCalculationMethod(r.CalculationMethod)
	if err != nil {
		method = CalculationMethod(r.CalculationMethod)
	}

	s := NewCompensationStructure(method)
	s.EmployeeID = r.EmployeeID
	if defaults.WorkingDaysPerMonth > 0 {
		s.StandardWorkingDaysPerMonth = defaults.WorkingDaysPerMonth
	}
	if defaults.WorkingHoursPerDay.IsPositive() {
		s.StandardWorkingHoursPerDay = defaults.WorkingHoursPerDay
	}

	s.BasicSalary = r.BasicSalary
	s.HourlyRate = r.HourlyRate
	s.DailyRate = r.DailyRate
	s.OvertimeEligible = r.OvertimeEligible
	s.Allowances = r.Allowances.toAllowances()
	s.PFApplicable = r.PFApplicable
	s.ESIApplicable = r.ESIApplicable
	s.ProfessionalTax = r.ProfessionalTax
	s.IsActive = true

	if r.StandardWorkingDaysPerMonth != nil {
		s.StandardWorkingDaysPerMonth = *r.StandardWorkingDaysPerMonth
	}
	if r.StandardWorkingHoursPerDay != nil {
		s.StandardWorkingHoursPerDay = *r.StandardWorkingHoursPerDay
	}
	if r.OvertimeRateMultiplier != nil {
		s.OvertimeRateMultiplier = *r.OvertimeRateMultiplier
	}
	if r.PFRate != nil {
		s.PFRate = *r.PFRate
	}
	if r.ESIRate != nil {
		s.ESIRate = *r.ESIRate
	}
	if r.DisbursementType != "" {
		s.DisbursementType = DisbursementType(r.DisbursementType)
	}

	return s
}

type CompensationStructureResponse struct {
	ID                          string            `json:"id"`
	EmployeeID                  string            `json:"employee_id"`
	CalculationMethod           CalculationMethod `json:"calculation_method"`
	BasicSalary                 decimal.Decimal   `json:"basic_salary"`
	HourlyRate                  decimal.Decimal   `json:"hourly_rate"`
	DailyRate                   decimal.Decimal   `json:"daily_rate"`
	StandardWorkingDaysPerMonth int               `json:"standard_working_days_per_month"`
	StandardWorkingHoursPerDay  decimal.Decimal   `json:"standard_working_hours_per_day"`
	OvertimeEligible            bool              `json:"overtime_eligible"`
	OvertimeRateMultiplier      decimal.Decimal   `json:"overtime_rate_multiplier"`
	Allowances                  AllowancesPayload `json:"allowances"`
	AllowanceTotal              decimal.Decimal   `json:"allowance_total"`
	PFApplicable                bool              `json:"pf_applicable"`
	PFRate                      decimal.Decimal   `json:"pf_rate"`
	ESIApplicable               bool              `json:"esi_applicable"`
	ESIRate                     decimal.Decimal   `json:"esi_rate"`
	ProfessionalTax             decimal.Decimal   `json:"professional_tax"`
	DisbursementType            DisbursementType  `json:"disbursement_type"`
	IsActive                    bool              `json:"is_active"`
	CreatedAt                   string            `json:"created_at"`
}

func NewCompensationStructureResponse(s CompensationStructure) CompensationStructureResponse {
	return CompensationStructureResponse{
		ID:                          s.ID,
		EmployeeID:                  s.EmployeeID,
		CalculationMethod:           s.CalculationMethod,
		BasicSalary:                 s.BasicSalary,
		HourlyRate:                  s.HourlyRate,
		DailyRate:                   s.DailyRate,
		StandardWorkingDaysPerMonth: s.StandardWorkingDaysPerMonth,
		StandardWorkingHoursPerDay:  s.StandardWorkingHoursPerDay,
		OvertimeEligible:            s.OvertimeEligible,
		OvertimeRateMultiplier:      s.OvertimeRateMultiplier,
		Allowances:                  newAllowancesPayload(s.Allowances),
		AllowanceTotal:              s.Allowances.Total(),
		PFApplicable:                s.PFApplicable,
		PFRate:                      s.PFRate,
		ESIApplicable:               s.ESIApplicable,
		ESIRate:                     s.ESIRate,
		ProfessionalTax:             s.ProfessionalTax,
		DisbursementType:            s.DisbursementType,
		IsActive:                    s.IsActive,
		CreatedAt:                   s.CreatedAt.Format(time.RFC3339),
	}
}

// ========== ADJUSTMENT DTOs ==========

type FinePayload struct {
	ID          string          `json:"id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Description string          `json:"description,omitempty"`
}

type AdjustmentsRequest struct {
	OvertimeHoursOverride *decimal.Decimal `json:"overtime_hours_override,omitempty"`
	WorkedDaysOverride    *decimal.Decimal `json:"worked_days_override,omitempty"`
	CanteenDeduction      decimal.Decimal  `json:"canteen_deduction"`
	AdvanceDeduction      decimal.Decimal  `json:"advance_deduction"`
	Fines                 []FinePayload    `json:"fines,omitempty"`
	ESICashAmount         decimal.Decimal  `json:"esi_cash_amount"`
}

func (r *AdjustmentsRequest) Validate() error {
	var errs validator.ValidationErrors
	r.collect(&errs, "")
	return errs.Err()
}

func (r *AdjustmentsRequest) collect(errs *validator.ValidationErrors, prefix string) {
	if r.OvertimeHoursOverride != nil && r.OvertimeHoursOverride.IsNegative() {
		errs.Add(prefix+"overtime_hours_override", "must be non-negative")
	}
	if r.WorkedDaysOverride != nil && (r.WorkedDaysOverride.IsNegative() || r.WorkedDaysOverride.GreaterThan(decimal.NewFromInt(31))) {
		errs.Add(prefix+"worked_days_override", "must be between 0 and 31")
	}
	if r.CanteenDeduction.IsNegative() {
		errs.Add(prefix+"canteen_deduction", "must be non-negative")
	}
	if r.AdvanceDeduction.IsNegative() {
		errs.Add(prefix+"advance_deduction", "must be non-negative")
	}
	if r.ESICashAmount.IsNegative() {
		errs.Add(prefix+"esi_cash_amount", "must be non-negative")
	}
	for i, f := range r.Fines {
		if f.Amount.IsNegative() {
			errs.Add(fmt.Sprintf("%sfines[%d].amount", prefix, i), "must be non-negative")
		}
		if validator.IsEmpty(f.Reason) {
			errs.Add(fmt.Sprintf("%sfines[%d].reason", prefix, i), "is required")
		}
	}
}

// ToAdjustments converts the payload, assigning ids to new fines.
func (r AdjustmentsRequest) ToAdjustments() PayrollAdjustments {
	adj := PayrollAdjustments{
		OvertimeHoursOverride: r.OvertimeHoursOverride,
		WorkedDaysOverride:    r.WorkedDaysOverride,
		CanteenDeduction:      r.CanteenDeduction,
		AdvanceDeduction:      r.AdvanceDeduction,
		ESICashAmount:         r.ESICashAmount,
	}
	for _, f := range r.Fines {
		id := f.ID
		if id == "" {
			id = uuid.NewString()
		}
		adj.Fines = append(adj.Fines, Fine{
			ID:          id,
			Amount:      f.Amount,
			Reason:      f.Reason,
			Description: f.Description,
		})
	}
	return adj
}

// ========== CALCULATION DTOs ==========

type PreviewPayrollRequest struct {
	EmployeeID  string             `json:"employee_id"`
	PeriodMonth int                `json:"period_month"`
	PeriodYear  int                `json:"period_year"`
	Adjustments AdjustmentsRequest `json:"adjustments"`
}

func (r *PreviewPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	}
	validatePeriod(&errs, r.PeriodYear, r.PeriodMonth)
	r.Adjustments.collect(&errs, "adjustments.")

	return errs.Err()
}

type GeneratePayrollRequest struct {
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
	// Adjustments keyed by employee id
	Adjustments map[string]AdjustmentsRequest `json:"adjustments,omitempty"`
	Notes       *string                       `json:"notes,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	validatePeriod(&errs, r.PeriodYear, r.PeriodMonth)
	for employeeID, adj := range r.Adjustments {
		adj.collect(&errs, "adjustments."+employeeID+".")
	}

	return errs.Err()
}

func validatePeriod(errs *validator.ValidationErrors, year, month int) {
	if month < 1 || month > 12 {
		errs.Add("period_month", "must be between 1 and 12")
	}
	if !validator.IsValidPeriod(year, 1) {
		errs.Add("period_year", "must be 2000 or later")
	}
}

type GrossResponse struct {
	BaseAmount     decimal.Decimal `json:"base_amount"`
	WorkedDays     decimal.Decimal `json:"worked_days"`
	RegularHours   decimal.Decimal `json:"regular_hours"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	OvertimeAmount decimal.Decimal `json:"overtime_amount"`
	AllowanceTotal decimal.Decimal `json:"allowance_total"`
	GrossSalary    decimal.Decimal `json:"gross_salary"`
}

type DeductionsResponse struct {
	PF              decimal.Decimal `json:"pf"`
	ESI             decimal.Decimal `json:"esi"`
	TDS             decimal.Decimal `json:"tds"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	Canteen         decimal.Decimal `json:"canteen"`
	Advance         decimal.Decimal `json:"advance"`
	TotalFines      decimal.Decimal `json:"total_fines"`
	Total           decimal.Decimal `json:"total"`
}

type DisbursementResponse struct {
	Type       DisbursementType `json:"type"`
	BankAmount decimal.Decimal  `json:"bank_amount"`
	CashAmount decimal.Decimal  `json:"cash_amount"`
}

// PayrollPreviewResponse is an unsaved calculation.
type PayrollPreviewResponse struct {
	EmployeeID        string               `json:"employee_id"`
	PeriodMonth       int                  `json:"period_month"`
	PeriodYear        int                  `json:"period_year"`
	CalculationMethod CalculationMethod    `json:"calculation_method"`
	PresentDays       int                  `json:"present_days"`
	AbsentDays        int                  `json:"absent_days"`
	LeaveDays         int                  `json:"leave_days"`
	TotalHours        decimal.Decimal      `json:"total_hours"`
	Gross             GrossResponse        `json:"gross"`
	PFWageBase        decimal.Decimal      `json:"pf_wage_base"`
	Deductions        DeductionsResponse   `json:"deductions"`
	Fines             []Fine               `json:"fines"`
	NetSalary         decimal.Decimal      `json:"net_salary"`
	Disbursement      DisbursementResponse `json:"disbursement"`
	Warnings          []string             `json:"warnings"`
}

func NewDeductionsResponse(d DeductionsBreakdown) DeductionsResponse {
	return DeductionsResponse{
		PF:              d.PF,
		ESI:             d.ESI,
		TDS:             d.TDS,
		ProfessionalTax: d.ProfessionalTax,
		Canteen:         d.Canteen,
		Advance:         d.Advance,
		TotalFines:      d.TotalFines,
		Total:           d.Total,
	}
}

type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type GeneratePayrollResponse struct {
	PeriodMonth int                     `json:"period_month"`
	PeriodYear  int                     `json:"period_year"`
	Created     []PayrollRecordResponse `json:"created"`
	Skipped     []SkippedEmployee       `json:"skipped"`
}

// ========== PAYROLL RECORD DTOs ==========

type FinalizePayrollRequest struct {
	RecordIDs []string `json:"record_ids"`
}

func (r *FinalizePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.RecordIDs) == 0 {
		errs.Add("record_ids", "at least one record is required")
	}

	return errs.Err()
}

type FinalizePayrollResponse struct {
	Finalized int64 `json:"finalized"`
}

type PayrollRecordResponse struct {
	ID                string               `json:"id"`
	EmployeeID        string               `json:"employee_id"`
	EmployeeName      string               `json:"employee_name"`
	EmployeeCode      string               `json:"employee_code"`
	DepartmentName    *string              `json:"department_name,omitempty"`
	PeriodMonth       int                  `json:"period_month"`
	PeriodYear        int                  `json:"period_year"`
	CalculationMethod CalculationMethod    `json:"calculation_method"`
	PresentDays       int                  `json:"present_days"`
	AbsentDays        int                  `json:"absent_days"`
	LeaveDays         int                  `json:"leave_days"`
	TotalHours        decimal.Decimal      `json:"total_hours"`
	BaseAmount        decimal.Decimal      `json:"base_amount"`
	AllowanceTotal    decimal.Decimal      `json:"allowance_total"`
	OvertimeHours     decimal.Decimal      `json:"overtime_hours"`
	OvertimeAmount    decimal.Decimal      `json:"overtime_amount"`
	GrossSalary       decimal.Decimal      `json:"gross_salary"`
	Deductions        DeductionsResponse   `json:"deductions"`
	Fines             []Fine               `json:"fines"`
	NetSalary         decimal.Decimal      `json:"net_salary"`
	Disbursement      DisbursementResponse `json:"disbursement"`
	Warnings          []string             `json:"warnings"`
	Status            PayrollStatus        `json:"status"`
	PaidAt            *string              `json:"paid_at,omitempty"`
	PaidBy            *string              `json:"paid_by,omitempty"`
	Notes             *string              `json:"notes,omitempty"`
	CreatedAt         string               `json:"created_at"`
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Status      *string `json:"status,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	SortBy      string  `json:"sort_by"`
	SortOrder   string  `json:"sort_order"`
}

var payrollSortFields = []string{"created_at", "net_salary", "gross_salary", "employee_name", "period"}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		errs.Add("page", "must be at least 1")
	}
	if f.Limit < 1 || f.Limit > 100 {
		errs.Add("limit", "must be between 1 and 100")
	}
	if f.PeriodMonth != nil && (*f.PeriodMonth < 1 || *f.PeriodMonth > 12) {
		errs.Add("period_month", "must be between 1 and 12")
	}
	if f.Status != nil && *f.Status != string(PayrollStatusDraft) && *f.Status != string(PayrollStatusPaid) {
		errs.Add("status", "must be draft or paid")
	}
	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, payrollSortFields) {
		errs.Add("sort_by", "is not a sortable field")
	}
	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs.Add("sort_order", "must be asc or desc")
	}

	return errs.Err()
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

type PayrollSummaryResponse struct {
	PeriodMonth        int             `json:"period_month"`
	PeriodYear         int             `json:"period_year"`
	TotalEmployees     int             `json:"total_employees"`
	TotalBaseAmount    decimal.Decimal `json:"total_base_amount"`
	TotalAllowances    decimal.Decimal `json:"total_allowances"`
	TotalOvertime      decimal.Decimal `json:"total_overtime"`
	TotalGrossSalary   decimal.Decimal `json:"total_gross_salary"`
	TotalPF            decimal.Decimal `json:"total_pf"`
	TotalESI           decimal.Decimal `json:"total_esi"`
	TotalTDS           decimal.Decimal `json:"total_tds"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	TotalNetSalary     decimal.Decimal `json:"total_net_salary"`
	TotalBankDisbursed decimal.Decimal `json:"total_bank_disbursed"`
	TotalCashDisbursed decimal.Decimal `json:"total_cash_disbursed"`
	NegativeNetCount   int             `json:"negative_net_count"`
	DraftCount         int             `json:"draft_count"`
	PaidCount          int             `json:"paid_count"`
}

// RegisterRow is one line of the exported salary register.
type RegisterRow struct {
	EmployeeCode     string `csv:"employee_code"`
	EmployeeName     string `csv:"employee_name"`
	Department       string `csv:"department"`
	Method           string `csv:"calculation_method"`
	PresentDays      int    `csv:"present_days"`
	TotalHours       string `csv:"total_hours"`
	GrossSalary      string `csv:"gross_salary"`
	PF               string `csv:"pf"`
	ESI              string `csv:"esi"`
	TDS              string `csv:"tds"`
	ProfessionalTax  string `csv:"professional_tax"`
	Canteen          string `csv:"canteen"`
	Advance          string `csv:"advance"`
	Fines            string `csv:"fines"`
	TotalDeductions  string `csv:"total_deductions"`
	NetSalary        string `csv:"net_salary"`
	DisbursementType string `csv:"disbursement_type"`
	BankAmount       string `csv:"bank_amount"`
	CashAmount       string `csv:"cash_amount"`
	Status           string `csv:"status"`
}
