package payroll

import (
	"strings"
	"time"

	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// CalculationMethod selects which rate on a compensation structure is authoritative.
type CalculationMethod string

const (
	MethodMonthly CalculationMethod = "monthly"
	MethodHourly  CalculationMethod = "hourly"
	MethodDaily   CalculationMethod = "daily"
	MethodProject CalculationMethod = "project"
)

func ParseCalculationMethod(s string) (CalculationMethod, error) {
	m := CalculationMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", ErrUnknownCalculationMethod
	}
	return m, nil
}

func (m CalculationMethod) IsValid() bool {
	switch m {
	case MethodMonthly, MethodHourly, MethodDaily, MethodProject:
		return true
	}
	return false
}

// DisbursementType is how net pay leaves the company.
type DisbursementType string

const (
	DisbursementBank DisbursementType = "bank"
	DisbursementCash DisbursementType = "cash"
	// DisbursementESI splits net pay into a cash portion and a bank portion.
	DisbursementESI DisbursementType = "esi"
)

func (d DisbursementType) IsValid() bool {
	switch d {
	case DisbursementBank, DisbursementCash, DisbursementESI:
		return true
	}
	return false
}

// Defaults applied to a new compensation structure
var (
	DefaultWorkingDaysPerMonth    = 26
	DefaultWorkingHoursPerDay     = decimal.NewFromInt(8)
	DefaultOvertimeRateMultiplier = decimal.RequireFromString("1.5")
	DefaultPFRate                 = decimal.RequireFromString("0.12")
	DefaultESIRate                = decimal.RequireFromString("0.0325")
)

// MaxOvertimeRateMultiplier is the largest multiplier a saved structure may carry.
var MaxOvertimeRateMultiplier = decimal.NewFromInt(10)

type Allowances struct {
	HouseRent decimal.Decimal
	Transport decimal.Decimal
	Medical   decimal.Decimal
	Food      decimal.Decimal
	Special   decimal.Decimal
}

// Total sums the five allowances; negative entries count as zero.
func (a Allowances) Total() decimal.Decimal {
	return nonNegative(a.HouseRent).
		Add(nonNegative(a.Transport)).
		Add(nonNegative(a.Medical)).
		Add(nonNegative(a.Food)).
		Add(nonNegative(a.Special))
}

// CompensationStructure - how one employee is paid. Rates that do not belong to
// the selected method are kept as entered and ignored by the calculation.
type CompensationStructure struct {
	ID                          string
	EmployeeID                  string
	CalculationMethod           CalculationMethod
	BasicSalary                 decimal.Decimal
	HourlyRate                  decimal.Decimal
	DailyRate                   decimal.Decimal
	StandardWorkingDaysPerMonth int
	StandardWorkingHoursPerDay  decimal.Decimal
	OvertimeEligible            bool
	OvertimeRateMultiplier      decimal.Decimal
	Allowances                  Allowances
	PFApplicable                bool
	PFRate                      decimal.Decimal
	ESIApplicable               bool
	ESIRate                     decimal.Decimal
	ProfessionalTax             decimal.Decimal
	DisbursementType            DisbursementType
	IsActive                    bool
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// NewCompensationStructure returns a structure for method carrying every default.
func NewCompensationStructure(method CalculationMethod) CompensationStructure {
	return CompensationStructure{
		CalculationMethod:           method,
		StandardWorkingDaysPerMonth: DefaultWorkingDaysPerMonth,
		StandardWorkingHoursPerDay:  DefaultWorkingHoursPerDay,
		OvertimeRateMultiplier:      DefaultOvertimeRateMultiplier,
		PFRate:                      DefaultPFRate,
		ESIRate:                     DefaultESIRate,
		DisbursementType:            DisbursementBank,
	}
}

// ValidateContract checks the conditions under which no calculation may run:
// an unknown method or a rate fraction outside [0,1].
func (s CompensationStructure) ValidateContract() error {
	var errs validator.ValidationErrors

	if !s.CalculationMethod.IsValid() {
		errs.Add("calculation_method", "must be one of monthly, hourly, daily, project")
	}
	if !validator.IsFraction(s.PFRate) {
		errs.Add("pf_rate", "must be between 0 and 1")
	}
	if !validator.IsFraction(s.ESIRate) {
		errs.Add("esi_rate", "must be between 0 and 1")
	}
	if s.OvertimeRateMultiplier.LessThan(decimal.NewFromInt(1)) {
		errs.Add("overtime_rate_multiplier", "must be at least 1")
	}

	return errs.Err()
}

// Validate is the full check applied before a structure is saved.
func (s CompensationStructure) Validate() error {
	var errs validator.ValidationErrors
	if err := s.ValidateContract(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if s.StandardWorkingDaysPerMonth < 1 || s.StandardWorkingDaysPerMonth > 31 {
		errs.Add("standard_working_days_per_month", "must be between 1 and 31")
	}
	if !s.StandardWorkingHoursPerDay.IsPositive() || s.StandardWorkingHoursPerDay.GreaterThan(decimal.NewFromInt(24)) {
		errs.Add("standard_working_hours_per_day", "must be greater than 0 and at most 24")
	}
	if !s.DisbursementType.IsValid() {
		errs.Add("disbursement_type", "must be one of bank, cash, esi")
	}
	if s.OvertimeRateMultiplier.GreaterThan(MaxOvertimeRateMultiplier) {
		errs.Add("overtime_rate_multiplier", "must be at most "+MaxOvertimeRateMultiplier.String())
	}

	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"basic_salary", s.BasicSalary},
		{"hourly_rate", s.HourlyRate},
		{"daily_rate", s.DailyRate},
		{"house_rent_allowance", s.Allowances.HouseRent},
		{"transport_allowance", s.Allowances.Transport},
		{"medical_allowance", s.Allowances.Medical},
		{"food_allowance", s.Allowances.Food},
		{"special_allowance", s.Allowances.Special},
		{"professional_tax", s.ProfessionalTax},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			errs.Add(a.field, "must be non-negative")
		}
	}

	return errs.Err()
}

// Fine - a single penalty deducted from pay
type Fine struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Description string          `json:"description,omitempty"`
}

// PayrollAdjustments - per-period overrides layered on top of the structure
type PayrollAdjustments struct {
	// OvertimeHoursOverride replaces the hours derived from attendance when set.
	OvertimeHoursOverride *decimal.Decimal
	// WorkedDaysOverride replaces the standard working days for monthly and daily pay.
	WorkedDaysOverride *decimal.Decimal
	CanteenDeduction   decimal.Decimal
	AdvanceDeduction   decimal.Decimal
	Fines              []Fine
	// ESICashAmount is the cash share of net pay for esi disbursement.
	ESICashAmount decimal.Decimal
}

// TotalFines sums the fine amounts; order does not matter.
func (a PayrollAdjustments) TotalFines() decimal.Decimal {
	total := decimal.Zero
	for _, f := range a.Fines {
		total = total.Add(nonNegative(f.Amount))
	}
	return total
}

// GrossBreakdown - earnings side of a calculation
type GrossBreakdown struct {
	BaseAmount     decimal.Decimal
	WorkedDays     decimal.Decimal
	RegularHours   decimal.Decimal
	OvertimeHours  decimal.Decimal
	OvertimeAmount decimal.Decimal
	AllowanceTotal decimal.Decimal
	GrossSalary    decimal.Decimal
}

// DeductionsBreakdown - every amount subtracted from gross
type DeductionsBreakdown struct {
	PF              decimal.Decimal
	ESI             decimal.Decimal
	TDS             decimal.Decimal
	ProfessionalTax decimal.Decimal
	Canteen         decimal.Decimal
	Advance         decimal.Decimal
	TotalFines      decimal.Decimal
	Total           decimal.Decimal
}

type Disbursement struct {
	Type       DisbursementType
	BankAmount decimal.Decimal
	CashAmount decimal.Decimal
}

const (
	WarningNegativeNet        = "negative_net"
	WarningESICeilingExceeded = "esi_ceiling_exceeded"
	WarningESICashCapped      = "esi_cash_capped"
)

// PayrollResult - the immutable output of one calculation
type PayrollResult struct {
	CalculationMethod CalculationMethod
	Gross             GrossBreakdown
	PFWageBase        decimal.Decimal
	Deductions        DeductionsBreakdown
	Fines             []Fine
	NetSalary         decimal.Decimal
	Disbursement      Disbursement
	Warnings          []string
}

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft PayrollStatus = "draft"
	PayrollStatusPaid  PayrollStatus = "paid"
)

// PayrollRecord - a persisted calculation for one employee and month
type PayrollRecord struct {
	ID                string
	EmployeeID        string
	PeriodMonth       int
	PeriodYear        int
	CalculationMethod CalculationMethod
	PresentDays       int
	AbsentDays        int
	LeaveDays         int
	TotalHours        decimal.Decimal
	BaseAmount        decimal.Decimal
	AllowanceTotal    decimal.Decimal
	OvertimeHours     decimal.Decimal
	OvertimeAmount    decimal.Decimal
	GrossSalary       decimal.Decimal
	PF                decimal.Decimal
	ESI               decimal.Decimal
	TDS               decimal.Decimal
	ProfessionalTax   decimal.Decimal
	Canteen           decimal.Decimal
	Advance           decimal.Decimal
	TotalFines        decimal.Decimal
	TotalDeductions   decimal.Decimal
	Fines             []Fine
	NetSalary         decimal.Decimal
	DisbursementType  DisbursementType
	BankAmount        decimal.Decimal
	CashAmount        decimal.Decimal
	Warnings          []string
	Status            PayrollStatus
	PaidAt            *time.Time
	PaidBy            *string
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined fields
	EmployeeName   *string
	EmployeeCode   *string
	DepartmentName *string
}
