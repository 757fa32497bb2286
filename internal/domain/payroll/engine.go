package payroll

import (
	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

var (
	// ESIGrossCeiling is the highest gross salary still liable for ESI.
	ESIGrossCeiling = decimal.NewFromInt(25000)
	// TDSGrossThreshold is the gross salary above which TDS is withheld.
	TDSGrossThreshold = decimal.NewFromInt(50000)
	TDSRate           = decimal.RequireFromString("0.10")
)

const moneyPlaces = 2

// ComputeGrossSalary derives earnings for one period. Unknown methods are the
// only error; every numeric edge case resolves to zero-valued components.
func ComputeGrossSalary(s CompensationStructure, agg attendance.Aggregate, adj PayrollAdjustments) (GrossBreakdown, error) {
	if !s.CalculationMethod.IsValid() {
		return GrossBreakdown{}, ErrUnknownCalculationMethod
	}

	standardDays := decimal.NewFromInt(int64(s.StandardWorkingDaysPerMonth))
	if !standardDays.IsPositive() {
		standardDays = decimal.NewFromInt(int64(DefaultWorkingDaysPerMonth))
	}
	workedDays := standardDays
	if adj.WorkedDaysOverride != nil {
		workedDays = nonNegative(*adj.WorkedDaysOverride)
	}

	out := GrossBreakdown{
		WorkedDays:     workedDays,
		RegularHours:   decimal.Zero,
		OvertimeHours:  decimal.Zero,
		OvertimeAmount: decimal.Zero,
		AllowanceTotal: s.Allowances.Total().Round(moneyPlaces),
	}

	switch s.CalculationMethod {
	case MethodMonthly:
		// multiply before dividing so a full month returns basic exactly
		out.BaseAmount = nonNegative(s.BasicSalary).Mul(workedDays).Div(standardDays)

	case MethodHourly:
		hoursPerDay := s.StandardWorkingHoursPerDay
		if !hoursPerDay.IsPositive() {
			hoursPerDay = DefaultWorkingHoursPerDay
		}
		totalHours := nonNegative(agg.TotalHours)
		regularCap := hoursPerDay.Mul(standardDays)

		out.RegularHours = decimal.Min(totalHours, regularCap)
		if adj.OvertimeHoursOverride != nil {
			out.OvertimeHours = nonNegative(*adj.OvertimeHoursOverride)
		} else {
			out.OvertimeHours = totalHours.Sub(out.RegularHours)
		}

		rate := nonNegative(s.HourlyRate)
		out.BaseAmount = rate.Mul(out.RegularHours)
		if s.OvertimeEligible && out.OvertimeHours.IsPositive() {
			out.OvertimeAmount = rate.Mul(nonNegative(s.OvertimeRateMultiplier)).Mul(out.OvertimeHours).Round(moneyPlaces)
		}

	case MethodDaily:
		out.BaseAmount = nonNegative(s.DailyRate).Mul(workedDays)

	case MethodProject:
		out.BaseAmount = nonNegative(s.BasicSalary)
	}

	out.BaseAmount = out.BaseAmount.Round(moneyPlaces)
	out.GrossSalary = out.BaseAmount.Add(out.OvertimeAmount).Add(out.AllowanceTotal)

	return out, nil
}

// PFWageBase returns the amount PF is charged on. Monthly and project pay use
// the configured basic salary; hourly and daily pay use the earned base, since
// basic salary is not authoritative for those methods.
func PFWageBase(s CompensationStructure, gross GrossBreakdown) decimal.Decimal {
	switch s.CalculationMethod {
	case MethodHourly, MethodDaily:
		return gross.BaseAmount
	default:
		return nonNegative(s.BasicSalary)
	}
}

// ComputeDeductions applies statutory and ad-hoc deductions. PF is charged on
// basicSalary only, never on gross.
func ComputeDeductions(s CompensationStructure, grossSalary, basicSalary decimal.Decimal, adj PayrollAdjustments) DeductionsBreakdown {
	grossSalary = nonNegative(grossSalary)
	d := DeductionsBreakdown{
		PF:              decimal.Zero,
		ESI:             decimal.Zero,
		TDS:             decimal.Zero,
		ProfessionalTax: nonNegative(s.ProfessionalTax).Round(moneyPlaces),
		Canteen:         nonNegative(adj.CanteenDeduction).Round(moneyPlaces),
		Advance:         nonNegative(adj.AdvanceDeduction).Round(moneyPlaces),
		TotalFines:      adj.TotalFines().Round(moneyPlaces),
	}

	if s.PFApplicable {
		d.PF = nonNegative(basicSalary).Mul(clampFraction(s.PFRate)).Round(moneyPlaces)
	}
	if s.ESIApplicable && grossSalary.LessThanOrEqual(ESIGrossCeiling) {
		d.ESI = grossSalary.Mul(clampFraction(s.ESIRate)).Round(moneyPlaces)
	}
	if grossSalary.GreaterThan(TDSGrossThreshold) {
		d.TDS = grossSalary.Mul(TDSRate).Round(moneyPlaces)
	}

	d.Total = d.PF.Add(d.ESI).Add(d.TDS).Add(d.ProfessionalTax).Add(d.Canteen).Add(d.Advance).Add(d.TotalFines)
	return d
}

// ComputeNetSalary is gross minus deductions. A negative result is returned as is.
func ComputeNetSalary(grossSalary, totalDeductions decimal.Decimal) decimal.Decimal {
	return grossSalary.Sub(totalDeductions)
}

// ComputeDisbursement splits net pay across bank and cash. For esi disbursement
// the cash share is capped at the payable net; the remainder goes to the bank.
func ComputeDisbursement(t DisbursementType, net, esiCashAmount decimal.Decimal) Disbursement {
	d := Disbursement{Type: t, BankAmount: decimal.Zero, CashAmount: decimal.Zero}

	switch t {
	case DisbursementCash:
		d.CashAmount = net
	case DisbursementESI:
		d.CashAmount = decimal.Min(nonNegative(esiCashAmount), nonNegative(net))
		d.BankAmount = net.Sub(d.CashAmount)
	default:
		d.Type = DisbursementBank
		d.BankAmount = net
	}

	return d
}

// Calculate runs aggregate-to-net for one employee and period. Contract
// violations on the structure are returned before anything is computed.
func Calculate(s CompensationStructure, agg attendance.Aggregate, adj PayrollAdjustments) (PayrollResult, error) {
	if err := s.ValidateContract(); err != nil {
		return PayrollResult{}, err
	}

	gross, err := ComputeGrossSalary(s, agg, adj)
	if err != nil {
		return PayrollResult{}, err
	}

	pfBase := PFWageBase(s, gross)
	deductions := ComputeDeductions(s, gross.GrossSalary, pfBase, adj)
	net := ComputeNetSalary(gross.GrossSalary, deductions.Total)

	result := PayrollResult{
		CalculationMethod: s.CalculationMethod,
		Gross:             gross,
		PFWageBase:        pfBase,
		Deductions:        deductions,
		Fines:             append([]Fine(nil), adj.Fines...),
		NetSalary:         net,
		Disbursement:      ComputeDisbursement(s.DisbursementType, net, adj.ESICashAmount),
		Warnings:          []string{},
	}

	if net.IsNegative() {
		result.Warnings = append(result.Warnings, WarningNegativeNet)
	}
	if s.ESIApplicable && gross.GrossSalary.GreaterThan(ESIGrossCeiling) {
		result.Warnings = append(result.Warnings, WarningESICeilingExceeded)
	}
	if s.DisbursementType == DisbursementESI && nonNegative(adj.ESICashAmount).GreaterThan(result.Disbursement.CashAmount) {
		result.Warnings = append(result.Warnings, WarningESICashCapped)
	}

	return result, nil
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func clampFraction(d decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(one) {
		return one
	}
	return d
}
