package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/gocarina/gocsv"
	"github.com/saiharipapers/factory-erp/internal/config"
	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
	"github.com/saiharipapers/factory-erp/internal/domain/employee"
	"github.com/saiharipapers/factory-erp/internal/domain/payroll"
	"github.com/saiharipapers/factory-erp/internal/pkg/payslip"
	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Transactor runs fn so that repository calls made with its context commit together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type PayrollServiceImpl struct {
	tx               Transactor
	compensationRepo payroll.CompensationRepository
	payrollRepo      payroll.PayrollRepository
	employeeRepo     employee.EmployeeRepository
	attendanceRepo   attendance.AttendanceRepository
	payslips         *payslip.Renderer
	cfg              config.PayrollConfig
}

func NewPayrollService(
	tx Transactor,
	compensationRepo payroll.CompensationRepository,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	payslips *payslip.Renderer,
	cfg config.PayrollConfig,
) payroll.PayrollService {
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 1
	}
	return &PayrollServiceImpl{
		tx:               tx,
		compensationRepo: compensationRepo,
		payrollRepo:      payrollRepo,
		employeeRepo:     employeeRepo,
		attendanceRepo:   attendanceRepo,
		payslips:         payslips,
		cfg:              cfg,
	}
}

// Helper to get user_id from JWT context
func getUserIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return userID, nil
}

func (s *PayrollServiceImpl) getEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, payroll.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// ========== COMPENSATION STRUCTURES ==========

func (s *PayrollServiceImpl) SaveCompensationStructure(ctx context.Context, req payroll.SaveCompensationRequest) (payroll.CompensationStructureResponse, error) {
	if _, err := s.getEmployee(ctx, req.EmployeeID); err != nil {
		return payroll.CompensationStructureResponse{}, err
	}

	structure := req.ToStructure(payroll.StructureDefaults{
		WorkingDaysPerMonth: s.cfg.DefaultWorkingDays,
		WorkingHoursPerDay:  s.cfg.DefaultWorkingHours,
	})
	if err := structure.Validate(); err != nil {
		return payroll.CompensationStructureResponse{}, err
	}

	var saved payroll.CompensationStructure
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.compensationRepo.Save(ctx, structure)
		return err
	})
	if err != nil {
		return payroll.CompensationStructureResponse{}, err
	}

	slog.InfoContext(ctx, "compensation structure saved",
		"employee_id", saved.EmployeeID,
		"structure_id", saved.ID,
		"calculation_method", saved.CalculationMethod,
	)

	return payroll.NewCompensationStructureResponse(saved), nil
}

func (s *PayrollServiceImpl) GetActiveCompensationStructure(ctx context.Context, employeeID string) (payroll.CompensationStructureResponse, error) {
	structure, err := s.compensationRepo.GetActive(ctx, employeeID)
	if err != nil {
		return payroll.CompensationStructureResponse{}, err
	}
	return payroll.NewCompensationStructureResponse(structure), nil
}

func (s *PayrollServiceImpl) ListCompensationHistory(ctx context.Context, employeeID string) ([]payroll.CompensationStructureResponse, error) {
	if _, err := s.getEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	history, err := s.compensationRepo.ListHistory(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.CompensationStructureResponse, 0, len(history))
	for _, h := range history {
		result = append(result, payroll.NewCompensationStructureResponse(h))
	}
	return result, nil
}

// ========== CALCULATION ==========

type calculation struct {
	aggregate attendance.Aggregate
	result    payroll.PayrollResult
}

func (s *PayrollServiceImpl) calculate(ctx context.Context, employeeID string, year, month int, adj payroll.PayrollAdjustments) (calculation, error) {
	structure, err := s.compensationRepo.GetActive(ctx, employeeID)
	if err != nil {
		return calculation{}, err
	}

	entries, err := s.attendanceRepo.GetByEmployeePeriod(ctx, employeeID, year, month)
	if err != nil {
		return calculation{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	agg := attendance.AggregatePeriod(entries, year, month)

	result, err := payroll.Calculate(structure, agg, adj)
	if err != nil {
		return calculation{}, err
	}

	return calculation{aggregate: agg, result: result}, nil
}

func (s *PayrollServiceImpl) PreviewPayroll(ctx context.Context, req payroll.PreviewPayrollRequest) (payroll.PayrollPreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollPreviewResponse{}, err
	}
	if _, err := s.getEmployee(ctx, req.EmployeeID); err != nil {
		return payroll.PayrollPreviewResponse{}, err
	}

	calc, err := s.calculate(ctx, req.EmployeeID, req.PeriodYear, req.PeriodMonth, req.Adjustments.ToAdjustments())
	if err != nil {
		return payroll.PayrollPreviewResponse{}, err
	}

	r := calc.result
	return payroll.PayrollPreviewResponse{
		EmployeeID:        req.EmployeeID,
		PeriodMonth:       req.PeriodMonth,
		PeriodYear:        req.PeriodYear,
		CalculationMethod: r.CalculationMethod,
		PresentDays:       calc.aggregate.PresentDays,
		AbsentDays:        calc.aggregate.AbsentDays,
		LeaveDays:         calc.aggregate.LeaveDays,
		TotalHours:        calc.aggregate.TotalHours,
		Gross: payroll.GrossResponse{
			BaseAmount:     r.Gross.BaseAmount,
			WorkedDays:     r.Gross.WorkedDays,
			RegularHours:   r.Gross.RegularHours,
			OvertimeHours:  r.Gross.OvertimeHours,
			OvertimeAmount: r.Gross.OvertimeAmount,
			AllowanceTotal: r.Gross.AllowanceTotal,
			GrossSalary:    r.Gross.GrossSalary,
		},
		PFWageBase: r.PFWageBase,
		Deductions: payroll.NewDeductionsResponse(r.Deductions),
		Fines:      nonNilFines(r.Fines),
		NetSalary:  r.NetSalary,
		Disbursement: payroll.DisbursementResponse{
			Type:       r.Disbursement.Type,
			BankAmount: r.Disbursement.BankAmount,
			CashAmount: r.Disbursement.CashAmount,
		},
		Warnings: r.Warnings,
	}, nil
}

// ========== PAYROLL GENERATION ==========

const (
	skipReasonNotActive   = "not an active employee"
	skipReasonExists      = "payroll record already exists for this period"
	skipReasonNoStructure = "no active compensation structure"
)

func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	active, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}

	resp := payroll.GeneratePayrollResponse{
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Created:     []payroll.PayrollRecordResponse{},
		Skipped:     []payroll.SkippedEmployee{},
	}

	employees := active
	if len(req.EmployeeIDs) > 0 {
		byID := make(map[string]employee.Employee, len(active))
		for _, emp := range active {
			byID[emp.ID] = emp
		}
		employees = employees[:0:0]
		for _, id := range req.EmployeeIDs {
			emp, ok := byID[id]
			if !ok {
				resp.Skipped = append(resp.Skipped, payroll.SkippedEmployee{EmployeeID: id, Reason: skipReasonNotActive})
				continue
			}
			employees = append(employees, emp)
		}
	}

	var mu sync.Mutex
	skip := func(id, reason string) {
		mu.Lock()
		defer mu.Unlock()
		resp.Skipped = append(resp.Skipped, payroll.SkippedEmployee{EmployeeID: id, Reason: reason})
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			_, err := s.payrollRepo.GetPayrollRecordByEmployeePeriod(gCtx, emp.ID, req.PeriodMonth, req.PeriodYear)
			if err == nil {
				skip(emp.ID, skipReasonExists)
				return nil
			}
			if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
				return fmt.Errorf("failed to check existing payroll record: %w", err)
			}

			calc, err := s.calculate(gCtx, emp.ID, req.PeriodYear, req.PeriodMonth, req.Adjustments[emp.ID].ToAdjustments())
			if err != nil {
				var verrs validator.ValidationErrors
				switch {
				case errors.Is(err, payroll.ErrCompensationNotFound):
					skip(emp.ID, skipReasonNoStructure)
					return nil
				case errors.As(err, &verrs):
					skip(emp.ID, "invalid compensation structure: "+verrs.Error())
					return nil
				}
				return fmt.Errorf("failed to calculate payroll for employee %s: %w", emp.ID, err)
			}

			record := payroll.NewPayrollRecord(emp.ID, req.PeriodYear, req.PeriodMonth, calc.aggregate, calc.result)
			record.Notes = req.Notes

			created, err := s.payrollRepo.CreatePayrollRecord(gCtx, record)
			if err != nil {
				if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
					skip(emp.ID, skipReasonExists)
					return nil
				}
				return fmt.Errorf("failed to create payroll record for employee %s: %w", emp.ID, err)
			}

			mu.Lock()
			resp.Created = append(resp.Created, mapToRecordResponse(created))
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	sort.Slice(resp.Created, func(i, j int) bool { return resp.Created[i].EmployeeCode < resp.Created[j].EmployeeCode })
	sort.Slice(resp.Skipped, func(i, j int) bool { return resp.Skipped[i].EmployeeID < resp.Skipped[j].EmployeeID })

	slog.InfoContext(ctx, "payroll generated",
		"period_month", req.PeriodMonth,
		"period_year", req.PeriodYear,
		"created", len(resp.Created),
		"skipped", len(resp.Skipped),
	)

	return resp, nil
}

// ========== PAYROLL RECORDS ==========

func (s *PayrollServiceImpl) GetPayrollRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	records, totalCount, err := s.payrollRepo.ListPayrollRecords(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	return payroll.ListPayrollRecordResponse{
		Data:       mapToRecordResponses(records),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) FinalizePayroll(ctx context.Context, req payroll.FinalizePayrollRequest) (payroll.FinalizePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.FinalizePayrollResponse{}, err
	}

	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return payroll.FinalizePayrollResponse{}, err
	}

	finalized, err := s.payrollRepo.FinalizePayrollRecords(ctx, req.RecordIDs, userID)
	if err != nil {
		return payroll.FinalizePayrollResponse{}, err
	}
	if finalized == 0 {
		return payroll.FinalizePayrollResponse{}, payroll.ErrNothingToFinalize
	}

	slog.InfoContext(ctx, "payroll finalized", "requested", len(req.RecordIDs), "finalized", finalized, "paid_by", userID)

	return payroll.FinalizePayrollResponse{Finalized: finalized}, nil
}

func (s *PayrollServiceImpl) DeletePayrollRecord(ctx context.Context, id string) error {
	return s.payrollRepo.DeletePayrollRecord(ctx, id)
}

// ========== SUMMARY ==========

func (s *PayrollServiceImpl) GetPayrollSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	if !validator.IsValidPeriod(year, month) {
		return payroll.PayrollSummaryResponse{}, validator.ValidationErrors{{Field: "period", Message: "year and month must name a valid month"}}
	}
	return s.payrollRepo.GetPayrollSummary(ctx, month, year)
}

// ========== DOCUMENTS ==========

func (s *PayrollServiceImpl) RenderPayslip(ctx context.Context, id string) (string, []byte, error) {
	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if err := s.payslips.Render(&buf, buildPayslip(record)); err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("payslip-%s-%04d-%02d.pdf", deref(record.EmployeeCode), record.PeriodYear, record.PeriodMonth)
	return filename, buf.Bytes(), nil
}

const registerPageSize = 100

func (s *PayrollServiceImpl) ExportRegister(ctx context.Context, month, year int) (string, []byte, error) {
	if !validator.IsValidPeriod(year, month) {
		return "", nil, validator.ValidationErrors{{Field: "period", Message: "year and month must name a valid month"}}
	}

	filter := payroll.PayrollFilter{
		PeriodMonth: &month,
		PeriodYear:  &year,
		Page:        1,
		Limit:       registerPageSize,
		SortBy:      "employee_name",
		SortOrder:   "asc",
	}

	rows := []*payroll.RegisterRow{}
	for {
		records, totalCount, err := s.payrollRepo.ListPayrollRecords(ctx, filter)
		if err != nil {
			return "", nil, err
		}
		for _, r := range records {
			rows = append(rows, newRegisterRow(r))
		}
		if len(records) == 0 || int64(len(rows)) >= totalCount {
			break
		}
		filter.Page++
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode salary register: %w", err)
	}

	return fmt.Sprintf("salary-register-%04d-%02d.csv", year, month), out, nil
}

func newRegisterRow(r payroll.PayrollRecord) *payroll.RegisterRow {
	return &payroll.RegisterRow{
		EmployeeCode:     deref(r.EmployeeCode),
		EmployeeName:     deref(r.EmployeeName),
		Department:       deref(r.DepartmentName),
		Method:           string(r.CalculationMethod),
		PresentDays:      r.PresentDays,
		TotalHours:       r.TotalHours.String(),
		GrossSalary:      r.GrossSalary.StringFixed(2),
		PF:               r.PF.StringFixed(2),
		ESI:              r.ESI.StringFixed(2),
		TDS:              r.TDS.StringFixed(2),
		ProfessionalTax:  r.ProfessionalTax.StringFixed(2),
		Canteen:          r.Canteen.StringFixed(2),
		Advance:          r.Advance.StringFixed(2),
		Fines:            r.TotalFines.StringFixed(2),
		TotalDeductions:  r.TotalDeductions.StringFixed(2),
		NetSalary:        r.NetSalary.StringFixed(2),
		DisbursementType: string(r.DisbursementType),
		BankAmount:       r.BankAmount.StringFixed(2),
		CashAmount:       r.CashAmount.StringFixed(2),
		Status:           string(r.Status),
	}
}

func buildPayslip(r payroll.PayrollRecord) payslip.Payslip {
	earnings := []payslip.Line{{Label: "Base pay", Amount: r.BaseAmount}}
	if r.OvertimeAmount.IsPositive() {
		earnings = append(earnings, payslip.Line{
			Label:  fmt.Sprintf("Overtime (%s h)", r.OvertimeHours.String()),
			Amount: r.OvertimeAmount,
		})
	}
	if r.AllowanceTotal.IsPositive() {
		earnings = append(earnings, payslip.Line{Label: "Allowances", Amount: r.AllowanceTotal})
	}

	var deductions []payslip.Line
	addDeduction := func(label string, amount decimal.Decimal) {
		if amount.IsPositive() {
			deductions = append(deductions, payslip.Line{Label: label, Amount: amount})
		}
	}
	addDeduction("Provident fund", r.PF)
	addDeduction("ESI", r.ESI)
	addDeduction("TDS", r.TDS)
	addDeduction("Professional tax", r.ProfessionalTax)
	addDeduction("Canteen", r.Canteen)
	addDeduction("Advance", r.Advance)
	for _, f := range r.Fines {
		addDeduction("Fine: "+f.Reason, f.Amount)
	}

	return payslip.Payslip{
		EmployeeName:     deref(r.EmployeeName),
		EmployeeCode:     deref(r.EmployeeCode),
		Department:       deref(r.DepartmentName),
		Period:           time.Date(r.PeriodYear, time.Month(r.PeriodMonth), 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		Method:           string(r.CalculationMethod),
		Status:           string(r.Status),
		PresentDays:      r.PresentDays,
		AbsentDays:       r.AbsentDays,
		LeaveDays:        r.LeaveDays,
		TotalHours:       r.TotalHours,
		Earnings:         earnings,
		Deductions:       deductions,
		Gross:            r.GrossSalary,
		TotalDeductions:  r.TotalDeductions,
		Net:              r.NetSalary,
		DisbursementType: string(r.DisbursementType),
		BankAmount:       r.BankAmount,
		CashAmount:       r.CashAmount,
		Warnings:         r.Warnings,
	}
}

// ========== HELPERS ==========

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	var paidAtStr *string
	if r.PaidAt != nil {
		str := r.PaidAt.Format(time.RFC3339)
		paidAtStr = &str
	}

	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return payroll.PayrollRecordResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		EmployeeName:      deref(r.EmployeeName),
		EmployeeCode:      deref(r.EmployeeCode),
		DepartmentName:    r.DepartmentName,
		PeriodMonth:       r.PeriodMonth,
		PeriodYear:        r.PeriodYear,
		CalculationMethod: r.CalculationMethod,
		PresentDays:       r.PresentDays,
		AbsentDays:        r.AbsentDays,
		LeaveDays:         r.LeaveDays,
		TotalHours:        r.TotalHours,
		BaseAmount:        r.BaseAmount,
		AllowanceTotal:    r.AllowanceTotal,
		OvertimeHours:     r.OvertimeHours,
		OvertimeAmount:    r.OvertimeAmount,
		GrossSalary:       r.GrossSalary,
		Deductions: payroll.DeductionsResponse{
			PF:              r.PF,
			ESI:             r.ESI,
			TDS:             r.TDS,
			ProfessionalTax: r.ProfessionalTax,
			Canteen:         r.Canteen,
			Advance:         r.Advance,
			TotalFines:      r.TotalFines,
			Total:           r.TotalDeductions,
		},
		Fines:     nonNilFines(r.Fines),
		NetSalary: r.NetSalary,
		Disbursement: payroll.DisbursementResponse{
			Type:       r.DisbursementType,
			BankAmount: r.BankAmount,
			CashAmount: r.CashAmount,
		},
		Warnings:  warnings,
		Status:    r.Status,
		PaidAt:    paidAtStr,
		PaidBy:    r.PaidBy,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.PayrollRecordResponse {
	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result
}

func nonNilFines(fines []payroll.Fine) []payroll.Fine {
	if fines == nil {
		return []payroll.Fine{}
	}
	return fines
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
