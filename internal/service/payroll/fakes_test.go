package payroll

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
	"github.com/saiharipapers/factory-erp/internal/domain/employee"
	"github.com/saiharipapers/factory-erp/internal/domain/payroll"
)

type fakeTransactor struct{ calls int }

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(emps ...employee.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: map[string]employee.Employee{}}
	for _, e := range emps {
		r.employees[e.ID] = e
	}
	return r
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.employees[e.ID] = e
	return e, nil
}

func (r *fakeEmployeeRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, e := range r.employees {
		if e.EmployeeCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, _ employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

func (r *fakeEmployeeRepo) ListDepartments(_ context.Context) ([]employee.Department, error) {
	return nil, nil
}

func (r *fakeEmployeeRepo) DepartmentExists(_ context.Context, _ string) (bool, error) {
	return true, nil
}

type fakeAttendanceRepo struct {
	entries map[string][]attendance.Entry
}

func (r *fakeAttendanceRepo) Upsert(_ context.Context, e attendance.Entry) (attendance.Entry, error) {
	r.entries[e.EmployeeID] = append(r.entries[e.EmployeeID], e)
	return e, nil
}

func (r *fakeAttendanceRepo) Delete(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func (r *fakeAttendanceRepo) GetByEmployeePeriod(_ context.Context, employeeID string, _, _ int) ([]attendance.Entry, error) {
	return r.entries[employeeID], nil
}

type fakeCompensationRepo struct {
	mu      sync.Mutex
	active  map[string]payroll.CompensationStructure
	history map[string][]payroll.CompensationStructure
	seq     int
}

func newFakeCompensationRepo() *fakeCompensationRepo {
	return &fakeCompensationRepo{
		active:  map[string]payroll.CompensationStructure{},
		history: map[string][]payroll.CompensationStructure{},
	}
}

func (r *fakeCompensationRepo) GetActive(_ context.Context, employeeID string) (payroll.CompensationStructure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.active[employeeID]
	if !ok {
		return payroll.CompensationStructure{}, payroll.ErrCompensationNotFound
	}
	return s, nil
}

func (r *fakeCompensationRepo) Save(_ context.Context, s payroll.CompensationStructure) (payroll.CompensationStructure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	s.ID = fmt.Sprintf("cs-%d", r.seq)
	s.IsActive = true
	if prev, ok := r.active[s.EmployeeID]; ok {
		prev.IsActive = false
		r.history[s.EmployeeID] = append(r.history[s.EmployeeID], prev)
	}
	r.active[s.EmployeeID] = s
	return s, nil
}

func (r *fakeCompensationRepo) ListHistory(_ context.Context, employeeID string) ([]payroll.CompensationStructure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]payroll.CompensationStructure{}, r.history[employeeID]...)
	if s, ok := r.active[employeeID]; ok {
		out = append(out, s)
	}
	return out, nil
}

type fakePayrollRepo struct {
	mu        sync.Mutex
	records   map[string]payroll.PayrollRecord
	employees *fakeEmployeeRepo
	seq       int
}

func newFakePayrollRepo(employees *fakeEmployeeRepo) *fakePayrollRepo {
	return &fakePayrollRepo{records: map[string]payroll.PayrollRecord{}, employees: employees}
}

func (r *fakePayrollRepo) CreatePayrollRecord(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.EmployeeID == record.EmployeeID && existing.PeriodMonth == record.PeriodMonth && existing.PeriodYear == record.PeriodYear {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
	}
	r.seq++
	record.ID = fmt.Sprintf("pr-%d", r.seq)
	record.CreatedAt = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	if e, ok := r.employees.employees[record.EmployeeID]; ok {
		name, code := e.FullName, e.EmployeeCode
		record.EmployeeName = &name
		record.EmployeeCode = &code
		record.DepartmentName = e.DepartmentName
	}
	r.records[record.ID] = record
	return record, nil
}

func (r *fakePayrollRepo) GetPayrollRecordByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return record, nil
}

func (r *fakePayrollRepo) GetPayrollRecordByEmployeePeriod(_ context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.EmployeeID == employeeID && record.PeriodMonth == month && record.PeriodYear == year {
			return record, nil
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
}

func (r *fakePayrollRepo) ListPayrollRecords(_ context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []payroll.PayrollRecord
	for _, record := range r.records {
		if filter.PeriodMonth != nil && record.PeriodMonth != *filter.PeriodMonth {
			continue
		}
		if filter.PeriodYear != nil && record.PeriodYear != *filter.PeriodYear {
			continue
		}
		matched = append(matched, record)
	}
	sort.Slice(matched, func(i, j int) bool {
		if *matched[i].EmployeeName != *matched[j].EmployeeName {
			return *matched[i].EmployeeName < *matched[j].EmployeeName
		}
		return *matched[i].EmployeeCode < *matched[j].EmployeeCode
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], total, nil
}

func (r *fakePayrollRepo) FinalizePayrollRecords(_ context.Context, ids []string, paidBy string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for _, id := range ids {
		record, ok := r.records[id]
		if !ok || record.Status != payroll.PayrollStatusDraft {
			continue
		}
		record.Status = payroll.PayrollStatusPaid
		record.PaidAt = &now
		record.PaidBy = &paidBy
		r.records[id] = record
		n++
	}
	return n, nil
}

func (r *fakePayrollRepo) DeletePayrollRecord(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	if record.Status == payroll.PayrollStatusPaid {
		return payroll.ErrCannotDeletePaidRecord
	}
	delete(r.records, id)
	return nil
}

func (r *fakePayrollRepo) GetPayrollSummary(_ context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	return payroll.PayrollSummaryResponse{PeriodMonth: month, PeriodYear: year}, nil
}
