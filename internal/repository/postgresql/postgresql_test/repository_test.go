package postgresql_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
	"github.com/saiharipapers/factory-erp/internal/domain/employee"
	"github.com/saiharipapers/factory-erp/internal/domain/payroll"
	"github.com/saiharipapers/factory-erp/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEmployee(t *testing.T, repo employee.EmployeeRepository, code string, departmentID *string) employee.Employee {
	t.Helper()
	emp, err := repo.Create(context.Background(), employee.Employee{
		EmployeeCode:     code,
		FullName:         "Worker " + code,
		DepartmentID:     departmentID,
		EmploymentType:   employee.EmploymentTypePermanent,
		EmploymentStatus: employee.EmploymentStatusActive,
		JoinDate:         time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return emp
}

func TestEmployeeRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)
	deptID := setup.CreateDepartment(t, "Pulping")

	created := createEmployee(t, repo, "EMP-0001", &deptID)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "EMP-0001", got.EmployeeCode)
	require.NotNil(t, got.DepartmentName)
	assert.Equal(t, "Pulping", *got.DepartmentName)

	_, err = repo.Create(ctx, employee.Employee{
		EmployeeCode:     "EMP-0001",
		FullName:         "Duplicate",
		EmploymentType:   employee.EmploymentTypeContract,
		EmploymentStatus: employee.EmploymentStatusActive,
		JoinDate:         time.Now(),
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	exists, err := repo.ExistsByCode(ctx, "EMP-0001")
	require.NoError(t, err)
	assert.True(t, exists)

	departments, err := repo.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, 1, departments[0].ActiveEmployees)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceRepository_UpsertAndPeriod(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := createEmployee(t, postgresql.NewEmployeeRepository(setup.DB), "EMP-0002", nil)
	repo := postgresql.NewAttendanceRepository(setup.DB)

	day := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	_, err := repo.Upsert(ctx, attendance.Entry{EmployeeID: emp.ID, Date: day, Status: attendance.StatusPresent, Hours: decimal.NewFromInt(8)})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, attendance.Entry{EmployeeID: emp.ID, Date: day, Status: attendance.StatusLeave, Hours: decimal.Zero})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, attendance.Entry{EmployeeID: emp.ID, Date: day.AddDate(0, 0, 1), Status: attendance.StatusPresent, Hours: decimal.NewFromInt(8)})
	require.NoError(t, err)

	jan, err := repo.GetByEmployeePeriod(ctx, emp.ID, 2024, 1)
	require.NoError(t, err)
	require.Len(t, jan, 1)
	assert.Equal(t, attendance.StatusLeave, jan[0].Status)

	require.NoError(t, repo.Delete(ctx, emp.ID, day))
	assert.ErrorIs(t, repo.Delete(ctx, emp.ID, day), attendance.ErrAttendanceNotFound)
}

func TestCompensationRepository_SaveDeactivatesPrevious(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := createEmployee(t, postgresql.NewEmployeeRepository(setup.DB), "EMP-0003", nil)
	repo := postgresql.NewCompensationRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	save := func(basic int64) payroll.CompensationStructure {
		s := payroll.NewCompensationStructure(payroll.MethodMonthly)
		s.EmployeeID = emp.ID
		s.BasicSalary = decimal.NewFromInt(basic)
		var saved payroll.CompensationStructure
		require.NoError(t, tx.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			saved, err = repo.Save(ctx, s)
			return err
		}))
		return saved
	}

	save(20000)
	second := save(24000)

	active, err := repo.GetActive(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.True(t, active.BasicSalary.Equal(decimal.NewFromInt(24000)))
	assert.True(t, active.PFRate.Equal(payroll.DefaultPFRate))

	history, err := repo.ListHistory(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	activeCount := 0
	for _, h := range history {
		if h.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestPayrollRepository_Lifecycle(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := createEmployee(t, postgresql.NewEmployeeRepository(setup.DB), "EMP-0004", nil)
	repo := postgresql.NewPayrollRepository(setup.DB)

	s := payroll.NewCompensationStructure(payroll.MethodMonthly)
	s.BasicSalary = decimal.NewFromInt(26000)
	s.PFApplicable = true
	result, err := payroll.Calculate(s, attendance.Aggregate{PresentDays: 26}, payroll.PayrollAdjustments{
		Fines: []payroll.Fine{{ID: "f1", Amount: decimal.NewFromInt(100), Reason: "late"}},
	})
	require.NoError(t, err)

	created, err := repo.CreatePayrollRecord(ctx, payroll.NewPayrollRecord(emp.ID, 2024, 1, attendance.Aggregate{PresentDays: 26}, result))
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusDraft, created.Status)
	require.NotNil(t, created.EmployeeCode)
	assert.Equal(t, "EMP-0004", *created.EmployeeCode)
	require.Len(t, created.Fines, 1)
	assert.Equal(t, "late", created.Fines[0].Reason)
	assert.True(t, created.NetSalary.Equal(result.NetSalary))

	_, err = repo.CreatePayrollRecord(ctx, payroll.NewPayrollRecord(emp.ID, 2024, 1, attendance.Aggregate{}, result))
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)

	month, year := 1, 2024
	records, total, err := repo.ListPayrollRecords(ctx, payroll.PayrollFilter{PeriodMonth: &month, PeriodYear: &year, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)

	summary, err := repo.GetPayrollSummary(ctx, 1, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalEmployees)
	assert.Equal(t, 1, summary.DraftCount)
	assert.True(t, summary.TotalGrossSalary.Equal(decimal.NewFromInt(26000)))

	n, err := repo.FinalizePayrollRecords(ctx, []string{created.ID}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.FinalizePayrollRecords(ctx, []string{created.ID}, "admin-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	paid, err := repo.GetPayrollRecordByEmployeePeriod(ctx, emp.ID, 1, 2024)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	assert.ErrorIs(t, repo.DeletePayrollRecord(ctx, created.ID), payroll.ErrCannotDeletePaidRecord)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)
	errAbort := errors.New("abort")

	err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
		_, err := repo.Create(ctx, employee.Employee{
			EmployeeCode:     "EMP-0005",
			FullName:         "Rolled Back",
			EmploymentType:   employee.EmploymentTypeTemporary,
			EmploymentStatus: employee.EmploymentStatusActive,
			JoinDate:         time.Now(),
		})
		require.NoError(t, err)
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	exists, err := repo.ExistsByCode(ctx, "EMP-0005")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCompensationRepository_ConcurrentSavesKeepOneActive(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := createEmployee(t, postgresql.NewEmployeeRepository(setup.DB), "EMP-0006", nil)
	repo := postgresql.NewCompensationRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := payroll.NewCompensationStructure(payroll.MethodMonthly)
			s.EmployeeID = emp.ID
			s.BasicSalary = decimal.NewFromInt(int64(20000 + i))
			errs[i] = tx.WithinTransaction(ctx, func(ctx context.Context) error {
				_, err := repo.Save(ctx, s)
				return err
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	history, err := repo.ListHistory(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, history, writers)

	activeCount := 0
	for _, h := range history {
		if h.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestRepositories_MalformedIDsAreNotFound(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	compensation := postgresql.NewCompensationRepository(setup.DB)
	records := postgresql.NewPayrollRepository(setup.DB)

	_, err := employees.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	exists, err := employees.DepartmentExists(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = compensation.GetActive(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, payroll.ErrCompensationNotFound)

	_, err = records.GetPayrollRecordByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)

	assert.ErrorIs(t, records.DeletePayrollRecord(ctx, "not-a-uuid"), payroll.ErrPayrollRecordNotFound)

	n, err := records.FinalizePayrollRecords(ctx, []string{"not-a-uuid"}, "admin-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	badEmployee := "not-a-uuid"
	list, total, err := records.ListPayrollRecords(ctx, payroll.PayrollFilter{EmployeeID: &badEmployee, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}

func TestPayrollRepository_NamePagingIsStable(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	repo := postgresql.NewPayrollRepository(setup.DB)

	s := payroll.NewCompensationStructure(payroll.MethodMonthly)
	s.BasicSalary = decimal.NewFromInt(15000)
	result, err := payroll.Calculate(s, attendance.Aggregate{}, payroll.PayrollAdjustments{})
	require.NoError(t, err)

	const count = 7
	for i := 0; i < count; i++ {
		emp, err := employees.Create(ctx, employee.Employee{
			EmployeeCode:     fmt.Sprintf("DUP-%04d", i),
			FullName:         "Same Name",
			EmploymentType:   employee.EmploymentTypePermanent,
			EmploymentStatus: employee.EmploymentStatusActive,
			JoinDate:         time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		_, err = repo.CreatePayrollRecord(ctx, payroll.NewPayrollRecord(emp.ID, 2024, 2, attendance.Aggregate{}, result))
		require.NoError(t, err)
	}

	month, year := 2, 2024
	seen := map[string]int{}
	for page := 1; page <= 4; page++ {
		records, _, err := repo.ListPayrollRecords(ctx, payroll.PayrollFilter{
			PeriodMonth: &month, PeriodYear: &year, Page: page, Limit: 2, SortBy: "employee_name", SortOrder: "asc",
		})
		require.NoError(t, err)
		for _, r := range records {
			seen[*r.EmployeeCode]++
		}
	}

	assert.Len(t, seen, count)
	for code, n := range seen {
		assert.Equal(t, 1, n, "employee %s listed %d times", code, n)
	}
}
