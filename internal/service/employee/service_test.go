package employee

import (
	"context"
	"testing"
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/employee"
	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmployeeRepo struct {
	byCode      map[string]employee.Employee
	departments map[string]bool
	created     []employee.Employee
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{
		byCode:      map[string]employee.Employee{},
		departments: map[string]bool{"dept-1": true},
	}
}

func (r *stubEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range r.byCode {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *stubEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = "emp-" + e.EmployeeCode
	r.byCode[e.EmployeeCode] = e
	r.created = append(r.created, e)
	return e, nil
}

func (r *stubEmployeeRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := r.byCode[code]
	return ok, nil
}

func (r *stubEmployeeRepo) List(_ context.Context, _ employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	var out []employee.Employee
	for _, e := range r.byCode {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *stubEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	out, _, err := r.List(ctx, employee.EmployeeFilter{})
	return out, err
}

func (r *stubEmployeeRepo) ListDepartments(_ context.Context) ([]employee.Department, error) {
	return []employee.Department{{ID: "dept-1", Name: "Pulping", ActiveEmployees: 3}}, nil
}

func (r *stubEmployeeRepo) DepartmentExists(_ context.Context, id string) (bool, error) {
	return r.departments[id], nil
}

func newTestService(repo *stubEmployeeRepo) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		employeeRepo: repo,
		now:          func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func validRequest() employee.CreateEmployeeRequest {
	dept := "dept-1"
	return employee.CreateEmployeeRequest{
		EmployeeCode:   " emp-0042 ",
		FullName:       "  Ravi Kumar ",
		DepartmentID:   &dept,
		EmploymentType: "permanent",
		JoinDate:       "2023-04-01",
	}
}

func TestCreateEmployee_Success(t *testing.T) {
	repo := newStubEmployeeRepo()
	svc := newTestService(repo)

	resp, err := svc.CreateEmployee(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "EMP-0042", resp.EmployeeCode)
	assert.Equal(t, "Ravi Kumar", resp.FullName)
	assert.Equal(t, "active", resp.EmploymentStatus)
	assert.Equal(t, "2023-04-01", resp.JoinDate)
	require.Len(t, repo.created, 1)
}

func TestCreateEmployee_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *employee.CreateEmployeeRequest)
		seed    bool
		wantErr error
	}{
		{"future join date", func(r *employee.CreateEmployeeRequest) { r.JoinDate = "2024-07-01" }, false, employee.ErrFutureDateNotAllowed},
		{"duplicate code", func(r *employee.CreateEmployeeRequest) {}, true, employee.ErrEmployeeCodeExists},
		{"unknown department", func(r *employee.CreateEmployeeRequest) {
			d := "dept-9"
			r.DepartmentID = &d
		}, false, employee.ErrDepartmentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubEmployeeRepo()
			if tt.seed {
				repo.byCode["EMP-0042"] = employee.Employee{ID: "existing", EmployeeCode: "EMP-0042"}
			}
			req := validRequest()
			tt.mutate(&req)

			_, err := newTestService(repo).CreateEmployee(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateEmployee_ValidationErrors(t *testing.T) {
	req := employee.CreateEmployeeRequest{EmployeeCode: "bad", EmploymentType: "intern", JoinDate: "01-01-2024"}

	_, err := newTestService(newStubEmployeeRepo()).CreateEmployee(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "employee_code")
	assert.Contains(t, fields, "full_name")
	assert.Contains(t, fields, "employment_type")
	assert.Contains(t, fields, "join_date")
}

func TestValidateEmployeeCode(t *testing.T) {
	repo := newStubEmployeeRepo()
	repo.byCode["EMP-0001"] = employee.Employee{ID: "e1", EmployeeCode: "EMP-0001"}
	svc := newTestService(repo)

	taken, err := svc.ValidateEmployeeCode(context.Background(), "emp-0001")
	require.NoError(t, err)
	assert.True(t, taken.Valid)
	assert.False(t, taken.Available)

	free, err := svc.ValidateEmployeeCode(context.Background(), "EMP-0002")
	require.NoError(t, err)
	assert.True(t, free.Available)

	malformed, err := svc.ValidateEmployeeCode(context.Background(), "0002")
	require.NoError(t, err)
	assert.False(t, malformed.Valid)
	assert.False(t, malformed.Available)
}

func TestListEmployees_RejectsBadFilter(t *testing.T) {
	_, err := newTestService(newStubEmployeeRepo()).ListEmployees(context.Background(), employee.EmployeeFilter{Page: 0, Limit: 500})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestListDepartments(t *testing.T) {
	departments, err := newTestService(newStubEmployeeRepo()).ListDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, 3, departments[0].ActiveEmployees)
}
