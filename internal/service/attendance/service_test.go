package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
	"github.com/saiharipapers/factory-erp/internal/domain/employee"
	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryAttendanceRepo struct {
	entries map[string]attendance.Entry
}

func entryKey(employeeID string, date time.Time) string {
	return employeeID + "/" + date.Format("2006-01-02")
}

func (r *memoryAttendanceRepo) Upsert(_ context.Context, e attendance.Entry) (attendance.Entry, error) {
	r.entries[entryKey(e.EmployeeID, e.Date)] = e
	return e, nil
}

func (r *memoryAttendanceRepo) Delete(_ context.Context, employeeID string, date time.Time) error {
	key := entryKey(employeeID, date)
	if _, ok := r.entries[key]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.entries, key)
	return nil
}

func (r *memoryAttendanceRepo) GetByEmployeePeriod(_ context.Context, employeeID string, year, month int) ([]attendance.Entry, error) {
	var out []attendance.Entry
	for _, e := range r.entries {
		if e.EmployeeID == employeeID && e.Date.Year() == year && int(e.Date.Month()) == month {
			out = append(out, e)
		}
	}
	return out, nil
}

type singleEmployeeRepo struct {
	employee.EmployeeRepository
	id string
}

func (r singleEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if id != r.id {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id}, nil
}

func newTestService() (attendance.AttendanceService, *memoryAttendanceRepo) {
	repo := &memoryAttendanceRepo{entries: map[string]attendance.Entry{}}
	return NewAttendanceService(repo, singleEmployeeRepo{id: "e1"}), repo
}

func mark(t *testing.T, svc attendance.AttendanceService, date, status string, hours *decimal.Decimal) attendance.DayResponse {
	t.Helper()
	day, err := svc.Mark(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID: "e1",
		Date:       date,
		Status:     status,
		Hours:      hours,
	})
	require.NoError(t, err)
	return day
}

func TestMark_DefaultsAndOverwrites(t *testing.T) {
	svc, repo := newTestService()

	day := mark(t, svc, "2024-01-02", "P", nil)
	assert.Equal(t, "present", day.Status)
	assert.True(t, day.Hours.Equal(attendance.DefaultPresentHours))

	hours := decimal.RequireFromString("9.46")
	day = mark(t, svc, "2024-01-02", "present", &hours)
	assert.Equal(t, "9.5", day.Hours.String())
	assert.Len(t, repo.entries, 1)

	day = mark(t, svc, "2024-01-02", "absent", nil)
	assert.True(t, day.Hours.IsZero())
	assert.Len(t, repo.entries, 1)
}

func TestMark_NonPresentDaysStoreZeroHours(t *testing.T) {
	svc, repo := newTestService()
	hours := decimal.NewFromInt(8)

	for _, status := range []string{"absent", "leave"} {
		t.Run(status, func(t *testing.T) {
			day := mark(t, svc, "2024-01-03", status, &hours)
			assert.True(t, day.Hours.IsZero())

			stored := repo.entries[entryKey("e1", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))]
			assert.Equal(t, attendance.Status(status), stored.Status)
			assert.True(t, stored.Hours.IsZero())
		})
	}
}

func TestMark_Rejections(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tooMany := decimal.NewFromInt(25)
	_, err := svc.Mark(ctx, attendance.MarkAttendanceRequest{EmployeeID: "e1", Date: "2024-02-30", Status: "holiday", Hours: &tooMany})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)

	_, err = svc.Mark(ctx, attendance.MarkAttendanceRequest{EmployeeID: "e2", Date: "2024-02-01", Status: "present"})
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}

func TestUnmark(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	mark(t, svc, "2024-01-02", "leave", nil)

	require.NoError(t, svc.Unmark(ctx, "e1", "2024-01-02"))
	assert.Empty(t, repo.entries)

	assert.ErrorIs(t, svc.Unmark(ctx, "e1", "2024-01-02"), attendance.ErrAttendanceNotFound)
	assert.ErrorIs(t, svc.Unmark(ctx, "e1", "yesterday"), attendance.ErrInvalidDate)
}

func TestGetSummary(t *testing.T) {
	svc, _ := newTestService()
	seven := decimal.NewFromInt(7)
	mark(t, svc, "2024-03-01", "present", nil)
	mark(t, svc, "2024-03-02", "present", &seven)
	mark(t, svc, "2024-03-03", "absent", nil)
	mark(t, svc, "2024-03-04", "leave", nil)
	mark(t, svc, "2024-04-01", "present", nil)

	summary, err := svc.GetSummary(context.Background(), "e1", 2024, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.PresentDays)
	assert.Equal(t, 1, summary.AbsentDays)
	assert.Equal(t, 1, summary.LeaveDays)
	assert.Equal(t, "15", summary.TotalHours.String())
	assert.Equal(t, "50", summary.AttendancePercentage.String())

	_, err = svc.GetSummary(context.Background(), "e1", 2024, 13)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestGetAttendance(t *testing.T) {
	svc, _ := newTestService()
	mark(t, svc, "2024-03-01", "present", nil)

	resp, err := svc.GetAttendance(context.Background(), "e1", 2024, 3)
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "2024-03-01", resp.Days[0].Date)

	_, err = svc.GetAttendance(context.Background(), "e9", 2024, 3)
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}
