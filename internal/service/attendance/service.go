package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
	"github.com/saiharipapers/factory-erp/internal/domain/employee"
	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
	}
}

func (s *AttendanceServiceImpl) ensureEmployee(ctx context.Context, employeeID string) error {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}
	return nil
}

func validatePeriod(year, month int) error {
	if !validator.IsValidPeriod(year, month) {
		return validator.ValidationErrors{{Field: "period", Message: "year and month must name a valid month"}}
	}
	return nil
}

func toDayResponse(e attendance.Entry) attendance.DayResponse {
	return attendance.DayResponse{
		Date:   e.Date.Format("2006-01-02"),
		Status: string(e.Status),
		Hours:  e.Hours,
		Notes:  e.Notes,
	}
}

// Mark implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}
	if err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return attendance.DayResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	status, _ := attendance.ParseStatus(req.Status)

	// only present days carry hours
	hours := decimal.Zero
	if status == attendance.StatusPresent {
		hours = attendance.DefaultPresentHours
		if req.Hours != nil {
			hours = req.Hours.Round(1)
		}
	}

	saved, err := s.attendanceRepo.Upsert(ctx, attendance.Entry{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Status:     status,
		Hours:      hours,
		Notes:      req.Notes,
	})
	if err != nil {
		return attendance.DayResponse{}, err
	}

	return toDayResponse(saved), nil
}

// Unmark implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Unmark(ctx context.Context, employeeID string, date string) error {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return attendance.ErrInvalidDate
	}
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return err
	}
	return s.attendanceRepo.Delete(ctx, employeeID, day)
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, employeeID string, year, month int) (attendance.AttendanceResponse, error) {
	if err := validatePeriod(year, month); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	entries, err := s.attendanceRepo.GetByEmployeePeriod(ctx, employeeID, year, month)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	days := make([]attendance.DayResponse, 0, len(entries))
	for _, e := range entries {
		days = append(days, toDayResponse(e))
	}

	return attendance.AttendanceResponse{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
		Days:       days,
	}, nil
}

// GetSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, employeeID string, year, month int) (attendance.SummaryResponse, error) {
	if err := validatePeriod(year, month); err != nil {
		return attendance.SummaryResponse{}, err
	}
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return attendance.SummaryResponse{}, err
	}

	entries, err := s.attendanceRepo.GetByEmployeePeriod(ctx, employeeID, year, month)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	agg := attendance.AggregatePeriod(entries, year, month)
	return attendance.NewSummaryResponse(employeeID, year, month, agg), nil
}
