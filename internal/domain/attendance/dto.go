package attendance

import (
	"strings"

	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DefaultPresentHours is recorded when a day is marked present without explicit hours.
var DefaultPresentHours = decimal.NewFromInt(8)

type MarkAttendanceRequest struct {
	EmployeeID string           `json:"-"`
	Date       string           `json:"-"`
	Status     string           `json:"status"`
	Hours      *decimal.Decimal `json:"hours,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "must be in YYYY-MM-DD format")
	}
	if _, err := ParseStatus(r.Status); err != nil {
		errs.Add("status", "must be present, absent or leave")
	}
	if r.Hours != nil && (r.Hours.IsNegative() || r.Hours.GreaterThan(decimal.NewFromInt(maxHoursPerDay))) {
		errs.Add("hours", "must be between 0 and 24")
	}
	if r.Notes != nil && len(strings.TrimSpace(*r.Notes)) > 500 {
		errs.Add("notes", "must be at most 500 characters")
	}

	return errs.Err()
}

type DayResponse struct {
	Date   string          `json:"date"`
	Status string          `json:"status"`
	Hours  decimal.Decimal `json:"hours"`
	Notes  *string         `json:"notes,omitempty"`
}

type AttendanceResponse struct {
	EmployeeID string        `json:"employee_id"`
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	Days       []DayResponse `json:"days"`
}

type SummaryResponse struct {
	EmployeeID           string          `json:"employee_id"`
	Year                 int             `json:"year"`
	Month                int             `json:"month"`
	PresentDays          int             `json:"present_days"`
	AbsentDays           int             `json:"absent_days"`
	LeaveDays            int             `json:"leave_days"`
	TotalHours           decimal.Decimal `json:"total_hours"`
	AttendancePercentage decimal.Decimal `json:"attendance_percentage"`
	AbsencePercentage    decimal.Decimal `json:"absence_percentage"`
}

func NewSummaryResponse(employeeID string, year, month int, agg Aggregate) SummaryResponse {
	return SummaryResponse{
		EmployeeID:           employeeID,
		Year:                 year,
		Month:                month,
		PresentDays:          agg.PresentDays,
		AbsentDays:           agg.AbsentDays,
		LeaveDays:            agg.LeaveDays,
		TotalHours:           agg.TotalHours,
		AttendancePercentage: agg.AttendancePercentage,
		AbsencePercentage:    agg.AbsencePercentage,
	}
}
