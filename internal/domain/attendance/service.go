package attendance

import "context"

// AttendanceService defines business logic for the attendance calendar
type AttendanceService interface {
	// Mark sets the status and hours for one day
	Mark(ctx context.Context, req MarkAttendanceRequest) (DayResponse, error)

	// Unmark clears a day so it counts toward no status
	Unmark(ctx context.Context, employeeID string, date string) error

	// GetAttendance returns the calendar for one month
	GetAttendance(ctx context.Context, employeeID string, year, month int) (AttendanceResponse, error)

	// GetSummary returns the aggregate the payroll engine consumes
	GetSummary(ctx context.Context, employeeID string, year, month int) (SummaryResponse, error)
}
