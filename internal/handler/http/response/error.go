package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
	"github.com/saiharipapers/factory-erp/internal/domain/auth"
	"github.com/saiharipapers/factory-erp/internal/domain/employee"
	"github.com/saiharipapers/factory-erp/internal/domain/payroll"
	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Administrator role required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, employee.ErrFutureDateNotAllowed):
		BadRequest(w, "Join date cannot be in the future", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance entry not found")
	case errors.Is(err, attendance.ErrInvalidDate):
		BadRequest(w, "Date must be in YYYY-MM-DD format", nil)
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, "Status must be present, absent or leave", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrCompensationNotFound):
		NotFound(w, "No active compensation structure for this employee")
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this period")
	case errors.Is(err, payroll.ErrCannotDeletePaidRecord):
		Conflict(w, "Paid payroll records cannot be deleted")
	case errors.Is(err, payroll.ErrNothingToFinalize):
		Conflict(w, "No draft payroll records to finalize")
	case errors.Is(err, payroll.ErrCompensationConflict):
		Conflict(w, "Compensation structure was changed by another request, please retry")
	case errors.Is(err, payroll.ErrUnknownCalculationMethod):
		BadRequest(w, "Unknown calculation method", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
