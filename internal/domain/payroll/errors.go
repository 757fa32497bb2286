package payroll

import "errors"

var (
	ErrUnknownCalculationMethod   = errors.New("unknown salary calculation method")
	ErrCompensationNotFound       = errors.New("no active compensation structure for employee")
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrCannotDeletePaidRecord     = errors.New("cannot delete paid payroll record")
	ErrEmployeeNotFound           = errors.New("employee not found")
	ErrNothingToFinalize          = errors.New("no draft payroll records matched")
	ErrCompensationConflict       = errors.New("compensation structure was changed concurrently")
)
