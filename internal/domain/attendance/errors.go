package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidStatus      = errors.New("attendance status must be present, absent or leave")
	ErrInvalidDate        = errors.New("date must be in YYYY-MM-DD format")
	ErrEmployeeNotFound   = errors.New("employee not found")
)
