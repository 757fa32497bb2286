package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert marks a single day, replacing any previous mark for the same employee and date.
	Upsert(ctx context.Context, entry Entry) (Entry, error)
	Delete(ctx context.Context, employeeID string, date time.Time) error
	GetByEmployeePeriod(ctx context.Context, employeeID string, year, month int) ([]Entry, error)
}
