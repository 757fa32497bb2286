package attendance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Status enum
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

// ParseStatus accepts the full status name or the calendar short code (P, A, L).
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "p":
		return StatusPresent, nil
	case "absent", "a":
		return StatusAbsent, nil
	case "leave", "l":
		return StatusLeave, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Entry - one marked calendar day for an employee
type Entry struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status
	Hours      decimal.Decimal
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Record maps ISO dates (YYYY-MM-DD) to a status and, in parallel, to hours worked.
// Hours recorded for a date that is not present are kept but never counted.
type Record struct {
	Statuses map[string]Status
	Hours    map[string]float64
}

func NewRecord() Record {
	return Record{
		Statuses: make(map[string]Status),
		Hours:    make(map[string]float64),
	}
}

// RecordFromEntries builds the date-keyed record from stored entries.
func RecordFromEntries(entries []Entry) Record {
	record := NewRecord()
	for _, e := range entries {
		key := e.Date.Format(dateLayout)
		record.Statuses[key] = e.Status
		record.Hours[key] = e.Hours.InexactFloat64()
	}
	return record
}

// InPeriod returns a copy holding only dates that parse and fall inside the given month.
func (r Record) InPeriod(year, month int) Record {
	out := NewRecord()
	inMonth := func(key string) bool {
		d, err := time.Parse(dateLayout, key)
		return err == nil && d.Year() == year && int(d.Month()) == month
	}
	for key, status := range r.Statuses {
		if inMonth(key) {
			out.Statuses[key] = status
		}
	}
	for key, hours := range r.Hours {
		if inMonth(key) {
			out.Hours[key] = hours
		}
	}
	return out
}

// Aggregate - attendance totals consumed by the payroll engine
type Aggregate struct {
	PresentDays          int
	AbsentDays           int
	LeaveDays            int
	TotalHours           decimal.Decimal
	AttendancePercentage decimal.Decimal
	AbsencePercentage    decimal.Decimal
}

// TotalDays is the number of dates carrying any status.
func (a Aggregate) TotalDays() int {
	return a.PresentDays + a.AbsentDays + a.LeaveDays
}
