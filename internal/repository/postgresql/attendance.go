package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
	"github.com/saiharipapers/factory-erp/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, entry attendance.Entry) (attendance.Entry, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_entries (employee_id, date, status, hours, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			hours = EXCLUDED.hours,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id, employee_id, date, status, hours, notes, created_at, updated_at
	`

	var saved attendance.Entry
	err := q.QueryRow(ctx, query, entry.EmployeeID, entry.Date, entry.Status, entry.Hours, entry.Notes).Scan(
		&saved.ID, &saved.EmployeeID, &saved.Date, &saved.Status, &saved.Hours, &saved.Notes,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return attendance.Entry{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return saved, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, employeeID string, date time.Time) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_entries WHERE employee_id = $1 AND date = $2`, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// GetByEmployeePeriod implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, year, month int) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, a.db)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT id, employee_id, date, status, hours, notes, created_at, updated_at
		FROM attendance_entries
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	defer rows.Close()

	var entries []attendance.Entry
	for rows.Next() {
		var entry attendance.Entry
		if err := rows.Scan(
			&entry.ID, &entry.EmployeeID, &entry.Date, &entry.Status, &entry.Hours, &entry.Notes,
			&entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
