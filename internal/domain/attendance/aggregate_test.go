package attendance

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAggregate_CountsStatuses(t *testing.T) {
	record := Record{
		Statuses: map[string]Status{
			"2024-01-01": StatusPresent,
			"2024-01-02": StatusPresent,
			"2024-01-03": StatusAbsent,
			"2024-01-04": StatusLeave,
		},
		Hours: map[string]float64{
			"2024-01-01": 8,
			"2024-01-02": 9.5,
		},
	}

	agg := ComputeAggregate(record)

	assert.Equal(t, 2, agg.PresentDays)
	assert.Equal(t, 1, agg.AbsentDays)
	assert.Equal(t, 1, agg.LeaveDays)
	assert.Equal(t, "17.5", agg.TotalHours.String())
	assert.Equal(t, "50", agg.AttendancePercentage.String())
	assert.Equal(t, "25", agg.AbsencePercentage.String())
}

func TestComputeAggregate_IgnoresHoursOfNonPresentDays(t *testing.T) {
	record := Record{
		Statuses: map[string]Status{
			"2024-01-01": StatusPresent,
			"2024-01-02": StatusAbsent,
			"2024-01-03": StatusLeave,
		},
		Hours: map[string]float64{
			"2024-01-01": 8,
			"2024-01-02": 8,
			"2024-01-03": 8,
			"2024-01-04": 8, // no status at all
		},
	}

	agg := ComputeAggregate(record)

	assert.Equal(t, "8", agg.TotalHours.String())
}

func TestComputeAggregate_DegradedHours(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
	}{
		{"negative", -4},
		{"above a day", 25},
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Record{
				Statuses: map[string]Status{"2024-01-01": StatusPresent, "2024-01-02": StatusPresent},
				Hours:    map[string]float64{"2024-01-01": tt.hours, "2024-01-02": 6},
			}

			agg := ComputeAggregate(record)

			assert.Equal(t, "6", agg.TotalHours.String())
			assert.Equal(t, 2, agg.PresentDays)
		})
	}
}

func TestComputeAggregate_BoundaryHoursAreKept(t *testing.T) {
	record := Record{
		Statuses: map[string]Status{"2024-01-01": StatusPresent, "2024-01-02": StatusPresent},
		Hours:    map[string]float64{"2024-01-01": 0, "2024-01-02": 24},
	}

	assert.Equal(t, "24", ComputeAggregate(record).TotalHours.String())
}

func TestComputeAggregate_RoundsToOneDecimal(t *testing.T) {
	record := Record{
		Statuses: map[string]Status{"2024-01-01": StatusPresent, "2024-01-02": StatusPresent, "2024-01-03": StatusPresent},
		Hours:    map[string]float64{"2024-01-01": 7.33, "2024-01-02": 7.33, "2024-01-03": 7.33},
	}

	agg := ComputeAggregate(record)

	assert.Equal(t, "22", agg.TotalHours.String())
	assert.Equal(t, "100", agg.AttendancePercentage.String())
}

func TestComputeAggregate_PercentageRounding(t *testing.T) {
	record := Record{
		Statuses: map[string]Status{
			"2024-01-01": StatusPresent,
			"2024-01-02": StatusAbsent,
			"2024-01-03": StatusAbsent,
		},
		Hours: map[string]float64{},
	}

	agg := ComputeAggregate(record)

	assert.Equal(t, "33.3", agg.AttendancePercentage.String())
	assert.Equal(t, "66.7", agg.AbsencePercentage.String())
}

func TestComputeAggregate_EmptyRecord(t *testing.T) {
	agg := ComputeAggregate(Record{})

	assert.Equal(t, 0, agg.TotalDays())
	assert.True(t, agg.TotalHours.IsZero())
	assert.True(t, agg.AttendancePercentage.IsZero())
	assert.True(t, agg.AbsencePercentage.IsZero())
}

func TestComputeAggregate_UnknownStatusCountsTowardNothing(t *testing.T) {
	record := Record{
		Statuses: map[string]Status{"2024-01-01": Status("holiday"), "2024-01-02": StatusPresent},
		Hours:    map[string]float64{"2024-01-01": 8, "2024-01-02": 8},
	}

	agg := ComputeAggregate(record)

	assert.Equal(t, 1, agg.TotalDays())
	assert.Equal(t, "8", agg.TotalHours.String())
}

func TestComputeAggregate_FullMonthStaysWithinBounds(t *testing.T) {
	record := NewRecord()
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 31; i++ {
		key := start.AddDate(0, 0, i).Format(dateLayout)
		record.Statuses[key] = StatusPresent
		record.Hours[key] = 24
	}

	agg := ComputeAggregate(record)

	assert.False(t, agg.TotalHours.IsNegative())
	assert.True(t, agg.TotalHours.LessThanOrEqual(decimal.NewFromInt(24*31)))
	assert.Equal(t, "744", agg.TotalHours.String())
}

func TestRecord_InPeriod(t *testing.T) {
	record := Record{
		Statuses: map[string]Status{
			"2024-01-31": StatusPresent,
			"2024-02-01": StatusPresent,
			"not-a-date": StatusPresent,
		},
		Hours: map[string]float64{
			"2024-01-31": 8,
			"2024-02-01": 8,
			"not-a-date": 8,
		},
	}

	jan := record.InPeriod(2024, 1)

	require.Len(t, jan.Statuses, 1)
	assert.Equal(t, StatusPresent, jan.Statuses["2024-01-31"])
	assert.Len(t, jan.Hours, 1)
	assert.Len(t, record.Statuses, 3, "source record must not be modified")
}

func TestRecordFromEntries(t *testing.T) {
	entries := []Entry{
		{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Status: StatusPresent, Hours: decimal.RequireFromString("7.5")},
		{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Status: StatusLeave, Hours: decimal.Zero},
	}

	record := RecordFromEntries(entries)

	assert.Equal(t, StatusPresent, record.Statuses["2024-03-04"])
	assert.Equal(t, 7.5, record.Hours["2024-03-04"])
	assert.Equal(t, StatusLeave, record.Statuses["2024-03-05"])
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"present", StatusPresent},
		{"P", StatusPresent},
		{" Absent ", StatusAbsent},
		{"a", StatusAbsent},
		{"LEAVE", StatusLeave},
		{"l", StatusLeave},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("parse %q", tt.input), func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStatus("holiday")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
