package attendance

import (
	"math"

	"github.com/shopspring/decimal"
)

const maxHoursPerDay = 24

var hundred = decimal.NewFromInt(100)

// ComputeAggregate counts statuses and sums the hours of present days.
//
// Malformed input never fails: an hours entry that is NaN, infinite or outside
// [0,24] contributes 0 for its date, unknown statuses count toward nothing,
// and an empty record yields an all-zero aggregate.
func ComputeAggregate(record Record) Aggregate {
	var agg Aggregate

	for _, status := range record.Statuses {
		switch status {
		case StatusPresent:
			agg.PresentDays++
		case StatusAbsent:
			agg.AbsentDays++
		case StatusLeave:
			agg.LeaveDays++
		}
	}

	totalHours := decimal.Zero
	for date, hours := range record.Hours {
		if record.Statuses[date] != StatusPresent {
			continue
		}
		totalHours = totalHours.Add(sanitizeHours(hours))
	}
	agg.TotalHours = totalHours.Round(1)

	totalDays := agg.TotalDays()
	agg.AttendancePercentage = percentage(agg.PresentDays, totalDays)
	agg.AbsencePercentage = percentage(agg.AbsentDays, totalDays)

	return agg
}

func sanitizeHours(hours float64) decimal.Decimal {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 || hours > maxHoursPerDay {
		return decimal.Zero
	}
	return decimal.NewFromFloat(hours)
}

// percentage is part/total*100 rounded to one decimal and clamped to [0,100]; 0 when total is 0.
func percentage(part, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	pct := decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(1)
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// AggregatePeriod aggregates stored entries, ignoring any outside year/month.
func AggregatePeriod(entries []Entry, year, month int) Aggregate {
	return ComputeAggregate(RecordFromEntries(entries).InPeriod(year, month))
}
