package payroll

import (
	"testing"
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayrollRecord_SnapshotsCalculation(t *testing.T) {
	s := monthlyStructure("26000")
	s.DisbursementType = DisbursementESI
	agg := attendance.Aggregate{PresentDays: 24, AbsentDays: 1, LeaveDays: 1, TotalHours: dec("192")}
	adj := PayrollAdjustments{ESICashAmount: dec("1000"), Fines: []Fine{{ID: "f1", Amount: dec("100"), Reason: "late"}}}

	result, err := Calculate(s, agg, adj)
	require.NoError(t, err)

	record := NewPayrollRecord("e1", 2024, 5, agg, result)

	assert.Equal(t, PayrollStatusDraft, record.Status)
	assert.Equal(t, 5, record.PeriodMonth)
	assert.Equal(t, 2024, record.PeriodYear)
	assert.Equal(t, 24, record.PresentDays)
	assertDecimal(t, "192", record.TotalHours)
	assertDecimal(t, result.Gross.GrossSalary.String(), record.GrossSalary)
	assertDecimal(t, result.NetSalary.String(), record.NetSalary)
	assertDecimal(t, "1000", record.CashAmount)
	assert.True(t, record.BankAmount.Add(record.CashAmount).Equal(record.NetSalary))
	assert.Len(t, record.Fines, 1)
	assert.Nil(t, record.PaidAt)
}

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		now       time.Time
		wantYear  int
		wantMonth int
	}{
		{time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 2023, 12},
		{time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC), 2024, 2},
		{time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), 2024, 11},
	}
	for _, tt := range tests {
		year, month := PreviousPeriod(tt.now)
		assert.Equal(t, tt.wantYear, year)
		assert.Equal(t, tt.wantMonth, month)
	}
}
