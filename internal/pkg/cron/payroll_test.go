package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPayrollService struct {
	payroll.PayrollService
	requests []payroll.GeneratePayrollRequest
	err      error
}

func (s *recordingPayrollService) GeneratePayroll(_ context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return payroll.GeneratePayrollResponse{}, s.err
	}
	return payroll.GeneratePayrollResponse{PeriodMonth: req.PeriodMonth, PeriodYear: req.PeriodYear}, nil
}

func TestGeneratePreviousMonth_OncePerPeriod(t *testing.T) {
	svc := &recordingPayrollService{}
	jobs := NewPayrollJobs(svc, time.Hour)
	now := time.Date(2024, time.January, 3, 2, 0, 0, 0, time.UTC)
	jobs.now = func() time.Time { return now }

	require.NoError(t, jobs.GeneratePreviousMonth(context.Background()))
	require.NoError(t, jobs.GeneratePreviousMonth(context.Background()))

	require.Len(t, svc.requests, 1)
	assert.Equal(t, 12, svc.requests[0].PeriodMonth)
	assert.Equal(t, 2023, svc.requests[0].PeriodYear)
	require.NotNil(t, svc.requests[0].Notes)

	now = time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, jobs.GeneratePreviousMonth(context.Background()))
	require.Len(t, svc.requests, 2)
	assert.Equal(t, 1, svc.requests[1].PeriodMonth)
}

func TestGeneratePreviousMonth_RetriesAfterFailure(t *testing.T) {
	svc := &recordingPayrollService{err: errors.New("database unavailable")}
	jobs := NewPayrollJobs(svc, time.Hour)
	jobs.now = func() time.Time { return time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC) }

	assert.Error(t, jobs.GeneratePreviousMonth(context.Background()))

	svc.err = nil
	require.NoError(t, jobs.GeneratePreviousMonth(context.Background()))
	assert.Len(t, svc.requests, 2)
}

func TestPayrollJobs_RegisterJobs(t *testing.T) {
	s := NewScheduler(context.Background())
	NewPayrollJobs(&recordingPayrollService{}, 6*time.Hour).RegisterJobs(s)

	require.Len(t, s.jobs, 1)
	assert.Equal(t, "generate_previous_month_payroll", s.jobs[0].Name)
	assert.Equal(t, 6*time.Hour, s.jobs[0].Interval)
}
