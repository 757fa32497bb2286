package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/saiharipapers/factory-erp/internal/domain/payroll"
)

const autoGenerateNote = "generated automatically"

// PayrollJobs drafts payroll for the month that just closed.
type PayrollJobs struct {
	payrollService payroll.PayrollService
	interval       time.Duration
	now            func() time.Time

	mu       sync.Mutex
	lastDone string
}

func NewPayrollJobs(payrollService payroll.PayrollService, interval time.Duration) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		interval:       interval,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("generate_previous_month_payroll", j.interval, j.GeneratePreviousMonth)
}

// GeneratePreviousMonth creates drafts for last month once per period. Employees
// that already have a record are skipped by the service, so reruns are harmless.
func (j *PayrollJobs) GeneratePreviousMonth(ctx context.Context) error {
	year, month := payroll.PreviousPeriod(j.now())
	period := fmt.Sprintf("%04d-%02d", year, month)

	j.mu.Lock()
	done := j.lastDone == period
	j.mu.Unlock()
	if done {
		return nil
	}

	slog.Info("Cron: Generating payroll drafts", "period", period)

	note := autoGenerateNote
	resp, err := j.payrollService.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{
		PeriodMonth: month,
		PeriodYear:  year,
		Notes:       &note,
	})
	if err != nil {
		return fmt.Errorf("failed to generate payroll for %s: %w", period, err)
	}

	j.mu.Lock()
	j.lastDone = period
	j.mu.Unlock()

	slog.Info("Cron: Payroll drafts generated", "period", period, "created", len(resp.Created), "skipped", len(resp.Skipped))
	return nil
}
