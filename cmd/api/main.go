package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saiharipapers/factory-erp/internal/config"
	appHTTP "github.com/saiharipapers/factory-erp/internal/handler/http"
	"github.com/saiharipapers/factory-erp/internal/pkg/cron"
	"github.com/saiharipapers/factory-erp/internal/pkg/database"
	"github.com/saiharipapers/factory-erp/internal/pkg/jwt"
	"github.com/saiharipapers/factory-erp/internal/pkg/payslip"
	"github.com/saiharipapers/factory-erp/internal/repository/postgresql"
	attendanceService "github.com/saiharipapers/factory-erp/internal/service/attendance"
	employeeService "github.com/saiharipapers/factory-erp/internal/service/employee"
	payrollService "github.com/saiharipapers/factory-erp/internal/service/payroll"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	compensationRepo := postgresql.NewCompensationRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	payslipRenderer := payslip.NewRenderer(cfg.Payslip.CompanyName, cfg.Payslip.Currency)

	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		compensationRepo,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		payslipRenderer,
		cfg.Payroll,
	)

	scheduler := cron.NewScheduler(ctx)
	if cfg.Payroll.AutoGenerate {
		cron.NewPayrollJobs(payrollSvc, cfg.Payroll.AutoGenerateInterval).RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
