package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/saiharipapers/factory-erp/internal/config"
	"github.com/saiharipapers/factory-erp/internal/handler/http/middleware"
	"github.com/saiharipapers/factory-erp/internal/pkg/jwt"
)

func NewRouter(
	appCfg config.AppConfig,
	JWTService jwt.Service,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appCfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "factory-erp"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appCfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  logLevel(appCfg.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/departments", employeeHandler.ListDepartments)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.ListEmployees)
				r.Get("/validate-code", employeeHandler.ValidateEmployeeCode)
				r.With(middleware.AdminOnly).Post("/", employeeHandler.CreateEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", employeeHandler.GetEmployee)

					r.Route("/attendance", func(r chi.Router) {
						r.Get("/", attendanceHandler.GetAttendance)
						r.Get("/summary", attendanceHandler.GetSummary)
						r.Put("/{date}", attendanceHandler.Mark)
						r.Delete("/{date}", attendanceHandler.Unmark)
					})

					r.Route("/compensation", func(r chi.Router) {
						r.Get("/", payrollHandler.GetCompensation)
						r.Get("/history", payrollHandler.ListCompensationHistory)
						r.With(middleware.AdminOnly).Put("/", payrollHandler.SaveCompensation)
					})
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/preview", payrollHandler.PreviewPayroll)
				r.Get("/summary", payrollHandler.GetPayrollSummary)
				r.Get("/register.csv", payrollHandler.ExportRegister)

				r.Route("/records", func(r chi.Router) {
					r.Get("/", payrollHandler.ListPayrollRecords)
					r.Get("/{id}", payrollHandler.GetPayrollRecord)
					r.Get("/{id}/payslip", payrollHandler.DownloadPayslip)
					r.With(middleware.AdminOnly).Delete("/{id}", payrollHandler.DeletePayrollRecord)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/generate", payrollHandler.GeneratePayroll)
					r.Post("/finalize", payrollHandler.FinalizePayroll)
				})
			})
		})
	})

	return r
}

func logLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
