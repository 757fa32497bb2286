package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saiharipapers/factory-erp/internal/domain/payroll"
	"github.com/saiharipapers/factory-erp/internal/handler/http/response"
)

type PayrollHandler interface {
	// Compensation structures
	GetCompensation(w http.ResponseWriter, r *http.Request)
	SaveCompensation(w http.ResponseWriter, r *http.Request)
	ListCompensationHistory(w http.ResponseWriter, r *http.Request)

	// Calculation
	PreviewPayroll(w http.ResponseWriter, r *http.Request)
	GeneratePayroll(w http.ResponseWriter, r *http.Request)

	// Payroll Records
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)
	FinalizePayroll(w http.ResponseWriter, r *http.Request)
	DeletePayrollRecord(w http.ResponseWriter, r *http.Request)

	// Summary and documents
	GetPayrollSummary(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)
	ExportRegister(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== COMPENSATION STRUCTURES ==========

func (h *payrollHandlerImpl) GetCompensation(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetActiveCompensationStructure(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) SaveCompensation(w http.ResponseWriter, r *http.Request) {
	var req payroll.SaveCompensationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.payrollService.SaveCompensationStructure(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Compensation structure saved", result)
}

func (h *payrollHandlerImpl) ListCompensationHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListCompensationHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== CALCULATION ==========

func (h *payrollHandlerImpl) PreviewPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.PreviewPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PreviewPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GeneratePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated", result)
}

// ========== PAYROLL RECORDS ==========

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	result, err := h.payrollService.GetPayrollRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayrollFilter{
		SortBy:    "created_at",
		SortOrder: "desc",
	}
	filter.Page, filter.Limit = pageFromQuery(r)

	q := r.URL.Query()
	if q.Get("period_month") != "" || q.Get("period_year") != "" {
		year, month, err := periodFromQuery(r, "period_year", "period_month")
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if q.Get("period_month") != "" {
			filter.PeriodMonth = &month
		}
		if q.Get("period_year") != "" {
			filter.PeriodYear = &year
		}
	}
	if status := q.Get("status"); status != "" {
		filter.Status = &status
	}
	if employeeID := q.Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if sortBy := q.Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := q.Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	result, err := h.payrollService.ListPayrollRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *payrollHandlerImpl) FinalizePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.FinalizePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.FinalizePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll finalized", result)
}

func (h *payrollHandlerImpl) DeletePayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	if err := h.payrollService.DeletePayrollRecord(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record deleted successfully", nil)
}

// ========== SUMMARY AND DOCUMENTS ==========

func (h *payrollHandlerImpl) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromQuery(r, "period_year", "period_month")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.GetPayrollSummary(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	filename, pdf, err := h.payrollService.RenderPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, "application/pdf", filename, pdf)
}

func (h *payrollHandlerImpl) ExportRegister(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromQuery(r, "period_year", "period_month")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename, csv, err := h.payrollService.ExportRegister(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, "text/csv", filename, csv)
}
