package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saiharipapers/factory-erp/internal/domain/attendance"
	"github.com/saiharipapers/factory-erp/internal/handler/http/response"
)

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	Unmark(w http.ResponseWriter, r *http.Request)
	GetAttendance(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// Mark implements AttendanceHandler
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")
	req.Date = chi.URLParam(r, "date")

	result, err := h.attendanceService.Mark(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Unmark implements AttendanceHandler
func (h *attendanceHandlerImpl) Unmark(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.Unmark(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "date")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance entry cleared", nil)
}

// GetAttendance implements AttendanceHandler
func (h *attendanceHandlerImpl) GetAttendance(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromQuery(r, "year", "month")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetAttendance(r.Context(), chi.URLParam(r, "id"), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSummary implements AttendanceHandler
func (h *attendanceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromQuery(r, "year", "month")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetSummary(r.Context(), chi.URLParam(r, "id"), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
