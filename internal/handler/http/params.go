package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/saiharipapers/factory-erp/internal/pkg/validator"
)

// periodFromQuery reads year and month query params, defaulting to the current month.
func periodFromQuery(r *http.Request, yearKey, monthKey string) (year, month int, err error) {
	now := time.Now()
	year, month = now.Year(), int(now.Month())

	var errs validator.ValidationErrors
	if s := r.URL.Query().Get(yearKey); s != "" {
		if year, err = strconv.Atoi(s); err != nil {
			errs.Add(yearKey, "must be a number")
		}
	}
	if s := r.URL.Query().Get(monthKey); s != "" {
		if month, err = strconv.Atoi(s); err != nil {
			errs.Add(monthKey, "must be a number")
		}
	}
	return year, month, errs.Err()
}

func pageFromQuery(r *http.Request) (page, limit int) {
	page, limit = 1, 20
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	return page, limit
}
