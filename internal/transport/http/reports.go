package http

import (
	"context"
	"net/http"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/app"
	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
)

// ReportService is the surface the report endpoints need.
type ReportService interface {
	Monthly(ctx context.Context, category domain.Category, month, year int) (app.MonthlyReport, error)
	Weekly(ctx context.Context, category domain.Category, reference time.Time) (app.WeeklyReport, error)
}

func HandleMonthlyReport(svc ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, month, year, ok := monthlyQuery(w, r)
		if !ok {
			return
		}
		report, err := svc.Monthly(r.Context(), category, month, year)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func HandleWeeklyReport(svc ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, reference, ok := weeklyQuery(w, r)
		if !ok {
			return
		}
		report, err := svc.Weekly(r.Context(), category, reference)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func writeReportError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidCategory:
		writeError(w, http.StatusBadRequest, codeInvalidCategory, err.Error())
	case domain.ErrInvalidMonth:
		writeError(w, http.StatusBadRequest, codeInvalidMonth, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
