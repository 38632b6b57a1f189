package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/app"
	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
)

func TestHandleMonthlyReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			target:         "/reports/monthly?category=YOUTH&month=3&year=2025",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"totalEvents":2`,
		},
		{
			name:           "invalid category",
			target:         "/reports/monthly?category=BINGO&month=3&year=2025",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing month",
			target:         "/reports/monthly?category=YOUTH&year=2025",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "internal error",
			target:         "/reports/monthly?category=YOUTH&month=3&year=2025",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubReportService{
				monthly: app.MonthlyReport{Month: 3, Year: 2025, Category: domain.CategoryYouth, TotalEvents: 2},
				err:     tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()

			HandleMonthlyReport(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleWeeklyReport(t *testing.T) {
	t.Parallel()

	svc := &stubReportService{
		weekly: app.WeeklyReport{
			WeekStart: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			Category:  domain.CategoryWorship,
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/reports/weekly?category=WORSHIP&date=2025-03-05", nil)
	rec := httptest.NewRecorder()
	HandleWeeklyReport(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"weekStart"`) {
		t.Fatalf("expected weekStart in body, got %q", rec.Body.String())
	}

	badReq := httptest.NewRequest(http.MethodGet, "/reports/weekly?category=WORSHIP&date=soon", nil)
	badRec := httptest.NewRecorder()
	HandleWeeklyReport(svc).ServeHTTP(badRec, badReq)
	if badRec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", badRec.Code)
	}
}

type stubReportService struct {
	monthly app.MonthlyReport
	weekly  app.WeeklyReport
	err     error
}

func (s *stubReportService) Monthly(_ context.Context, _ domain.Category, _, _ int) (app.MonthlyReport, error) {
	return s.monthly, s.err
}

func (s *stubReportService) Weekly(_ context.Context, _ domain.Category, _ time.Time) (app.WeeklyReport, error) {
	return s.weekly, s.err
}
