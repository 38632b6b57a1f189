package http

import (
	"bytes"
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

func TestHandleCreateEvent(t *testing.T) {
	t.Parallel()

	created := domain.Event{
		ID:       "e1",
		Name:     "Youth night",
		Category: domain.CategoryYouth,
		Date:     time.Date(2025, 3, 7, 19, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"name":"Youth night","category":"YOUTH","date":"2025-03-07T19:00:00Z"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"id":"e1"`,
		},
		{
			name:           "invalid json",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing name",
			body:           `{"category":"YOUTH","date":"2025-03-07T19:00:00Z"}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"event_name_required"`,
		},
		{
			name:           "unknown category",
			body:           `{"name":"Youth night","category":"BINGO","date":"2025-03-07T19:00:00Z"}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_category"`,
		},
		{
			name:           "bad date",
			body:           `{"name":"Youth night","category":"YOUTH","date":"next friday"}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_date"`,
		},
		{
			name:           "internal error",
			body:           `{"name":"Youth night","category":"YOUTH","date":"2025-03-07T19:00:00Z"}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubEventService{event: created, err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleCreateEvent(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleListEvents_CategoryFilter(t *testing.T) {
	t.Parallel()

	svc := &stubEventService{}

	req := httptest.NewRequest(http.MethodGet, "/events?category=PRAYER", nil)
	rec := httptest.NewRecorder()
	HandleListEvents(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.listCategory == nil || *svc.listCategory != domain.CategoryPrayer {
		t.Fatalf("expected PRAYER filter, got %v", svc.listCategory)
	}

	badReq := httptest.NewRequest(http.MethodGet, "/events?category=BINGO", nil)
	badRec := httptest.NewRecorder()
	HandleListEvents(svc).ServeHTTP(badRec, badReq)
	if badRec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", badRec.Code)
	}
}

func TestHandleMonthlyEvents_QueryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		expectedStatus int
	}{
		{"success", "/events/monthly?category=YOUTH&month=3&year=2025", http.StatusOK},
		{"missing category", "/events/monthly?month=3&year=2025", http.StatusBadRequest},
		{"month out of range", "/events/monthly?category=YOUTH&month=13&year=2025", http.StatusBadRequest},
		{"month not a number", "/events/monthly?category=YOUTH&month=march&year=2025", http.StatusBadRequest},
		{"year not a number", "/events/monthly?category=YOUTH&month=3&year=now", http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubEventService{}
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()

			HandleMonthlyEvents(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleWeeklyEvents_AcceptsPlainDate(t *testing.T) {
	t.Parallel()

	svc := &stubEventService{}

	req := httptest.NewRequest(http.MethodGet, "/events/weekly?category=WORSHIP&date=2025-03-05", nil)
	rec := httptest.NewRecorder()
	HandleWeeklyEvents(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.weeklyRef.Equal(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("reference = %v", svc.weeklyRef)
	}
}

func TestHandleNextEvent_NullWhenNone(t *testing.T) {
	t.Parallel()

	svc := &stubEventService{}
	req := httptest.NewRequest(http.MethodGet, "/events/next?category=YOUTH", nil)
	rec := httptest.NewRecorder()

	HandleNextEvent(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "null" {
		t.Fatalf("expected null body, got %q", rec.Body.String())
	}
}

func TestHandleUpdateEvent(t *testing.T) {
	t.Parallel()

	t.Run("partial update", func(t *testing.T) {
		svc := &stubEventService{event: domain.Event{ID: "e1", Name: "Renamed"}}
		rec := httptest.NewRecorder()
		req := newChiRequest(http.MethodPatch, "/events/e1", `{"name":"Renamed"}`, map[string]string{"id": "e1"})

		HandleUpdateEvent(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.lastUpdate.Name == nil || *svc.lastUpdate.Name != "Renamed" {
			t.Errorf("update input = %+v", svc.lastUpdate)
		}
		if svc.lastUpdate.Category != nil || svc.lastUpdate.Date != nil {
			t.Errorf("unset fields should stay nil: %+v", svc.lastUpdate)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubEventService{err: domain.ErrEventNotFound}
		rec := httptest.NewRecorder()
		req := newChiRequest(http.MethodPatch, "/events/e1", `{"name":"Renamed"}`, map[string]string{"id": "e1"})

		HandleUpdateEvent(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}

type stubEventService struct {
	event  domain.Event
	events []domain.Event
	next   *domain.Event
	err    error

	listCategory *domain.Category
	weeklyRef    time.Time
	lastUpdate   app.UpdateEventInput
}

func (s *stubEventService) Create(_ context.Context, _ app.CreateEventInput) (domain.Event, error) {
	return s.event, s.err
}

func (s *stubEventService) Get(_ context.Context, _ string) (domain.Event, error) {
	return s.event, s.err
}

func (s *stubEventService) Update(_ context.Context, _ string, in app.UpdateEventInput) (domain.Event, error) {
	s.lastUpdate = in
	return s.event, s.err
}

func (s *stubEventService) Delete(_ context.Context, _ string) error {
	return s.err
}

func (s *stubEventService) List(_ context.Context, category *domain.Category) ([]domain.Event, error) {
	s.listCategory = category
	return s.events, s.err
}

func (s *stubEventService) Monthly(_ context.Context, _ domain.Category, _, _ int) ([]domain.Event, error) {
	return s.events, s.err
}

func (s *stubEventService) Weekly(_ context.Context, _ domain.Category, reference time.Time) ([]domain.Event, error) {
	s.weeklyRef = reference
	return s.events, s.err
}

func (s *stubEventService) Next(_ context.Context, _ domain.Category) (*domain.Event, error) {
	return s.next, s.err
}

func (s *stubEventService) Upcoming(_ context.Context) ([]domain.Event, error) {
	return s.events, s.err
}

func (s *stubEventService) Past(_ context.Context) ([]domain.Event, error) {
	return s.events, s.err
}

func (s *stubEventService) Dashboard(_ context.Context, category *domain.Category) (app.Dashboard, error) {
	return app.Dashboard{Category: category}, s.err
}
