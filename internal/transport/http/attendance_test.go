package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/app"
	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
)

func TestHandleRegisterAttendance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"eventId":"e1","attendees":[{"name":"Ana","present":true,"isVisitor":true}]}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"created":1`,
		},
		{
			name:           "invalid json",
			body:           `{"eventId":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field rejected",
			body:           `{"eventId":"e1","extra":true}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing event id",
			body:           `{"attendees":[{"name":"Ana","present":true}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unresolvable attendee",
			body:           `{"eventId":"e1","attendees":[{"present":true}]}`,
			serviceErr:     domain.ErrAttendeeUnresolvable,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"attendee_unresolvable"`,
		},
		{
			name:           "event not found",
			body:           `{"eventId":"e1","attendees":[{"name":"Ana","present":true}]}`,
			serviceErr:     domain.ErrEventNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "internal error",
			body:           `{"eventId":"e1","attendees":[{"name":"Ana","present":true}]}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubRegistrar{
				result: app.RegisterResult{Created: 1, TotalPresent: 1, VisitorsCount: 1},
				err:    tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, "/attendance/register", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleRegisterAttendance(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleRegisterAttendance_ForwardsInput(t *testing.T) {
	t.Parallel()

	svc := &stubRegistrar{}
	body := `{"eventId":"e1","attendees":[{"participantId":"p1","present":true},{"name":"Ana","present":false,"isVisitor":true}]}`
	req := httptest.NewRequest(http.MethodPost, "/attendance/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	HandleRegisterAttendance(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	in := svc.lastInput
	if in.EventID != "e1" || len(in.Attendees) != 2 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.Attendees[0].ParticipantID != "p1" || !in.Attendees[0].Present {
		t.Errorf("first attendee = %+v", in.Attendees[0])
	}
	if in.Attendees[1].Name != "Ana" || !in.Attendees[1].IsVisitor {
		t.Errorf("second attendee = %+v", in.Attendees[1])
	}
}

func TestHandleUpdateAttendance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "success",
			body:           `{"present":false}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid json",
			body:           `{"present":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not found",
			body:           `{"present":true}`,
			serviceErr:     domain.ErrAttendanceNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAttendanceCRUD{err: tt.serviceErr}
			rec := httptest.NewRecorder()
			req := newChiRequest(http.MethodPut, "/attendance/a1", tt.body, map[string]string{"id": "a1"})

			HandleUpdateAttendance(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func TestHandleCreateAttendance_DuplicateConflict(t *testing.T) {
	t.Parallel()

	svc := &stubAttendanceCRUD{err: domain.ErrDuplicateAttendance}
	req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewBufferString(`{"eventId":"e1","participantId":"p1","present":true}`))
	rec := httptest.NewRecorder()

	HandleCreateAttendance(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestHandleDeleteAttendance(t *testing.T) {
	t.Parallel()

	svc := &stubAttendanceCRUD{}
	rec := httptest.NewRecorder()
	req := newChiRequest(http.MethodDelete, "/attendance/a1", "", map[string]string{"id": "a1"})

	HandleDeleteAttendance(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
}

// newChiRequest builds a request whose chi URL params resolve outside a
// router.
func newChiRequest(method, target, body string, params map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type stubRegistrar struct {
	result    app.RegisterResult
	err       error
	lastInput app.RegisterInput
}

func (s *stubRegistrar) Register(_ context.Context, in app.RegisterInput) (app.RegisterResult, error) {
	s.lastInput = in
	if s.err != nil {
		return app.RegisterResult{}, s.err
	}
	return s.result, nil
}

type stubAttendanceCRUD struct {
	attendance domain.Attendance
	details    []app.AttendanceDetail
	err        error
}

func (s *stubAttendanceCRUD) Create(_ context.Context, _ app.CreateAttendanceInput) (domain.Attendance, error) {
	return s.attendance, s.err
}

func (s *stubAttendanceCRUD) Get(_ context.Context, _ string) (domain.Attendance, error) {
	return s.attendance, s.err
}

func (s *stubAttendanceCRUD) UpdatePresence(_ context.Context, _ string, _ bool) (domain.Attendance, error) {
	return s.attendance, s.err
}

func (s *stubAttendanceCRUD) Delete(_ context.Context, _ string) error {
	return s.err
}

func (s *stubAttendanceCRUD) List(_ context.Context) ([]app.AttendanceDetail, error) {
	return s.details, s.err
}
