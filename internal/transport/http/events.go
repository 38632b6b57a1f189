package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/app"
	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// EventService is the surface the event endpoints need.
type EventService interface {
	Create(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	Get(ctx context.Context, id string) (domain.Event, error)
	Update(ctx context.Context, id string, in app.UpdateEventInput) (domain.Event, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, category *domain.Category) ([]domain.Event, error)
	Monthly(ctx context.Context, category domain.Category, month, year int) ([]domain.Event, error)
	Weekly(ctx context.Context, category domain.Category, reference time.Time) ([]domain.Event, error)
	Next(ctx context.Context, category domain.Category) (*domain.Event, error)
	Upcoming(ctx context.Context) ([]domain.Event, error)
	Past(ctx context.Context) ([]domain.Event, error)
	Dashboard(ctx context.Context, category *domain.Category) (app.Dashboard, error)
}

type createEventRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Visitors int    `json:"visitors,omitempty"`
}

type updateEventRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Date     *string `json:"date,omitempty"`
}

type eventResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     domain.Category `json:"category"`
	Date         time.Time       `json:"date"`
	Visitors     int             `json:"visitors"`
	TotalPresent int             `json:"totalPresent"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:           e.ID,
		Name:         e.Name,
		Category:     e.Category,
		Date:         e.Date,
		Visitors:     e.Visitors,
		TotalPresent: e.TotalPresent,
	}
}

func toEventResponses(events []domain.Event) []eventResponse {
	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, toEventResponse(e))
	}
	return resp
}

func HandleCreateEvent(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, codeEventNameRequired, domain.ErrEventNameRequired.Error())
			return
		}
		category, err := domain.ParseCategory(req.Category)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidCategory, err.Error())
			return
		}
		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid date format")
			return
		}

		event, err := svc.Create(r.Context(), app.CreateEventInput{
			Name:     req.Name,
			Category: category,
			Date:     date,
			Visitors: req.Visitors,
		})
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventResponse(event))
	}
}

func HandleListEvents(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var category *domain.Category
		if raw := r.URL.Query().Get("category"); raw != "" {
			parsed, err := domain.ParseCategory(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidCategory, err.Error())
				return
			}
			category = &parsed
		}

		events, err := svc.List(r.Context(), category)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(events))
	}
}

func HandleGetEvent(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}

func HandleUpdateEvent(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		in := app.UpdateEventInput{Name: req.Name}
		if req.Category != nil {
			category, err := domain.ParseCategory(*req.Category)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidCategory, err.Error())
				return
			}
			in.Category = &category
		}
		if req.Date != nil {
			date, err := time.Parse(time.RFC3339, *req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid date format")
				return
			}
			in.Date = &date
		}

		event, err := svc.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}

func HandleDeleteEvent(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeEventError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleMonthlyEvents(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, month, year, ok := monthlyQuery(w, r)
		if !ok {
			return
		}
		events, err := svc.Monthly(r.Context(), category, month, year)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(events))
	}
}

func HandleWeeklyEvents(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, reference, ok := weeklyQuery(w, r)
		if !ok {
			return
		}
		events, err := svc.Weekly(r.Context(), category, reference)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(events))
	}
}

func HandleNextEvent(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := domain.ParseCategory(r.URL.Query().Get("category"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidCategory, err.Error())
			return
		}
		event, err := svc.Next(r.Context(), category)
		if err != nil {
			writeEventError(w, err)
			return
		}
		if event == nil {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(*event))
	}
}

func HandleUpcomingEvents(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.Upcoming(r.Context())
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(events))
	}
}

func HandlePastEvents(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.Past(r.Context())
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponses(events))
	}
}

func HandleDashboard(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := svc.Dashboard(r.Context(), nil)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dashboard)
	}
}

func HandleDashboardByCategory(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := domain.ParseCategory(r.URL.Query().Get("category"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidCategory, err.Error())
			return
		}
		dashboard, err := svc.Dashboard(r.Context(), &category)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dashboard)
	}
}

func monthlyQuery(w http.ResponseWriter, r *http.Request) (domain.Category, int, int, bool) {
	category, err := domain.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidCategory, err.Error())
		return "", 0, 0, false
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, codeInvalidMonth, "month must be 1-12")
		return "", 0, 0, false
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "year must be a number")
		return "", 0, 0, false
	}
	return category, month, year, true
}

func weeklyQuery(w http.ResponseWriter, r *http.Request) (domain.Category, time.Time, bool) {
	category, err := domain.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidCategory, err.Error())
		return "", time.Time{}, false
	}
	raw := r.URL.Query().Get("date")
	reference, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Accept a plain calendar date as well.
		reference, err = time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid date format")
			return "", time.Time{}, false
		}
	}
	return category, reference, true
}

func writeEventError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrEventNameRequired:
		writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
	case domain.ErrInvalidCategory:
		writeError(w, http.StatusBadRequest, codeInvalidCategory, err.Error())
	case domain.ErrInvalidMonth:
		writeError(w, http.StatusBadRequest, codeInvalidMonth, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
