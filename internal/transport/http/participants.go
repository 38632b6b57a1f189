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

// ParticipantService is the surface the participant endpoints need.
type ParticipantService interface {
	Create(ctx context.Context, in app.CreateParticipantInput) (domain.Participant, error)
	Get(ctx context.Context, id string) (domain.Participant, error)
	Update(ctx context.Context, id string, in app.UpdateParticipantInput) (domain.Participant, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Participant, error)
	Members(ctx context.Context) ([]domain.Participant, error)
	Visitors(ctx context.Context) ([]domain.Participant, error)
	SearchByName(ctx context.Context, name string) ([]domain.Participant, error)
	Birthdays(ctx context.Context, month int) ([]domain.Participant, error)
	History(ctx context.Context, id string) ([]app.AttendanceHistoryEntry, error)
	Status(ctx context.Context, id string) (app.ParticipantStatus, error)
	Engagement(ctx context.Context, id string, month, year int) (app.Engagement, error)
	IndividualReport(ctx context.Context, id string, month, year int) (app.IndividualReport, error)
}

type createParticipantRequest struct {
	Name      string `json:"name"`
	IsVisitor *bool  `json:"isVisitor,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
}

type updateParticipantRequest struct {
	Name      *string `json:"name,omitempty"`
	IsVisitor *bool   `json:"isVisitor,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
}

type participantResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IsVisitor bool       `json:"isVisitor"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
}

func toParticipantResponse(p domain.Participant) participantResponse {
	return participantResponse{
		ID:        p.ID,
		Name:      p.Name,
		IsVisitor: p.IsVisitor,
		BirthDate: p.BirthDate,
	}
}

func toParticipantResponses(participants []domain.Participant) []participantResponse {
	resp := make([]participantResponse, 0, len(participants))
	for _, p := range participants {
		resp = append(resp, toParticipantResponse(p))
	}
	return resp
}

func HandleCreateParticipant(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createParticipantRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, codeNameRequired, domain.ErrNameRequired.Error())
			return
		}

		var birthDate *time.Time
		if req.BirthDate != "" {
			parsed, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid birthDate format")
				return
			}
			birthDate = &parsed
		}

		p, err := svc.Create(r.Context(), app.CreateParticipantInput{
			Name:      req.Name,
			IsVisitor: req.IsVisitor,
			BirthDate: birthDate,
		})
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toParticipantResponse(p))
	}
}

func HandleListParticipants(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participants, err := svc.List(r.Context())
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParticipantResponses(participants))
	}
}

func HandleListMembers(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participants, err := svc.Members(r.Context())
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParticipantResponses(participants))
	}
}

func HandleListVisitors(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participants, err := svc.Visitors(r.Context())
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParticipantResponses(participants))
	}
}

func HandleSearchParticipants(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participants, err := svc.SearchByName(r.Context(), r.URL.Query().Get("name"))
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParticipantResponses(participants))
	}
}

func HandleBirthdays(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidMonth, "month must be 1-12")
			return
		}
		participants, err := svc.Birthdays(r.Context(), month)
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParticipantResponses(participants))
	}
}

func HandleGetParticipant(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParticipantResponse(p))
	}
}

func HandleUpdateParticipant(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateParticipantRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		in := app.UpdateParticipantInput{
			Name:      req.Name,
			IsVisitor: req.IsVisitor,
		}
		if req.BirthDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "invalid birthDate format")
				return
			}
			in.BirthDate = &parsed
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParticipantResponse(p))
	}
}

func HandleDeleteParticipant(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeParticipantError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleParticipantHistory(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := svc.History(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		if history == nil {
			history = []app.AttendanceHistoryEntry{}
		}
		writeJSON(w, http.StatusOK, history)
	}
}

func HandleParticipantStatus(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.Status(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func HandleParticipantEngagement(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, year, ok := monthYearQuery(w, r)
		if !ok {
			return
		}
		engagement, err := svc.Engagement(r.Context(), chi.URLParam(r, "id"), month, year)
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, engagement)
	}
}

func HandleParticipantReport(svc ParticipantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, year, ok := monthYearQuery(w, r)
		if !ok {
			return
		}
		report, err := svc.IndividualReport(r.Context(), chi.URLParam(r, "id"), month, year)
		if err != nil {
			writeParticipantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func monthYearQuery(w http.ResponseWriter, r *http.Request) (month, year int, ok bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, codeInvalidMonth, "month must be 1-12")
		return 0, 0, false
	}
	year, err = strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "year must be a number")
		return 0, 0, false
	}
	return month, year, true
}

func writeParticipantError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrNameRequired:
		writeError(w, http.StatusBadRequest, codeNameRequired, err.Error())
	case domain.ErrInvalidMonth:
		writeError(w, http.StatusBadRequest, codeInvalidMonth, err.Error())
	case domain.ErrParticipantNotFound:
		writeError(w, http.StatusNotFound, codeParticipantNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
