package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/app"
	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// AttendanceRegistrar is the minimal interface the register endpoint needs.
type AttendanceRegistrar interface {
	Register(ctx context.Context, in app.RegisterInput) (app.RegisterResult, error)
}

// AttendanceCRUD covers the single-record endpoints around the batch path.
type AttendanceCRUD interface {
	Create(ctx context.Context, in app.CreateAttendanceInput) (domain.Attendance, error)
	Get(ctx context.Context, id string) (domain.Attendance, error)
	UpdatePresence(ctx context.Context, id string, present bool) (domain.Attendance, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]app.AttendanceDetail, error)
}

type attendeeRequest struct {
	ParticipantID string `json:"participantId,omitempty"`
	Name          string `json:"name,omitempty"`
	Present       bool   `json:"present"`
	IsVisitor     bool   `json:"isVisitor,omitempty"`
}

type registerAttendanceRequest struct {
	EventID   string            `json:"eventId"`
	Attendees []attendeeRequest `json:"attendees"`
}

type registerAttendanceResponse struct {
	Created       int `json:"created"`
	TotalPresent  int `json:"totalPresent"`
	VisitorsCount int `json:"visitorsCount"`
}

// HandleRegisterAttendance returns the handler for the batch registration
// endpoint, the main route of the service.
func HandleRegisterAttendance(svc AttendanceRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerAttendanceRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.EventID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "eventId is required")
			return
		}

		attendees := make([]app.AttendeeInput, 0, len(req.Attendees))
		for _, a := range req.Attendees {
			attendees = append(attendees, app.AttendeeInput{
				ParticipantID: a.ParticipantID,
				Name:          a.Name,
				Present:       a.Present,
				IsVisitor:     a.IsVisitor,
			})
		}

		result, err := svc.Register(r.Context(), app.RegisterInput{
			EventID:   req.EventID,
			Attendees: attendees,
		})
		if err != nil {
			switch err {
			case domain.ErrAttendeeUnresolvable:
				writeError(w, http.StatusBadRequest, codeAttendeeUnresolvable, err.Error())
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrEventNotFound:
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
			case domain.ErrParticipantNotFound:
				writeError(w, http.StatusNotFound, codeParticipantNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, registerAttendanceResponse{
			Created:       result.Created,
			TotalPresent:  result.TotalPresent,
			VisitorsCount: result.VisitorsCount,
		})
	}
}

type createAttendanceRequest struct {
	EventID       string `json:"eventId"`
	ParticipantID string `json:"participantId"`
	Present       bool   `json:"present"`
}

type updateAttendanceRequest struct {
	Present bool `json:"present"`
}

type attendanceResponse struct {
	ID            string    `json:"id"`
	EventID       string    `json:"eventId"`
	ParticipantID string    `json:"participantId"`
	Present       bool      `json:"present"`
	CreatedAt     time.Time `json:"createdAt"`
}

type attendanceDetailResponse struct {
	attendanceResponse
	EventName       string `json:"eventName"`
	ParticipantName string `json:"participantName"`
}

func toAttendanceResponse(a domain.Attendance) attendanceResponse {
	return attendanceResponse{
		ID:            a.ID,
		EventID:       a.EventID,
		ParticipantID: a.ParticipantID,
		Present:       a.Present,
		CreatedAt:     a.CreatedAt,
	}
}

func HandleCreateAttendance(svc AttendanceCRUD) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAttendanceRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		a, err := svc.Create(r.Context(), app.CreateAttendanceInput{
			EventID:       req.EventID,
			ParticipantID: req.ParticipantID,
			Present:       req.Present,
		})
		if err != nil {
			writeAttendanceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAttendanceResponse(a))
	}
}

func HandleListAttendance(svc AttendanceCRUD) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		resp := make([]attendanceDetailResponse, 0, len(details))
		for _, d := range details {
			resp = append(resp, attendanceDetailResponse{
				attendanceResponse: toAttendanceResponse(d.Attendance),
				EventName:          d.EventName,
				ParticipantName:    d.ParticipantName,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func HandleGetAttendance(svc AttendanceCRUD) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeAttendanceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttendanceResponse(a))
	}
}

func HandleUpdateAttendance(svc AttendanceCRUD) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateAttendanceRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		a, err := svc.UpdatePresence(r.Context(), chi.URLParam(r, "id"), req.Present)
		if err != nil {
			writeAttendanceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttendanceResponse(a))
	}
}

func HandleDeleteAttendance(svc AttendanceCRUD) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeAttendanceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeAttendanceError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrAttendanceNotFound:
		writeError(w, http.StatusNotFound, codeAttendanceNotFound, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case domain.ErrParticipantNotFound:
		writeError(w, http.StatusNotFound, codeParticipantNotFound, err.Error())
	case domain.ErrDuplicateAttendance:
		writeError(w, http.StatusConflict, codeDuplicateAttendance, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
