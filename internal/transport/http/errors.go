package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidID            = "invalid_id"
	codeInvalidCategory      = "invalid_category"
	codeInvalidDate          = "invalid_date"
	codeInvalidMonth         = "invalid_month"
	codeEventNameRequired    = "event_name_required"
	codeNameRequired         = "participant_name_required"
	codeAttendeeUnresolvable = "attendee_unresolvable"
	codeEventNotFound        = "event_not_found"
	codeParticipantNotFound  = "participant_not_found"
	codeAttendanceNotFound   = "attendance_not_found"
	codeDuplicateAttendance  = "duplicate_attendance"
	codeEmailTaken           = "email_taken"
	codeCredentialsRequired  = "credentials_required"
	codeInvalidCredentials   = "invalid_credentials"
	codeUnauthorized         = "unauthorized"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
