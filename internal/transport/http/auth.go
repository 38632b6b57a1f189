package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
)

// AuthService is the surface the auth endpoints need.
type AuthService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func HandleRegisterUser(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeCredentials(w, r)
		if !ok {
			return
		}

		userID, err := svc.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, registerUserResponse{
			Message: "administrator created",
			UserID:  userID,
		})
	}
}

func HandleLogin(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeCredentials(w, r)
		if !ok {
			return
		}

		token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{AccessToken: token})
	}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return credentialsRequest{}, false
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeCredentialsRequired, domain.ErrCredentialsRequired.Error())
		return credentialsRequest{}, false
	}
	return req, true
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrCredentialsRequired:
		writeError(w, http.StatusBadRequest, codeCredentialsRequired, err.Error())
	case domain.ErrEmailTaken:
		writeError(w, http.StatusConflict, codeEmailTaken, err.Error())
	case domain.ErrInvalidCredentials:
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
