package http

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/EnrikPaulo/pg-madrugas-api/internal/domain"
)

// RequestLogger logs basic request details and latency.
func RequestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Printf(
				"request method=%s path=%s status=%d duration=%s",
				r.Method,
				r.URL.Path,
				rec.status,
				time.Since(start),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// TokenValidator resolves a bearer token to the account it belongs to.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

type userKey struct{}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func RequireAuth(auth TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
				return
			}

			user, err := auth.ValidateToken(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user set by RequireAuth, if any.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey{}).(*domain.User)
	return user
}
