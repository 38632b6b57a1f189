package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps bundles the services the router wires handlers to.
type RouterDeps struct {
	Auth         AuthService
	TokenAuth    TokenValidator
	Register     AttendanceRegistrar
	Attendance   AttendanceCRUD
	Events       EventService
	Participants ParticipantService
	Reports      ReportService
	CORSOrigins  []string
	Logger       *log.Logger
}

// NewRouter assembles the full route surface. The attendance routes require
// a bearer token, matching the guarded controller in the original design;
// the rest of the surface is open.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(deps.Logger))
	r.Use(CORS(deps.CORSOrigins))

	r.Get("/health", HealthHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", HandleRegisterUser(deps.Auth))
		r.Post("/login", HandleLogin(deps.Auth))
	})

	r.Route("/attendance", func(r chi.Router) {
		r.Use(RequireAuth(deps.TokenAuth))
		r.Post("/register", HandleRegisterAttendance(deps.Register))
		r.Post("/", HandleCreateAttendance(deps.Attendance))
		r.Get("/", HandleListAttendance(deps.Attendance))
		r.Get("/{id}", HandleGetAttendance(deps.Attendance))
		r.Put("/{id}", HandleUpdateAttendance(deps.Attendance))
		r.Patch("/{id}", HandleUpdateAttendance(deps.Attendance))
		r.Delete("/{id}", HandleDeleteAttendance(deps.Attendance))
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", HandleListEvents(deps.Events))
		r.Post("/", HandleCreateEvent(deps.Events))
		r.Get("/monthly", HandleMonthlyEvents(deps.Events))
		r.Get("/weekly", HandleWeeklyEvents(deps.Events))
		r.Get("/next", HandleNextEvent(deps.Events))
		r.Get("/upcoming", HandleUpcomingEvents(deps.Events))
		r.Get("/past", HandlePastEvents(deps.Events))
		r.Get("/dashboard", HandleDashboard(deps.Events))
		r.Get("/dashboard-by-category", HandleDashboardByCategory(deps.Events))
		r.Get("/{id}", HandleGetEvent(deps.Events))
		r.Put("/{id}", HandleUpdateEvent(deps.Events))
		r.Patch("/{id}", HandleUpdateEvent(deps.Events))
		r.Delete("/{id}", HandleDeleteEvent(deps.Events))
	})

	r.Route("/participants", func(r chi.Router) {
		r.Get("/", HandleListParticipants(deps.Participants))
		r.Post("/", HandleCreateParticipant(deps.Participants))
		r.Get("/members", HandleListMembers(deps.Participants))
		r.Get("/visitors", HandleListVisitors(deps.Participants))
		r.Get("/search", HandleSearchParticipants(deps.Participants))
		r.Get("/birthdays", HandleBirthdays(deps.Participants))
		r.Get("/{id}", HandleGetParticipant(deps.Participants))
		r.Put("/{id}", HandleUpdateParticipant(deps.Participants))
		r.Patch("/{id}", HandleUpdateParticipant(deps.Participants))
		r.Delete("/{id}", HandleDeleteParticipant(deps.Participants))
		r.Get("/{id}/history", HandleParticipantHistory(deps.Participants))
		r.Get("/{id}/status", HandleParticipantStatus(deps.Participants))
		r.Get("/{id}/engagement", HandleParticipantEngagement(deps.Participants))
		r.Get("/{id}/report", HandleParticipantReport(deps.Participants))
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/monthly", HandleMonthlyReport(deps.Reports))
		r.Get("/weekly", HandleWeeklyReport(deps.Reports))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	return r
}
