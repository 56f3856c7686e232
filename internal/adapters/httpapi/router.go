package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: handlers decode/encode JSON and
// delegate to the application services; this function wires routes and
// middleware.
func NewRouter(s *Server, authMiddleware func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoint is deliberately out-of-spec (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Route("/v1/registration", func(r chi.Router) {
			r.Get("/draft", s.handleGetDraft)
			r.Post("/draft/steps", s.handleApplyStep)
			r.Delete("/draft", s.handleClearDraft)
			r.Post("/submissions", s.handleSubmit)
		})
		r.Get("/v1/eligibility", s.handleEligibility)

		r.Route("/v1/staff", func(r chi.Router) {
			r.Use(RequireStaff)

			r.Post("/groups", s.handleCreateGroup)
			r.Get("/groups/{groupID}", s.handleGetGroup)
			r.Patch("/groups/{groupID}", s.handleUpdateGroup)
			r.Get("/groups/{groupID}/registrations", s.handleListRegistrationsByGroup)

			r.Get("/work-years", s.handleListWorkYears)
			r.Post("/work-years", s.handleStartWorkYear)
			r.Get("/work-years/current", s.handleCurrentWorkYear)
			r.Post("/work-years/{workYearID}/close", s.handleCloseWorkYear)
			r.Get("/work-years/{workYearID}/groups", s.handleListGroups)
			r.Get("/work-years/{workYearID}/registrations", s.handleListRegistrationsByWorkYear)

			r.Get("/registrations/{registrationID}", s.handleGetRegistration)
		})
	})

	return r
}
