package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chiro-horizon/registration-api/internal/app/groups"
	"github.com/chiro-horizon/registration-api/internal/app/registration"
	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/draft"
)

// Server is the HTTP adapter: it decodes requests, delegates to the
// application services and encodes their results.
type Server struct {
	Registration *registration.Service
	Groups       *groups.Service
}

func NewServer(registrationSvc *registration.Service, groupsSvc *groups.Service) *Server {
	return &Server{
		Registration: registrationSvc,
		Groups:       groupsSvc,
	}
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	d, err := s.Registration.GetDraft(r.Context(), domain.SubjectID(sub))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleApplyStep(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	var step draft.Draft
	if !decodeJSON(w, r, &step) {
		return
	}
	merged, err := s.Registration.ApplyStep(r.Context(), domain.SubjectID(sub), step)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

func (s *Server) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	if err := s.Registration.ClearDraft(r.Context(), domain.SubjectID(sub)); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}

	// The staff flow additionally validates the payment section; it is only
	// available to staff callers.
	flow := registration.FlowPublic
	if strings.EqualFold(r.URL.Query().Get("flow"), string(registration.FlowStaff)) {
		if RoleFromContext(r.Context()) != RoleStaff {
			writeError(w, r, http.StatusForbidden, "FORBIDDEN", "staff role required for the staff flow", nil)
			return
		}
		flow = registration.FlowStaff
	}

	res, err := s.Registration.Submit(r.Context(), domain.SubjectID(sub), flow)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{
		Registration: toRegistrationResponse(res.Registration),
		Outcome:      string(res.Outcome),
		Candidates:   toGroupResponses(res.Candidates),
	})
}

func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	birthDate, err := parseDateParam(q.Get("birthDate"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "birthDate must be a YYYY-MM-DD date", nil)
		return
	}
	gender, ok := parseGenderParam(q.Get("gender"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "gender must be male, female or other", nil)
		return
	}

	res, err := s.Registration.Eligibility(r.Context(), birthDate, gender)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEligibilityResponse(res))
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := s.Groups.CreateGroup(r.Context(), groups.CreateGroupInput{
		Name:           req.Name,
		Gender:         req.Gender,
		MinimumAgeDays: req.MinimumAgeDays,
		MaximumAgeDays: req.MaximumAgeDays,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(g))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	id := domain.GroupID(chi.URLParam(r, "groupID"))
	g, err := s.Groups.GetGroup(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(g))
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	id := domain.GroupID(chi.URLParam(r, "groupID"))
	var req updateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	g, err := s.Groups.UpdateGroup(r.Context(), id, req.toPatch())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(g))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	id := domain.WorkYearID(chi.URLParam(r, "workYearID"))
	gs, err := s.Groups.ListGroups(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponses(gs))
}

func (s *Server) handleStartWorkYear(w http.ResponseWriter, r *http.Request) {
	var req startWorkYearRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	wy, err := s.Groups.StartWorkYear(r.Context(), groups.StartWorkYearInput{StartDate: req.StartDate.Time})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkYearResponse(wy))
}

func (s *Server) handleCloseWorkYear(w http.ResponseWriter, r *http.Request) {
	id := domain.WorkYearID(chi.URLParam(r, "workYearID"))
	var req closeWorkYearRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	wy, err := s.Groups.CloseWorkYear(r.Context(), id, req.EndDate.Time)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkYearResponse(wy))
}

func (s *Server) handleCurrentWorkYear(w http.ResponseWriter, r *http.Request) {
	wy, err := s.Groups.CurrentWorkYear(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkYearResponse(wy))
}

func (s *Server) handleListWorkYears(w http.ResponseWriter, r *http.Request) {
	wys, err := s.Groups.ListWorkYears(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]workYearResponse, 0, len(wys))
	for _, wy := range wys {
		out = append(out, toWorkYearResponse(wy))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	id := domain.RegistrationID(chi.URLParam(r, "registrationID"))
	reg, err := s.Registration.GetRegistration(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponse(reg))
}

func (s *Server) handleListRegistrationsByWorkYear(w http.ResponseWriter, r *http.Request) {
	id := domain.WorkYearID(chi.URLParam(r, "workYearID"))
	regs, err := s.Registration.ListByWorkYear(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponses(regs))
}

func (s *Server) handleListRegistrationsByGroup(w http.ResponseWriter, r *http.Request) {
	id := domain.GroupID(chi.URLParam(r, "groupID"))
	regs, err := s.Registration.ListByGroup(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponses(regs))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body: "+err.Error(), nil)
		return false
	}
	return true
}
