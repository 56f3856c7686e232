package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/draft"
	"github.com/chiro-horizon/registration-api/internal/eligibility"
	clockport "github.com/chiro-horizon/registration-api/internal/ports/out/clock"
	"github.com/chiro-horizon/registration-api/internal/ports/out/draftstore"
	"github.com/chiro-horizon/registration-api/internal/ports/out/grouprepo"
	"github.com/chiro-horizon/registration-api/internal/ports/out/registrationrepo"
	"github.com/chiro-horizon/registration-api/internal/ports/out/workyearrepo"
	"github.com/chiro-horizon/registration-api/internal/validate"
)

// Service orchestrates the registration flows: folding form steps into the
// persisted draft, resolving eligibility, and turning a completed draft into
// a stored registration.
type Service struct {
	drafts        draftstore.Store
	groups        grouprepo.Repository
	workYears     workyearrepo.Repository
	registrations registrationrepo.Repository
	clk           clockport.Clock

	newRegistrationID func() domain.RegistrationID

	// Defaults seed a fresh draft when no stored one exists.
	Defaults DraftDefaults
}

func NewService(
	drafts draftstore.Store,
	groups grouprepo.Repository,
	workYears workyearrepo.Repository,
	registrations registrationrepo.Repository,
	clk clockport.Clock,
) *Service {
	return &Service{
		drafts:        drafts,
		groups:        groups,
		workYears:     workYears,
		registrations: registrations,
		clk:           clk,
		newRegistrationID: func() domain.RegistrationID {
			return domain.RegistrationID(uuid.NewString())
		},
	}
}

// GetDraft returns the subject's stored draft, falling back to a freshly
// seeded default so the form has sensible starting values.
func (s *Service) GetDraft(ctx context.Context, subject domain.SubjectID) (draft.Draft, error) {
	d, ok, err := s.loadDraft(ctx, subject)
	if err != nil {
		return draft.Draft{}, err
	}
	if !ok {
		return s.defaultDraft(), nil
	}
	return d, nil
}

// ApplyStep folds one form step into the draft and persists the result.
func (s *Service) ApplyStep(ctx context.Context, subject domain.SubjectID, step draft.Draft) (draft.Draft, error) {
	current, ok, err := s.loadDraft(ctx, subject)
	if err != nil {
		return draft.Draft{}, err
	}
	if !ok {
		current = s.defaultDraft()
	}

	merged := draft.Merge(current, step, s.clk.Now())

	data, err := draft.Encode(merged)
	if err != nil {
		return draft.Draft{}, err
	}
	if err := s.drafts.Save(ctx, draftKey(subject), data); err != nil {
		return draft.Draft{}, err
	}
	return merged, nil
}

// ClearDraft discards the subject's stored draft.
func (s *Service) ClearDraft(ctx context.Context, subject domain.SubjectID) error {
	return s.drafts.Clear(ctx, draftKey(subject))
}

// Submit validates the subject's draft against the flow's schema, resolves
// the group assignment, persists the registration and clears the draft.
//
// Validation failures return a *ValidationError carrying every violated rule.
// An ambiguous eligibility result requires an explicit group choice in the
// draft; without one Submit refuses with GROUP_CHOICE_REQUIRED.
func (s *Service) Submit(ctx context.Context, subject domain.SubjectID, flow Flow) (SubmitResult, error) {
	d, ok, err := s.loadDraft(ctx, subject)
	if err != nil {
		return SubmitResult{}, err
	}
	if !ok {
		return SubmitResult{}, &Error{
			Status:  404,
			Code:    "DRAFT_NOT_FOUND",
			Message: "No registration draft exists for the authenticated subject.",
		}
	}

	now := s.clk.Now()
	reg, verrs := validate.BuildSchema(flow.sections()).Validate(d, now)
	if len(verrs) > 0 {
		return SubmitResult{}, &ValidationError{Errors: verrs}
	}

	wy, err := s.workYears.Current(ctx)
	if err != nil {
		if errors.Is(err, workyearrepo.ErrNoCurrent) {
			return SubmitResult{}, &Error{
				Status:  409,
				Code:    "NO_CURRENT_WORK_YEAR",
				Message: "Registrations are closed: no work year is currently open.",
			}
		}
		return SubmitResult{}, err
	}

	catalog, err := s.groups.ListByWorkYear(ctx, wy.ID, false)
	if err != nil {
		return SubmitResult{}, err
	}
	candidates, err := eligibility.FindEligibleGroups(reg.Member.DateOfBirth, reg.Member.Gender, catalog, now)
	if err != nil {
		// Validation already vetted the birth date; this is a catalog bug.
		return SubmitResult{}, fmt.Errorf("resolve eligibility: %w", err)
	}

	outcome := outcomeFor(len(candidates))
	groupID, err := chooseGroup(d, candidates, outcome)
	if err != nil {
		return SubmitResult{}, err
	}

	reg.ID = s.newRegistrationID()
	reg.WorkYearID = wy.ID
	reg.GroupID = groupID
	reg.CreatedAt = now
	reg.UpdatedAt = now

	if err := s.registrations.Create(ctx, reg); err != nil {
		return SubmitResult{}, err
	}
	if err := s.drafts.Clear(ctx, draftKey(subject)); err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{Registration: reg, Outcome: outcome, Candidates: candidates}, nil
}

// Eligibility resolves candidate groups for a birth date/gender pair against
// the current work year's active catalog, without touching any draft.
func (s *Service) Eligibility(ctx context.Context, birthDate openapi_types.Date, gender domain.Gender) (EligibilityResult, error) {
	now := s.clk.Now()

	years, err := eligibility.AgeInYears(birthDate.Time, now)
	if err != nil {
		return EligibilityResult{}, invalidDateError(err)
	}
	days, err := eligibility.AgeInDays(birthDate.Time, now)
	if err != nil {
		return EligibilityResult{}, invalidDateError(err)
	}

	wy, err := s.workYears.Current(ctx)
	if err != nil {
		if errors.Is(err, workyearrepo.ErrNoCurrent) {
			return EligibilityResult{}, &Error{
				Status:  409,
				Code:    "NO_CURRENT_WORK_YEAR",
				Message: "No work year is currently open.",
			}
		}
		return EligibilityResult{}, err
	}
	catalog, err := s.groups.ListByWorkYear(ctx, wy.ID, false)
	if err != nil {
		return EligibilityResult{}, err
	}
	candidates, err := eligibility.FindEligibleGroups(birthDate.Time, gender, catalog, now)
	if err != nil {
		return EligibilityResult{}, fmt.Errorf("resolve eligibility: %w", err)
	}

	return EligibilityResult{
		Outcome:    outcomeFor(len(candidates)),
		AgeYears:   years,
		AgeDays:    days,
		Candidates: candidates,
	}, nil
}

// GetRegistration returns a stored registration for staff review.
func (s *Service) GetRegistration(ctx context.Context, id domain.RegistrationID) (domain.Registration, error) {
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, registrationrepo.ErrNotFound) {
			return domain.Registration{}, &Error{
				Status:  404,
				Code:    "REGISTRATION_NOT_FOUND",
				Message: "Registration not found.",
				Details: map[string]any{"registrationId": string(id)},
			}
		}
		return domain.Registration{}, err
	}
	return reg, nil
}

// ListByWorkYear returns every registration in a work year, ordered by
// member name.
func (s *Service) ListByWorkYear(ctx context.Context, workYearID domain.WorkYearID) ([]domain.Registration, error) {
	return s.registrations.ListByWorkYear(ctx, workYearID)
}

// ListByGroup returns a group's registrations, ordered by member name.
func (s *Service) ListByGroup(ctx context.Context, groupID domain.GroupID) ([]domain.Registration, error) {
	return s.registrations.ListByGroup(ctx, groupID)
}

func chooseGroup(d draft.Draft, candidates []domain.Group, outcome EligibilityOutcome) (*domain.GroupID, error) {
	switch outcome {
	case EligibilityNone:
		// Valid state: staff assigns a group manually later.
		return nil, nil
	case EligibilitySingle:
		id := candidates[0].ID
		return &id, nil
	default:
		if d.GroupID == nil {
			return nil, &Error{
				Status:  422,
				Code:    "GROUP_CHOICE_REQUIRED",
				Message: "More than one group matches; an explicit group choice is required.",
				Details: map[string]any{"candidates": groupNames(candidates)},
			}
		}
		chosen := domain.GroupID(*d.GroupID)
		for _, g := range candidates {
			if g.ID == chosen {
				return &chosen, nil
			}
		}
		return nil, &Error{
			Status:  422,
			Code:    "GROUP_CHOICE_INVALID",
			Message: "The chosen group is not among the eligible candidates.",
			Details: map[string]any{"candidates": groupNames(candidates)},
		}
	}
}

func groupNames(gs []domain.Group) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.Name)
	}
	return out
}

func (s *Service) loadDraft(ctx context.Context, subject domain.SubjectID) (draft.Draft, bool, error) {
	data, ok, err := s.drafts.Load(ctx, draftKey(subject))
	if err != nil || !ok {
		return draft.Draft{}, false, err
	}
	d, err := draft.Decode(data)
	if err != nil {
		return draft.Draft{}, false, err
	}
	return d, true, nil
}

// defaultDraft seeds today's date for the birth field and the organization's
// home address defaults on the first parent.
func (s *Service) defaultDraft() draft.Draft {
	today := openapi_types.Date{Time: s.clk.Now()}
	d := draft.Draft{
		Member: &draft.MemberStep{DateOfBirth: &today},
	}
	if s.Defaults.PostalCode != 0 || s.Defaults.Municipality != "" {
		parent := draft.ParentPatch{}
		if s.Defaults.PostalCode != 0 {
			parent.PostalCode = nullable.NewNullableWithValue(s.Defaults.PostalCode)
		}
		if s.Defaults.Municipality != "" {
			parent.Municipality = nullable.NewNullableWithValue(s.Defaults.Municipality)
		}
		d.Parents = []draft.ParentPatch{parent}
	}
	return d
}

func invalidDateError(err error) error {
	var ide *eligibility.InvalidDateError
	if errors.As(err, &ide) {
		return &Error{
			Status:  422,
			Code:    "INVALID_DATE",
			Message: ide.Error(),
			Details: map[string]any{"birthDate": ide.Reason},
		}
	}
	return err
}

func draftKey(subject domain.SubjectID) draftstore.Key {
	return draftstore.Key(subject)
}
