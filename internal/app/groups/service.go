package groups

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chiro-horizon/registration-api/internal/domain"
	clockport "github.com/chiro-horizon/registration-api/internal/ports/out/clock"
	"github.com/chiro-horizon/registration-api/internal/ports/out/grouprepo"
	"github.com/chiro-horizon/registration-api/internal/ports/out/workyearrepo"
)

// Service manages the staff-facing group catalog and the work-year lifecycle.
type Service struct {
	groups    grouprepo.Repository
	workYears workyearrepo.Repository
	clk       clockport.Clock

	newGroupID    func() domain.GroupID
	newWorkYearID func() domain.WorkYearID
}

func NewService(groups grouprepo.Repository, workYears workyearrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		groups:    groups,
		workYears: workYears,
		clk:       clk,
		newGroupID: func() domain.GroupID {
			return domain.GroupID(uuid.NewString())
		},
		newWorkYearID: func() domain.WorkYearID {
			return domain.WorkYearID(uuid.NewString())
		},
	}
}

// CreateGroup adds a group to the current work year's catalog.
func (s *Service) CreateGroup(ctx context.Context, in CreateGroupInput) (domain.Group, error) {
	wy, err := s.workYears.Current(ctx)
	if err != nil {
		if errors.Is(err, workyearrepo.ErrNoCurrent) {
			return domain.Group{}, &Error{
				Status:  409,
				Code:    "NO_CURRENT_WORK_YEAR",
				Message: "Groups belong to a work year; open one first.",
			}
		}
		return domain.Group{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Group{}, invalidInput("name", "Group name must not be empty.")
	}
	gender, err := parseGroupGender(in.Gender)
	if err != nil {
		return domain.Group{}, err
	}
	if err := checkAgeBounds(in.MinimumAgeDays, in.MaximumAgeDays); err != nil {
		return domain.Group{}, err
	}

	now := s.clk.Now()
	g := domain.Group{
		ID:             s.newGroupID(),
		WorkYearID:     wy.ID,
		Name:           name,
		Gender:         gender,
		MinimumAgeDays: in.MinimumAgeDays,
		MaximumAgeDays: cloneIntPtr(in.MaximumAgeDays),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.groups.Create(ctx, g); err != nil {
		if errors.Is(err, grouprepo.ErrNameAlreadyUsed) {
			return domain.Group{}, &Error{
				Status:  409,
				Code:    "GROUP_NAME_TAKEN",
				Message: "Another group in this work year already uses that name.",
				Details: map[string]any{"name": name},
			}
		}
		return domain.Group{}, err
	}
	return g, nil
}

// UpdateGroup applies a partial update to a group. Bound checks run against
// the merged result, so a patch cannot leave the group with an inverted age
// window.
func (s *Service) UpdateGroup(ctx context.Context, id domain.GroupID, patch GroupPatch) (domain.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, grouprepo.ErrNotFound) {
			return domain.Group{}, groupNotFound(id)
		}
		return domain.Group{}, err
	}

	if err := applyGroupPatch(&g, patch); err != nil {
		return domain.Group{}, err
	}
	if err := checkAgeBounds(g.MinimumAgeDays, g.MaximumAgeDays); err != nil {
		return domain.Group{}, err
	}
	g.UpdatedAt = s.clk.Now()

	if err := s.groups.Update(ctx, g); err != nil {
		if errors.Is(err, grouprepo.ErrNotFound) {
			return domain.Group{}, groupNotFound(id)
		}
		if errors.Is(err, grouprepo.ErrNameAlreadyUsed) {
			return domain.Group{}, &Error{
				Status:  409,
				Code:    "GROUP_NAME_TAKEN",
				Message: "Another group in this work year already uses that name.",
				Details: map[string]any{"name": g.Name},
			}
		}
		return domain.Group{}, err
	}
	return g, nil
}

func (s *Service) GetGroup(ctx context.Context, id domain.GroupID) (domain.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, grouprepo.ErrNotFound) {
			return domain.Group{}, groupNotFound(id)
		}
		return domain.Group{}, err
	}
	return g, nil
}

// ListGroups returns the catalog of the given work year, including inactive
// groups so staff can reactivate them.
func (s *Service) ListGroups(ctx context.Context, workYearID domain.WorkYearID) ([]domain.Group, error) {
	if _, err := s.workYears.GetByID(ctx, workYearID); err != nil {
		if errors.Is(err, workyearrepo.ErrNotFound) {
			return nil, workYearNotFound(workYearID)
		}
		return nil, err
	}
	return s.groups.ListByWorkYear(ctx, workYearID, true)
}

// StartWorkYear opens a new work year. The previous year must be closed
// first; registrations always land in the single open year.
func (s *Service) StartWorkYear(ctx context.Context, in StartWorkYearInput) (domain.WorkYear, error) {
	now := s.clk.Now()
	wy := domain.WorkYear{
		ID:        s.newWorkYearID(),
		StartDate: in.StartDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.workYears.Create(ctx, wy); err != nil {
		if errors.Is(err, workyearrepo.ErrCurrentExists) {
			return domain.WorkYear{}, &Error{
				Status:  409,
				Code:    "WORK_YEAR_STILL_OPEN",
				Message: "Close the current work year before starting a new one.",
			}
		}
		return domain.WorkYear{}, err
	}
	return wy, nil
}

// CloseWorkYear ends the given work year on the provided date.
func (s *Service) CloseWorkYear(ctx context.Context, id domain.WorkYearID, endDate time.Time) (domain.WorkYear, error) {
	wy, err := s.workYears.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, workyearrepo.ErrNotFound) {
			return domain.WorkYear{}, workYearNotFound(id)
		}
		return domain.WorkYear{}, err
	}
	if !wy.IsCurrent() {
		return domain.WorkYear{}, &Error{
			Status:  409,
			Code:    "WORK_YEAR_ALREADY_CLOSED",
			Message: "The work year is already closed.",
		}
	}
	if endDate.Before(wy.StartDate) {
		return domain.WorkYear{}, invalidInput("endDate", "End date must not precede the start date.")
	}

	wy.EndDate = &endDate
	wy.UpdatedAt = s.clk.Now()
	if err := s.workYears.Update(ctx, wy); err != nil {
		return domain.WorkYear{}, err
	}
	return wy, nil
}

func (s *Service) CurrentWorkYear(ctx context.Context) (domain.WorkYear, error) {
	wy, err := s.workYears.Current(ctx)
	if err != nil {
		if errors.Is(err, workyearrepo.ErrNoCurrent) {
			return domain.WorkYear{}, &Error{
				Status:  404,
				Code:    "NO_CURRENT_WORK_YEAR",
				Message: "No work year is currently open.",
			}
		}
		return domain.WorkYear{}, err
	}
	return wy, nil
}

func (s *Service) ListWorkYears(ctx context.Context) ([]domain.WorkYear, error) {
	return s.workYears.List(ctx)
}

func applyGroupPatch(g *domain.Group, patch GroupPatch) error {
	if patch.Name.IsSpecified() {
		if patch.Name.IsNull() {
			return invalidInput("name", "Group name cannot be removed.")
		}
		name := strings.TrimSpace(patch.Name.Value())
		if name == "" {
			return invalidInput("name", "Group name must not be empty.")
		}
		g.Name = name
	}
	if patch.Gender.IsSpecified() {
		if patch.Gender.IsNull() {
			g.Gender = domain.GroupGenderMixed
		} else {
			gender, err := parseGroupGender(patch.Gender.Value())
			if err != nil {
				return err
			}
			g.Gender = gender
		}
	}
	if patch.MinimumAgeDays.IsSpecified() {
		if patch.MinimumAgeDays.IsNull() {
			g.MinimumAgeDays = 0
		} else {
			g.MinimumAgeDays = patch.MinimumAgeDays.Value()
		}
	}
	if patch.MaximumAgeDays.IsSpecified() {
		if patch.MaximumAgeDays.IsNull() {
			g.MaximumAgeDays = nil
		} else {
			v := patch.MaximumAgeDays.Value()
			g.MaximumAgeDays = &v
		}
	}
	if patch.IsActive.IsSpecified() && !patch.IsActive.IsNull() {
		g.IsActive = patch.IsActive.Value()
	}
	return nil
}

func parseGroupGender(raw string) (domain.GroupGender, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "MIXED":
		return domain.GroupGenderMixed, nil
	case "MALE", "M":
		return domain.GroupGenderMale, nil
	case "FEMALE", "F":
		return domain.GroupGenderFemale, nil
	default:
		return "", invalidInput("gender", "Gender must be MALE, FEMALE or MIXED.")
	}
}

func checkAgeBounds(minDays int, maxDays *int) error {
	if minDays < 0 {
		return invalidInput("minimumAgeDays", "Minimum age must not be negative.")
	}
	if maxDays != nil && *maxDays <= minDays {
		return invalidInput("maximumAgeDays", "Maximum age must exceed the minimum age.")
	}
	return nil
}

func invalidInput(field, msg string) *Error {
	return &Error{
		Status:  422,
		Code:    "INVALID_INPUT",
		Message: msg,
		Details: map[string]any{"field": field},
	}
}

func groupNotFound(id domain.GroupID) *Error {
	return &Error{
		Status:  404,
		Code:    "GROUP_NOT_FOUND",
		Message: "Group not found.",
		Details: map[string]any{"groupId": string(id)},
	}
}

func workYearNotFound(id domain.WorkYearID) *Error {
	return &Error{
		Status:  404,
		Code:    "WORK_YEAR_NOT_FOUND",
		Message: "Work year not found.",
		Details: map[string]any{"workYearId": string(id)},
	}
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
