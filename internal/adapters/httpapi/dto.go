package httpapi

import (
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/chiro-horizon/registration-api/internal/app/groups"
	"github.com/chiro-horizon/registration-api/internal/app/registration"
	"github.com/chiro-horizon/registration-api/internal/domain"
)

type groupResponse struct {
	Id             string    `json:"id"`
	WorkYearId     string    `json:"workYearId"`
	Name           string    `json:"name"`
	Gender         string    `json:"gender"`
	MinimumAgeDays int       `json:"minimumAgeDays"`
	MaximumAgeDays *int      `json:"maximumAgeDays,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toGroupResponse(g domain.Group) groupResponse {
	return groupResponse{
		Id:             string(g.ID),
		WorkYearId:     string(g.WorkYearID),
		Name:           g.Name,
		Gender:         string(g.Gender),
		MinimumAgeDays: g.MinimumAgeDays,
		MaximumAgeDays: g.MaximumAgeDays,
		IsActive:       g.IsActive,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

func toGroupResponses(gs []domain.Group) []groupResponse {
	out := make([]groupResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGroupResponse(g))
	}
	return out
}

type workYearResponse struct {
	Id        string              `json:"id"`
	StartDate openapi_types.Date  `json:"startDate"`
	EndDate   *openapi_types.Date `json:"endDate,omitempty"`
	Current   bool                `json:"current"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func toWorkYearResponse(wy domain.WorkYear) workYearResponse {
	resp := workYearResponse{
		Id:        string(wy.ID),
		StartDate: openapi_types.Date{Time: wy.StartDate},
		Current:   wy.IsCurrent(),
		CreatedAt: wy.CreatedAt,
		UpdatedAt: wy.UpdatedAt,
	}
	if wy.EndDate != nil {
		resp.EndDate = &openapi_types.Date{Time: *wy.EndDate}
	}
	return resp
}

type memberDTO struct {
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName"`
	Gender       string             `json:"gender"`
	DateOfBirth  openapi_types.Date `json:"dateOfBirth"`
	Email        *string            `json:"email,omitempty"`
	Phone        *string            `json:"phone,omitempty"`
	PhotoConsent bool               `json:"photoConsent"`
}

type parentDTO struct {
	Relationship string  `json:"relationship"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	Street       string  `json:"street"`
	HouseNumber  string  `json:"houseNumber"`
	Box          *string `json:"box,omitempty"`
	PostalCode   int     `json:"postalCode"`
	Municipality string  `json:"municipality"`
	IsPrimary    bool    `json:"isPrimary"`
}

type emergencyContactDTO struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type conditionDTO struct {
	Name string `json:"name"`
	Has  bool   `json:"hasCondition"`
	Info string `json:"info,omitempty"`
}

type medicalDTO struct {
	PastHistory         string `json:"pastHistory"`
	TakesMedication     bool   `json:"takesMedication"`
	Medication          string `json:"medication,omitempty"`
	TetanusVaccinated   bool   `json:"tetanusVaccinated"`
	TetanusVaccineYear  *int   `json:"tetanusVaccineYear,omitempty"`
	OtherConditions     string `json:"otherConditions"`
	GetsTiredQuickly    bool   `json:"getsTiredQuickly"`
	CanParticipateSport bool   `json:"canParticipateSport"`
	CanSwim             bool   `json:"canSwim"`
}

type doctorDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type paymentDTO struct {
	Received bool                `json:"received"`
	Method   *string             `json:"method,omitempty"`
	Date     *openapi_types.Date `json:"date,omitempty"`
}

type registrationResponse struct {
	Id               string              `json:"id"`
	WorkYearId       string              `json:"workYearId"`
	GroupId          *string             `json:"groupId,omitempty"`
	Member           memberDTO           `json:"member"`
	Parents          []parentDTO         `json:"parents"`
	EmergencyContact emergencyContactDTO `json:"emergencyContact"`
	Medical          medicalDTO          `json:"medical"`
	Conditions       []conditionDTO      `json:"conditions"`
	Doctor           doctorDTO           `json:"doctor"`
	Payment          paymentDTO          `json:"payment"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

func toRegistrationResponse(reg domain.Registration) registrationResponse {
	resp := registrationResponse{
		Id:         string(reg.ID),
		WorkYearId: string(reg.WorkYearID),
		Member: memberDTO{
			FirstName:    reg.Member.FirstName,
			LastName:     reg.Member.LastName,
			Gender:       string(reg.Member.Gender),
			DateOfBirth:  openapi_types.Date{Time: reg.Member.DateOfBirth},
			Email:        reg.Member.Email,
			Phone:        reg.Member.Phone,
			PhotoConsent: reg.Member.PhotoConsent,
		},
		EmergencyContact: emergencyContactDTO(reg.EmergencyContact),
		Medical: medicalDTO{
			PastHistory:         reg.Medical.PastHistory,
			TakesMedication:     reg.Medical.TakesMedication,
			Medication:          reg.Medical.Medication,
			TetanusVaccinated:   reg.Medical.TetanusVaccinated,
			TetanusVaccineYear:  reg.Medical.TetanusVaccineYear,
			OtherConditions:     reg.Medical.OtherConditions,
			GetsTiredQuickly:    reg.Medical.GetsTiredQuickly,
			CanParticipateSport: reg.Medical.CanParticipateSport,
			CanSwim:             reg.Medical.CanSwim,
		},
		Doctor:    doctorDTO(reg.Doctor),
		CreatedAt: reg.CreatedAt,
		UpdatedAt: reg.UpdatedAt,
	}
	if reg.GroupID != nil {
		id := string(*reg.GroupID)
		resp.GroupId = &id
	}
	resp.Parents = make([]parentDTO, 0, len(reg.Parents))
	for _, p := range reg.Parents {
		resp.Parents = append(resp.Parents, parentDTO{
			Relationship: string(p.Relationship),
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			Phone:        p.Phone,
			Email:        p.Email,
			Street:       p.Address.Street,
			HouseNumber:  p.Address.HouseNumber,
			Box:          p.Address.Box,
			PostalCode:   p.Address.PostalCode,
			Municipality: p.Address.Municipality,
			IsPrimary:    p.IsPrimary,
		})
	}
	resp.Conditions = make([]conditionDTO, 0, len(reg.Conditions))
	for _, c := range reg.Conditions {
		resp.Conditions = append(resp.Conditions, conditionDTO{
			Name: string(c.Name),
			Has:  c.Has,
			Info: c.Info,
		})
	}
	resp.Payment.Received = reg.Payment.Received
	if reg.Payment.Method != nil {
		m := string(*reg.Payment.Method)
		resp.Payment.Method = &m
	}
	if reg.Payment.Date != nil {
		resp.Payment.Date = &openapi_types.Date{Time: *reg.Payment.Date}
	}
	return resp
}

func toRegistrationResponses(regs []domain.Registration) []registrationResponse {
	out := make([]registrationResponse, 0, len(regs))
	for _, reg := range regs {
		out = append(out, toRegistrationResponse(reg))
	}
	return out
}

type eligibilityResponse struct {
	Outcome    string          `json:"outcome"`
	AgeYears   int             `json:"ageYears"`
	AgeDays    int             `json:"ageDays"`
	Candidates []groupResponse `json:"candidates"`
}

func toEligibilityResponse(res registration.EligibilityResult) eligibilityResponse {
	return eligibilityResponse{
		Outcome:    string(res.Outcome),
		AgeYears:   res.AgeYears,
		AgeDays:    res.AgeDays,
		Candidates: toGroupResponses(res.Candidates),
	}
}

type submitResponse struct {
	Registration registrationResponse `json:"registration"`
	Outcome      string               `json:"outcome"`
	Candidates   []groupResponse      `json:"candidates"`
}

type createGroupRequest struct {
	Name           string `json:"name"`
	Gender         string `json:"gender"`
	MinimumAgeDays int    `json:"minimumAgeDays"`
	MaximumAgeDays *int   `json:"maximumAgeDays,omitempty"`
}

type updateGroupRequest struct {
	Name           nullable.Nullable[string] `json:"name,omitempty"`
	Gender         nullable.Nullable[string] `json:"gender,omitempty"`
	MinimumAgeDays nullable.Nullable[int]    `json:"minimumAgeDays,omitempty"`
	MaximumAgeDays nullable.Nullable[int]    `json:"maximumAgeDays,omitempty"`
	IsActive       nullable.Nullable[bool]   `json:"isActive,omitempty"`
}

func (req updateGroupRequest) toPatch() groups.GroupPatch {
	return groups.GroupPatch{
		Name:           optionalFrom(req.Name),
		Gender:         optionalFrom(req.Gender),
		MinimumAgeDays: optionalFrom(req.MinimumAgeDays),
		MaximumAgeDays: optionalFrom(req.MaximumAgeDays),
		IsActive:       optionalFrom(req.IsActive),
	}
}

// optionalFrom converts the wire-level tri-state into the app layer's.
func optionalFrom[T any](n nullable.Nullable[T]) groups.Optional[T] {
	if !n.IsSpecified() {
		return groups.Unspecified[T]()
	}
	if n.IsNull() {
		return groups.Null[T]()
	}
	v, _ := n.Get()
	return groups.Some(v)
}

type startWorkYearRequest struct {
	StartDate openapi_types.Date `json:"startDate"`
}

type closeWorkYearRequest struct {
	EndDate openapi_types.Date `json:"endDate"`
}

func parseDateParam(raw string) (openapi_types.Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return openapi_types.Date{}, err
	}
	return openapi_types.Date{Time: t}, nil
}

func parseGenderParam(raw string) (domain.Gender, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "MALE", "M":
		return domain.GenderMale, true
	case "FEMALE", "F":
		return domain.GenderFemale, true
	case "OTHER", "X":
		return domain.GenderOther, true
	default:
		return "", false
	}
}
