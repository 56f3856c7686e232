package draft

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/chiro-horizon/registration-api/internal/domain"
)

// Bool accepts both a native JSON boolean and the legacy "true"/"false"
// enumerated text some form flows still post. It always marshals back as a
// native boolean, so the stored draft carries one consistent representation.
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*b = true
		return nil
	case "false", "null":
		*b = false
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid boolean value %s", data)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		*b = true
	case "false", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %q", s)
	}
	return nil
}

// MemberStep is the registrant step of the form. The whole section is
// submitted at once, so its fields are plain values.
type MemberStep struct {
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName"`
	Gender       string             `json:"gender"`
	DateOfBirth  *openapi_types.Date `json:"dateOfBirth,omitempty"`
	Email        *string            `json:"email,omitempty"`
	Phone        *string            `json:"phone,omitempty"`
	PhotoConsent Bool               `json:"photoConsent"`
}

// ParentPatch is one entry of the parent step. Fields are tri-state so a
// later step can fill in a single address field without erasing the rest;
// entries merge positionally.
type ParentPatch struct {
	Relationship nullable.Nullable[string] `json:"relationship,omitempty"`
	FirstName    nullable.Nullable[string] `json:"firstName,omitempty"`
	LastName     nullable.Nullable[string] `json:"lastName,omitempty"`
	Phone        nullable.Nullable[string] `json:"phone,omitempty"`
	Email        nullable.Nullable[string] `json:"email,omitempty"`
	Street       nullable.Nullable[string] `json:"street,omitempty"`
	HouseNumber  nullable.Nullable[string] `json:"houseNumber,omitempty"`
	Box          nullable.Nullable[string] `json:"box,omitempty"`
	PostalCode   nullable.Nullable[int]    `json:"postalCode,omitempty"`
	Municipality nullable.Nullable[string] `json:"municipality,omitempty"`
	IsPrimary    nullable.Nullable[Bool]   `json:"isPrimary,omitempty"`
}

// EmergencyContactStep is the fallback-contact section.
type EmergencyContactStep struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// ConditionPatch is the flag/info pair for one named condition. Both fields
// are tri-state: checking the box and describing it may happen in different
// steps.
type ConditionPatch struct {
	Has  nullable.Nullable[Bool]   `json:"hasCondition,omitempty"`
	Info nullable.Nullable[string] `json:"info,omitempty"`
}

// MedicalStep is the free-form part of the medical sheet.
type MedicalStep struct {
	PastHistory         string `json:"pastHistory"`
	TakesMedication     Bool   `json:"takesMedication"`
	Medication          string `json:"medication"`
	TetanusVaccinated   Bool   `json:"tetanusVaccinated"`
	TetanusVaccineYear  *int   `json:"tetanusVaccineYear,omitempty"`
	OtherConditions     string `json:"otherConditions"`
	GetsTiredQuickly    Bool   `json:"getsTiredQuickly"`
	CanParticipateSport Bool   `json:"canParticipateSport"`
	CanSwim             Bool   `json:"canSwim"`
}

// DoctorStep is the house-doctor section.
type DoctorStep struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PaymentStep is the staff-only payment section. Date is never submitted by
// the form: the merger derives it from Received transitions.
type PaymentStep struct {
	Received Bool                `json:"received"`
	Method   *string             `json:"method,omitempty"`
	Date     *openapi_types.Date `json:"date,omitempty"`
}

// Draft is the accumulating, partially-filled registration spanning the form
// steps. A nil section means no step has touched it yet.
type Draft struct {
	Member           *MemberStep                              `json:"member,omitempty"`
	Parents          []ParentPatch                            `json:"parents,omitempty"`
	EmergencyContact *EmergencyContactStep                    `json:"emergencyContact,omitempty"`
	Medical          *MedicalStep                             `json:"medical,omitempty"`
	Conditions       map[domain.ConditionName]ConditionPatch  `json:"conditions,omitempty"`
	Doctor           *DoctorStep                              `json:"doctor,omitempty"`
	Payment          *PaymentStep                             `json:"payment,omitempty"`

	// GroupID is the explicit group choice when eligibility is ambiguous.
	GroupID *string `json:"groupId,omitempty"`
}

// Encode serializes a draft for the draft store.
func Encode(d Draft) ([]byte, error) {
	return json.Marshal(d)
}

// Decode restores a draft previously produced by Encode.
func Decode(data []byte) (Draft, error) {
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	return d, nil
}
