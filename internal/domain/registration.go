package domain

import "time"

// Relationship is a parent/guardian's relationship to the member.
type Relationship string

const (
	RelationshipMother     Relationship = "MOTHER"
	RelationshipFather     Relationship = "FATHER"
	RelationshipGuardian   Relationship = "GUARDIAN"
	RelationshipStepmother Relationship = "STEPMOTHER"
	RelationshipStepfather Relationship = "STEPFATHER"
)

// PaymentMethod is how a membership fee was settled.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodPayconiq PaymentMethod = "PAYCONIQ"
	PaymentMethodOther    PaymentMethod = "OTHER"
)

// ConditionName identifies one tracked medical condition or allergy.
type ConditionName string

const (
	ConditionAsthma              ConditionName = "asthma"
	ConditionBedwetting          ConditionName = "bedwetting"
	ConditionEpilepsy            ConditionName = "epilepsy"
	ConditionHeartCondition      ConditionName = "heartCondition"
	ConditionHayFever            ConditionName = "hayFever"
	ConditionSkinCondition       ConditionName = "skinCondition"
	ConditionRheumatism          ConditionName = "rheumatism"
	ConditionSleepwalking        ConditionName = "sleepwalking"
	ConditionDiabetes            ConditionName = "diabetes"
	ConditionFoodAllergies       ConditionName = "foodAllergies"
	ConditionSubstanceAllergies  ConditionName = "substanceAllergies"
	ConditionMedicationAllergies ConditionName = "medicationAllergies"
)

// Member is the registrant's own details.
type Member struct {
	FirstName   string
	LastName    string
	Gender      Gender
	DateOfBirth time.Time // date-only semantics

	// Email and Phone are required from age 15 and cleared below age 11.
	Email *string
	Phone *string

	PhotoConsent bool
}

// Address is a Belgian street address.
type Address struct {
	Street       string
	HouseNumber  string
	Box          *string
	PostalCode   int
	Municipality string
}

// Parent is one parent/guardian contact. Parents are ordered; index 0 is the
// default primary contact.
type Parent struct {
	Relationship Relationship
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	Address      Address
	IsPrimary    bool
}

// EmergencyContact is a fallback contact when no parent can be reached.
type EmergencyContact struct {
	Name         string
	Phone        string
	Relationship string
}

// Condition is one named medical condition: a flag plus descriptive text.
// Info is always empty when Has is false.
type Condition struct {
	Name ConditionName
	Has  bool
	Info string
}

// MedicalHistory is the free-form part of the medical sheet.
type MedicalHistory struct {
	PastHistory string

	TakesMedication bool
	Medication      string

	TetanusVaccinated  bool
	TetanusVaccineYear *int

	OtherConditions string

	GetsTiredQuickly    bool
	CanParticipateSport bool
	CanSwim             bool
}

// Doctor is the member's house doctor.
type Doctor struct {
	Name  string
	Phone string
}

// Payment records whether the membership fee was received. Date is set when
// Received flips true and cleared when it flips back.
type Payment struct {
	Received bool
	Method   *PaymentMethod
	Date     *time.Time
}

// Registration is the validated, normalized record produced from a completed
// draft. It is what the persistence layer stores for a work year.
type Registration struct {
	ID         RegistrationID
	WorkYearID WorkYearID

	// GroupID is nil when eligibility resolved to zero groups and staff must
	// assign one manually.
	GroupID *GroupID

	Member           Member
	Parents          []Parent
	EmergencyContact EmergencyContact
	Medical          MedicalHistory
	Conditions       []Condition
	Doctor           Doctor
	Payment          Payment

	CreatedAt time.Time
	UpdatedAt time.Time
}
