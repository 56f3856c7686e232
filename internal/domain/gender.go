package domain

// Gender is the registrant's gender as captured on the signup form.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// GroupGender is a group's gender constraint. Unconstrained groups accept
// every registrant.
type GroupGender string

const (
	GroupGenderMale   GroupGender = "MALE"
	GroupGenderFemale GroupGender = "FEMALE"
	GroupGenderMixed  GroupGender = "MIXED"
)

// Admits reports whether a group with this constraint accepts a registrant
// of gender g. Registrants with gender OTHER only match unconstrained groups.
func (gg GroupGender) Admits(g Gender) bool {
	switch gg {
	case GroupGenderMixed, "":
		return true
	case GroupGenderMale:
		return g == GenderMale
	case GroupGenderFemale:
		return g == GenderFemale
	default:
		return false
	}
}
