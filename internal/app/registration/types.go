package registration

import (
	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/validate"
)

// Flow identifies which registration flow is submitting: the public signup
// form or the staff portal (which additionally records the membership fee).
type Flow string

const (
	FlowPublic Flow = "PUBLIC"
	FlowStaff  Flow = "STAFF"
)

func (f Flow) sections() validate.SectionFlags {
	if f == FlowStaff {
		return validate.StaffSections()
	}
	return validate.PublicSections()
}

// EligibilityOutcome tells the caller how group resolution went. None and
// Multiple are valid results the UI must branch on, not failures.
type EligibilityOutcome string

const (
	EligibilityNone     EligibilityOutcome = "NONE"
	EligibilitySingle   EligibilityOutcome = "SINGLE"
	EligibilityMultiple EligibilityOutcome = "MULTIPLE"
)

func outcomeFor(n int) EligibilityOutcome {
	switch {
	case n == 0:
		return EligibilityNone
	case n == 1:
		return EligibilitySingle
	default:
		return EligibilityMultiple
	}
}

// EligibilityResult is the group-resolution answer for a birth date/gender
// pair against the current work year's catalog.
type EligibilityResult struct {
	Outcome    EligibilityOutcome
	AgeYears   int
	AgeDays    int
	Candidates []domain.Group
}

// SubmitResult is a successfully persisted registration plus how its group
// was resolved.
type SubmitResult struct {
	Registration domain.Registration
	Outcome      EligibilityOutcome
	Candidates   []domain.Group
}

// DraftDefaults seeds a fresh draft so the first form step opens with the
// organization's home municipality prefilled for the first parent.
type DraftDefaults struct {
	PostalCode   int
	Municipality string
}
