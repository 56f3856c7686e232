package validate

import (
	"time"

	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/eligibility"
)

// Refinement is one named cross-field rule. Each is a pure function over the
// normalized candidate so it can be unit-tested on its own; failures attach
// to the specific field they concern, not to the record as a whole.
type Refinement struct {
	Name  string
	Check func(reg *domain.Registration, now time.Time) []FieldError
}

// AgeGatedContact requires the member's own phone and email from age 15.
var AgeGatedContact = Refinement{
	Name: "age-gated-contact",
	Check: func(reg *domain.Registration, now time.Time) []FieldError {
		if reg.Member.DateOfBirth.IsZero() {
			return nil
		}
		age, err := eligibility.AgeInYears(reg.Member.DateOfBirth, now)
		if err != nil || age < 15 {
			return nil
		}
		var errs []FieldError
		if reg.Member.Email == nil {
			errs = append(errs, FieldError{Path: "member.email", Kind: KindRequired, Message: "required for members aged 15 and over"})
		}
		if reg.Member.Phone == nil {
			errs = append(errs, FieldError{Path: "member.phone", Kind: KindRequired, Message: "required for members aged 15 and over"})
		}
		return errs
	},
}

// ConditionInfoRequired enforces the policy table: conditions whose policy
// marks the description mandatory must carry one once flagged.
var ConditionInfoRequired = Refinement{
	Name: "condition-info-required",
	Check: func(reg *domain.Registration, _ time.Time) []FieldError {
		var errs []FieldError
		for _, c := range reg.Conditions {
			policy, ok := PolicyFor(c.Name)
			if !ok || !policy.InfoRequired {
				continue
			}
			if c.Has && c.Info == "" {
				errs = append(errs, FieldError{
					Path:    conditionInfoPath(c.Name),
					Kind:    KindRequired,
					Message: "a description is required when this condition is checked",
				})
			}
		}
		return errs
	},
}

// MedicationPairing requires the medication description once the
// takes-medication flag is set.
var MedicationPairing = Refinement{
	Name: "medication-pairing",
	Check: func(reg *domain.Registration, _ time.Time) []FieldError {
		if reg.Medical.TakesMedication && reg.Medical.Medication == "" {
			return []FieldError{{
				Path:    "medical.medication",
				Kind:    KindRequired,
				Message: "describe the medication when the member has to take any",
			}}
		}
		return nil
	},
}
