package draft

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/chiro-horizon/registration-api/internal/domain"
)

// Merge folds one form step into the accumulating draft and returns a new
// value; neither input is mutated. Top-level sections are overwritten
// wholesale when the step carries them, parents merge positionally
// field-by-field (the incoming length wins), and conditions merge
// field-by-field per name. now is used to stamp the payment date when the
// received flag flips true.
func Merge(current, incoming Draft, now time.Time) Draft {
	out := current.Clone()

	if incoming.Member != nil {
		m := *incoming.Member
		m.DateOfBirth = cloneDatePtr(incoming.Member.DateOfBirth)
		m.Email = cloneStringPtr(incoming.Member.Email)
		m.Phone = cloneStringPtr(incoming.Member.Phone)
		out.Member = &m
	}

	if incoming.Parents != nil {
		merged := make([]ParentPatch, len(incoming.Parents))
		for i, inc := range incoming.Parents {
			var cur ParentPatch
			if i < len(current.Parents) {
				cur = current.Parents[i]
			}
			merged[i] = mergeParent(cur, inc)
		}
		out.Parents = merged
	}

	if incoming.EmergencyContact != nil {
		ec := *incoming.EmergencyContact
		out.EmergencyContact = &ec
	}

	if incoming.Medical != nil {
		med := *incoming.Medical
		med.TetanusVaccineYear = cloneIntPtr(incoming.Medical.TetanusVaccineYear)
		// Dependent fields reset uniformly when their flag is off.
		if !bool(med.TakesMedication) {
			med.Medication = ""
		}
		if !bool(med.TetanusVaccinated) {
			med.TetanusVaccineYear = nil
		}
		out.Medical = &med
	}

	if incoming.Conditions != nil {
		if out.Conditions == nil {
			out.Conditions = make(map[domain.ConditionName]ConditionPatch, len(incoming.Conditions))
		}
		for name, inc := range incoming.Conditions {
			out.Conditions[name] = mergeCondition(out.Conditions[name], inc)
		}
	}

	if incoming.Doctor != nil {
		d := *incoming.Doctor
		out.Doctor = &d
	}

	if incoming.Payment != nil {
		out.Payment = mergePayment(current.Payment, *incoming.Payment, now)
	}

	if incoming.GroupID != nil {
		out.GroupID = cloneStringPtr(incoming.GroupID)
	}

	return out
}

func mergeParent(cur, inc ParentPatch) ParentPatch {
	return ParentPatch{
		Relationship: mergeNullable(cur.Relationship, inc.Relationship),
		FirstName:    mergeNullable(cur.FirstName, inc.FirstName),
		LastName:     mergeNullable(cur.LastName, inc.LastName),
		Phone:        mergeNullable(cur.Phone, inc.Phone),
		Email:        mergeNullable(cur.Email, inc.Email),
		Street:       mergeNullable(cur.Street, inc.Street),
		HouseNumber:  mergeNullable(cur.HouseNumber, inc.HouseNumber),
		Box:          mergeNullable(cur.Box, inc.Box),
		PostalCode:   mergeNullable(cur.PostalCode, inc.PostalCode),
		Municipality: mergeNullable(cur.Municipality, inc.Municipality),
		IsPrimary:    mergeNullable(cur.IsPrimary, inc.IsPrimary),
	}
}

func mergeCondition(cur, inc ConditionPatch) ConditionPatch {
	out := ConditionPatch{
		Has:  mergeNullable(cur.Has, inc.Has),
		Info: mergeNullable(cur.Info, inc.Info),
	}
	// Unchecking a condition discards its description, no matter which step
	// supplied the text.
	if v, err := out.Has.Get(); err == nil && !bool(v) {
		out.Info = nil
	}
	return out
}

func mergePayment(cur *PaymentStep, inc PaymentStep, now time.Time) *PaymentStep {
	out := PaymentStep{
		Received: inc.Received,
		Method:   cloneStringPtr(inc.Method),
	}
	wasReceived := cur != nil && bool(cur.Received)
	switch {
	case bool(inc.Received) && !wasReceived:
		d := openapi_types.Date{Time: truncateToDay(now)}
		out.Date = &d
	case bool(inc.Received):
		// Still received: keep the original payment date.
		out.Date = cloneDatePtr(cur.Date)
	default:
		out.Date = nil
	}
	return &out
}

// mergeNullable returns the incoming field when the step specified it
// (including an explicit null), the current one otherwise.
func mergeNullable[T any](cur, inc nullable.Nullable[T]) nullable.Nullable[T] {
	if inc.IsSpecified() {
		return cloneNullable(inc)
	}
	return cloneNullable(cur)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
