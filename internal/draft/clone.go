package draft

import (
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/chiro-horizon/registration-api/internal/domain"
)

// Clone returns a deep copy. Merge relies on it so that callers can hold on
// to earlier drafts and replay steps without surprises.
func (d Draft) Clone() Draft {
	out := Draft{}

	if d.Member != nil {
		m := *d.Member
		m.DateOfBirth = cloneDatePtr(d.Member.DateOfBirth)
		m.Email = cloneStringPtr(d.Member.Email)
		m.Phone = cloneStringPtr(d.Member.Phone)
		out.Member = &m
	}

	if d.Parents != nil {
		out.Parents = make([]ParentPatch, len(d.Parents))
		for i, p := range d.Parents {
			out.Parents[i] = cloneParent(p)
		}
	}

	if d.EmergencyContact != nil {
		ec := *d.EmergencyContact
		out.EmergencyContact = &ec
	}

	if d.Medical != nil {
		med := *d.Medical
		med.TetanusVaccineYear = cloneIntPtr(d.Medical.TetanusVaccineYear)
		out.Medical = &med
	}

	if d.Conditions != nil {
		out.Conditions = make(map[domain.ConditionName]ConditionPatch, len(d.Conditions))
		for name, c := range d.Conditions {
			out.Conditions[name] = ConditionPatch{
				Has:  cloneNullable(c.Has),
				Info: cloneNullable(c.Info),
			}
		}
	}

	if d.Doctor != nil {
		doc := *d.Doctor
		out.Doctor = &doc
	}

	if d.Payment != nil {
		p := *d.Payment
		p.Method = cloneStringPtr(d.Payment.Method)
		p.Date = cloneDatePtr(d.Payment.Date)
		out.Payment = &p
	}

	out.GroupID = cloneStringPtr(d.GroupID)

	return out
}

func cloneParent(p ParentPatch) ParentPatch {
	return ParentPatch{
		Relationship: cloneNullable(p.Relationship),
		FirstName:    cloneNullable(p.FirstName),
		LastName:     cloneNullable(p.LastName),
		Phone:        cloneNullable(p.Phone),
		Email:        cloneNullable(p.Email),
		Street:       cloneNullable(p.Street),
		HouseNumber:  cloneNullable(p.HouseNumber),
		Box:          cloneNullable(p.Box),
		PostalCode:   cloneNullable(p.PostalCode),
		Municipality: cloneNullable(p.Municipality),
		IsPrimary:    cloneNullable(p.IsPrimary),
	}
}

// cloneNullable copies the backing map so merged drafts never share state
// with their inputs. Unspecified stays nil to keep deep-equality intact.
func cloneNullable[T any](n nullable.Nullable[T]) nullable.Nullable[T] {
	if len(n) == 0 {
		return nil
	}
	out := make(nullable.Nullable[T], len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDatePtr(p *openapi_types.Date) *openapi_types.Date {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
