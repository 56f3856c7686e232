package validate

import (
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/draft"
	"github.com/chiro-horizon/registration-api/internal/eligibility"
)

const (
	maxNameLen     = 100
	maxStreetLen   = 200
	maxHouseNrLen  = 10
	maxBoxLen      = 10
	maxFreeTextLen = 1000
)

// Validate runs the composed schema against a completed draft. Field-level
// rules run first, then the cross-field refinements in their fixed order;
// every violated rule is reported in one pass so the form can render all
// errors at once. On success it returns the normalized registration record
// (without identifiers, which the caller assigns).
//
// now drives the age-dependent rules; inject a fixed time in tests.
func (s Schema) Validate(d draft.Draft, now time.Time) (domain.Registration, Errors) {
	var errs Errors
	var reg domain.Registration

	s.validateMember(d, now, &reg, &errs)
	s.validateParents(d, &reg, &errs)
	if s.flags.EmergencyContact {
		s.validateEmergencyContact(d, &reg, &errs)
	}
	if s.flags.Medical {
		s.validateMedical(d, now, &reg, &errs)
		s.validateConditions(d, &reg, &errs)
	}
	if s.flags.Doctor {
		s.validateDoctor(d, &reg, &errs)
	}
	if s.flags.Payment {
		s.validatePayment(d, &reg, &errs)
	}

	// A field that already failed its own rule keeps that single message;
	// refinements never stack a second error on the same path.
	flagged := make(map[string]bool, len(errs))
	for _, e := range errs {
		flagged[e.Path] = true
	}
	for _, ref := range s.refinements {
		for _, fe := range ref.Check(&reg, now) {
			if flagged[fe.Path] {
				continue
			}
			flagged[fe.Path] = true
			errs = append(errs, fe)
		}
	}

	if len(errs) > 0 {
		return domain.Registration{}, errs
	}
	return reg, nil
}

func (s Schema) validateMember(d draft.Draft, now time.Time, reg *domain.Registration, errs *Errors) {
	if d.Member == nil {
		*errs = append(*errs, FieldError{Path: "member", Kind: KindStructural, Message: "member details are required"})
		return
	}
	m := d.Member

	first, ferr := RequiredText("member.firstName", domain.NormalizeHumanName(m.FirstName), maxNameLen)
	errs.add(ferr)
	last, ferr := RequiredText("member.lastName", domain.NormalizeHumanName(m.LastName), maxNameLen)
	errs.add(ferr)
	reg.Member.FirstName = first
	reg.Member.LastName = last

	gender, ferr := parseGender("member.gender", m.Gender)
	errs.add(ferr)
	reg.Member.Gender = gender

	if m.DateOfBirth == nil {
		*errs = append(*errs, FieldError{Path: "member.dateOfBirth", Kind: KindEmpty, Message: "must not be empty"})
	} else {
		dob := m.DateOfBirth.Time
		if err := eligibility.ValidateBirthDate(dob, now); err != nil {
			*errs = append(*errs, FieldError{Path: "member.dateOfBirth", Kind: KindInvalidDate, Message: err.Error()})
		} else {
			reg.Member.DateOfBirth = dob
		}
	}

	// The member's own contact details are optional at the field level; the
	// age-gated refinement decides whether absence is acceptable.
	if m.Email != nil && strings.TrimSpace(*m.Email) != "" {
		if email, ferr := EmailAddress("member.email", *m.Email); ferr != nil {
			errs.add(ferr)
		} else {
			reg.Member.Email = &email
		}
	}
	if m.Phone != nil && strings.TrimSpace(*m.Phone) != "" {
		if phone, ferr := PhoneNumber("member.phone", *m.Phone); ferr != nil {
			errs.add(ferr)
		} else {
			reg.Member.Phone = &phone
		}
	}

	// Below age 11 the member's own contact details are not collected; stale
	// values from an earlier step are dropped rather than rejected.
	if !reg.Member.DateOfBirth.IsZero() {
		if age, err := eligibility.AgeInYears(reg.Member.DateOfBirth, now); err == nil && age < 11 {
			reg.Member.Email = nil
			reg.Member.Phone = nil
		}
	}

	reg.Member.PhotoConsent = bool(m.PhotoConsent)
}

func (s Schema) validateParents(d draft.Draft, reg *domain.Registration, errs *Errors) {
	if len(d.Parents) == 0 {
		*errs = append(*errs, FieldError{Path: "parents", Kind: KindStructural, Message: "at least one parent or guardian is required"})
		return
	}

	parents := make([]domain.Parent, len(d.Parents))
	primaries := 0
	for i, p := range d.Parents {
		var out domain.Parent

		rel, ferr := parseRelationship(indexedPath("parents", i, "relationship"), nstr(p.Relationship))
		errs.add(ferr)
		out.Relationship = rel

		out.FirstName, ferr = RequiredText(indexedPath("parents", i, "firstName"), domain.NormalizeHumanName(nstr(p.FirstName)), maxNameLen)
		errs.add(ferr)
		out.LastName, ferr = RequiredText(indexedPath("parents", i, "lastName"), domain.NormalizeHumanName(nstr(p.LastName)), maxNameLen)
		errs.add(ferr)

		if phone := nstr(p.Phone); strings.TrimSpace(phone) == "" {
			*errs = append(*errs, FieldError{Path: indexedPath("parents", i, "phone"), Kind: KindEmpty, Message: "must not be empty"})
		} else {
			out.Phone, ferr = PhoneNumber(indexedPath("parents", i, "phone"), phone)
			errs.add(ferr)
		}
		if email := nstr(p.Email); strings.TrimSpace(email) == "" {
			*errs = append(*errs, FieldError{Path: indexedPath("parents", i, "email"), Kind: KindEmpty, Message: "must not be empty"})
		} else {
			out.Email, ferr = EmailAddress(indexedPath("parents", i, "email"), email)
			errs.add(ferr)
		}

		out.Address.Street, ferr = RequiredText(indexedPath("parents", i, "street"), nstr(p.Street), maxStreetLen)
		errs.add(ferr)
		out.Address.HouseNumber, ferr = RequiredText(indexedPath("parents", i, "houseNumber"), nstr(p.HouseNumber), maxHouseNrLen)
		errs.add(ferr)
		out.Address.Box, ferr = OptionalText(indexedPath("parents", i, "box"), nstr(p.Box), maxBoxLen)
		errs.add(ferr)

		if pc, ok := nint(p.PostalCode); !ok {
			*errs = append(*errs, FieldError{Path: indexedPath("parents", i, "postalCode"), Kind: KindEmpty, Message: "must not be empty"})
		} else {
			out.Address.PostalCode, ferr = PostalCode(indexedPath("parents", i, "postalCode"), pc)
			errs.add(ferr)
		}
		out.Address.Municipality, ferr = RequiredText(indexedPath("parents", i, "municipality"), nstr(p.Municipality), maxNameLen)
		errs.add(ferr)

		out.IsPrimary = nboolean(p.IsPrimary)
		if out.IsPrimary {
			primaries++
		}
		parents[i] = out
	}

	switch {
	case primaries == 0:
		// Index 0 is the default primary contact.
		parents[0].IsPrimary = true
	case primaries > 1:
		*errs = append(*errs, FieldError{Path: "parents", Kind: KindStructural, Message: "only one parent may be flagged as primary contact"})
	}

	reg.Parents = parents
}

func (s Schema) validateEmergencyContact(d draft.Draft, reg *domain.Registration, errs *Errors) {
	if d.EmergencyContact == nil {
		*errs = append(*errs, FieldError{Path: "emergencyContact", Kind: KindStructural, Message: "an emergency contact is required"})
		return
	}
	ec := d.EmergencyContact

	var ferr *FieldError
	reg.EmergencyContact.Name, ferr = RequiredText("emergencyContact.name", domain.NormalizeHumanName(ec.Name), maxNameLen)
	errs.add(ferr)
	if strings.TrimSpace(ec.Phone) == "" {
		*errs = append(*errs, FieldError{Path: "emergencyContact.phone", Kind: KindEmpty, Message: "must not be empty"})
	} else {
		reg.EmergencyContact.Phone, ferr = PhoneNumber("emergencyContact.phone", ec.Phone)
		errs.add(ferr)
	}
	rel, ferr := OptionalText("emergencyContact.relationship", ec.Relationship, maxNameLen)
	errs.add(ferr)
	if rel != nil {
		reg.EmergencyContact.Relationship = *rel
	}
}

func (s Schema) validateMedical(d draft.Draft, now time.Time, reg *domain.Registration, errs *Errors) {
	if d.Medical == nil {
		*errs = append(*errs, FieldError{Path: "medical", Kind: KindStructural, Message: "the medical sheet is required"})
		return
	}
	med := d.Medical

	past, ferr := OptionalText("medical.pastHistory", med.PastHistory, maxFreeTextLen)
	errs.add(ferr)
	if past != nil {
		reg.Medical.PastHistory = *past
	}

	reg.Medical.TakesMedication = bool(med.TakesMedication)
	medication, ferr := OptionalText("medical.medication", med.Medication, maxFreeTextLen)
	errs.add(ferr)
	if reg.Medical.TakesMedication && medication != nil {
		reg.Medical.Medication = *medication
	}

	reg.Medical.TetanusVaccinated = bool(med.TetanusVaccinated)
	if reg.Medical.TetanusVaccinated && med.TetanusVaccineYear != nil {
		if year, ferr := Year("medical.tetanusVaccineYear", *med.TetanusVaccineYear, 1900, now.Year()); ferr != nil {
			errs.add(ferr)
		} else {
			reg.Medical.TetanusVaccineYear = &year
		}
	}

	other, ferr := OptionalText("medical.otherConditions", med.OtherConditions, maxFreeTextLen)
	errs.add(ferr)
	if other != nil {
		reg.Medical.OtherConditions = *other
	}

	reg.Medical.GetsTiredQuickly = bool(med.GetsTiredQuickly)
	reg.Medical.CanParticipateSport = bool(med.CanParticipateSport)
	reg.Medical.CanSwim = bool(med.CanSwim)
}

func (s Schema) validateConditions(d draft.Draft, reg *domain.Registration, errs *Errors) {
	conditions := make([]domain.Condition, 0, len(ConditionPolicies))
	for _, policy := range ConditionPolicies {
		patch := d.Conditions[policy.Name]
		c := domain.Condition{Name: policy.Name, Has: nboolean(patch.Has)}

		info, ferr := OptionalText(conditionInfoPath(policy.Name), nstr(patch.Info), policy.MaxInfoLength)
		errs.add(ferr)
		// Info only survives while the condition is checked.
		if c.Has && info != nil {
			c.Info = *info
		}
		conditions = append(conditions, c)
	}
	reg.Conditions = conditions
}

func (s Schema) validateDoctor(d draft.Draft, reg *domain.Registration, errs *Errors) {
	if d.Doctor == nil {
		*errs = append(*errs, FieldError{Path: "doctor", Kind: KindStructural, Message: "the house doctor is required"})
		return
	}

	var ferr *FieldError
	reg.Doctor.Name, ferr = RequiredText("doctor.name", domain.NormalizeHumanName(d.Doctor.Name), maxNameLen)
	errs.add(ferr)
	if strings.TrimSpace(d.Doctor.Phone) == "" {
		*errs = append(*errs, FieldError{Path: "doctor.phone", Kind: KindEmpty, Message: "must not be empty"})
	} else {
		reg.Doctor.Phone, ferr = PhoneNumber("doctor.phone", d.Doctor.Phone)
		errs.add(ferr)
	}
}

func (s Schema) validatePayment(d draft.Draft, reg *domain.Registration, errs *Errors) {
	if d.Payment == nil {
		return
	}
	p := d.Payment

	reg.Payment.Received = bool(p.Received)
	if p.Method != nil && strings.TrimSpace(*p.Method) != "" {
		method, ferr := parsePaymentMethod("payment.method", *p.Method)
		if ferr != nil {
			errs.add(ferr)
		} else {
			reg.Payment.Method = &method
		}
	}
	if reg.Payment.Received && p.Date != nil {
		date := p.Date.Time
		reg.Payment.Date = &date
	}
}

func parseGender(path, value string) (domain.Gender, *FieldError) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "MALE", "M":
		return domain.GenderMale, nil
	case "FEMALE", "F":
		return domain.GenderFemale, nil
	case "OTHER", "X":
		return domain.GenderOther, nil
	case "":
		return "", &FieldError{Path: path, Kind: KindEmpty, Message: "must not be empty"}
	default:
		return "", &FieldError{Path: path, Kind: KindInvalidFormat, Message: "must be male, female or other"}
	}
}

func parseRelationship(path, value string) (domain.Relationship, *FieldError) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "MOTHER":
		return domain.RelationshipMother, nil
	case "FATHER":
		return domain.RelationshipFather, nil
	case "GUARDIAN":
		return domain.RelationshipGuardian, nil
	case "STEPMOTHER":
		return domain.RelationshipStepmother, nil
	case "STEPFATHER":
		return domain.RelationshipStepfather, nil
	case "":
		return "", &FieldError{Path: path, Kind: KindEmpty, Message: "must not be empty"}
	default:
		return "", &FieldError{Path: path, Kind: KindInvalidFormat, Message: "must be mother, father, guardian, stepmother or stepfather"}
	}
}

func parsePaymentMethod(path, value string) (domain.PaymentMethod, *FieldError) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "CASH":
		return domain.PaymentMethodCash, nil
	case "TRANSFER":
		return domain.PaymentMethodTransfer, nil
	case "PAYCONIQ":
		return domain.PaymentMethodPayconiq, nil
	case "OTHER":
		return domain.PaymentMethodOther, nil
	default:
		return "", &FieldError{Path: path, Kind: KindInvalidFormat, Message: "must be cash, transfer, payconiq or other"}
	}
}

// nstr reads a tri-state string field, treating unspecified and null as "".
func nstr(n nullable.Nullable[string]) string {
	v, err := n.Get()
	if err != nil {
		return ""
	}
	return v
}

// nint reads a tri-state int field; ok is false for unspecified and null.
func nint(n nullable.Nullable[int]) (int, bool) {
	v, err := n.Get()
	if err != nil {
		return 0, false
	}
	return v, true
}

// nboolean reads a tri-state flag, treating unspecified and null as false.
func nboolean(n nullable.Nullable[draft.Bool]) bool {
	v, err := n.Get()
	if err != nil {
		return false
	}
	return bool(v)
}
