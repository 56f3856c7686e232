package validate

// SectionFlags selects which sections a registration flow carries. The
// member and parent sections are always present; the others can be omitted
// by flows that do not collect them (the public form has no payment section).
type SectionFlags struct {
	EmergencyContact bool
	Medical          bool
	Doctor           bool
	Payment          bool
}

// PublicSections is the section set of the public signup flow.
func PublicSections() SectionFlags {
	return SectionFlags{EmergencyContact: true, Medical: true, Doctor: true}
}

// StaffSections is the section set of the staff-facing flow, which also
// records the membership fee.
func StaffSections() SectionFlags {
	return SectionFlags{EmergencyContact: true, Medical: true, Doctor: true, Payment: true}
}

// Schema is a composed registration schema: the selected sections plus the
// ordered cross-field refinements. Build it once per flow and reuse it.
type Schema struct {
	flags       SectionFlags
	refinements []Refinement
}

// BuildSchema composes the full registration schema for the given sections.
// The refinement order is fixed so error ordering is deterministic.
func BuildSchema(flags SectionFlags) Schema {
	return Schema{
		flags: flags,
		refinements: []Refinement{
			AgeGatedContact,
			ConditionInfoRequired,
			MedicationPairing,
		},
	}
}
