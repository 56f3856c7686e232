package validate

import "github.com/chiro-horizon/registration-api/internal/domain"

// ConditionPolicy describes how one tracked condition validates: whether the
// descriptive text is mandatory once the condition is flagged, and how long
// it may be. One table entry replaces the per-condition checkbox/textarea
// branching the forms would otherwise duplicate nine times over.
type ConditionPolicy struct {
	Name          domain.ConditionName
	InfoRequired  bool
	MaxInfoLength int
}

// ConditionPolicies drives condition merging and validation. Slice order
// fixes the error ordering for condition failures.
var ConditionPolicies = []ConditionPolicy{
	{Name: domain.ConditionAsthma, MaxInfoLength: 500},
	{Name: domain.ConditionBedwetting, MaxInfoLength: 500},
	{Name: domain.ConditionEpilepsy, MaxInfoLength: 500},
	{Name: domain.ConditionHeartCondition, MaxInfoLength: 500},
	{Name: domain.ConditionHayFever, MaxInfoLength: 500},
	{Name: domain.ConditionSkinCondition, MaxInfoLength: 500},
	{Name: domain.ConditionRheumatism, MaxInfoLength: 500},
	{Name: domain.ConditionSleepwalking, MaxInfoLength: 500},
	{Name: domain.ConditionDiabetes, MaxInfoLength: 500},
	{Name: domain.ConditionFoodAllergies, InfoRequired: true, MaxInfoLength: 500},
	{Name: domain.ConditionSubstanceAllergies, InfoRequired: true, MaxInfoLength: 500},
	{Name: domain.ConditionMedicationAllergies, InfoRequired: true, MaxInfoLength: 500},
}

// PolicyFor looks a condition policy up by name.
func PolicyFor(name domain.ConditionName) (ConditionPolicy, bool) {
	for _, p := range ConditionPolicies {
		if p.Name == name {
			return p, true
		}
	}
	return ConditionPolicy{}, false
}

// conditionInfoPath addresses a condition's descriptive text field.
func conditionInfoPath(name domain.ConditionName) string {
	return "conditions." + string(name) + ".info"
}
