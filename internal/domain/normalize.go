package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal
// whitespace runs. It is used for person-name normalization across the forms.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeWhitespace collapses whitespace runs to single spaces. Phone
// numbers are normalized with this before format checking so that sloppy
// spacing ("0471  23 45  67") still validates.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
