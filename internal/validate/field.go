package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/chiro-horizon/registration-api/internal/domain"
)

// Field-level validators. Each is pure: it returns the normalized value or a
// typed failure addressed to the given path, never both.

// phonePattern matches Belgian phone numbers written in digit groups:
// a 3-4 digit prefix followed by three groups of two digits, single spaces
// between groups ("051 23 45 67", "0471 23 45 67").
var phonePattern = regexp.MustCompile(`^\d{3,4} \d{2} \d{2} \d{2}$`)

// RequiredText trims value and enforces presence and a maximum length.
func RequiredText(path, value string, maxLen int) (string, *FieldError) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &FieldError{Path: path, Kind: KindEmpty, Message: "must not be empty"}
	}
	if len([]rune(v)) > maxLen {
		return "", &FieldError{Path: path, Kind: KindTooLong, Message: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return v, nil
}

// OptionalText normalizes an empty (or all-whitespace) value to absent rather
// than an empty string; absence is never a failure.
func OptionalText(path, value string, maxLen int) (*string, *FieldError) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	if len([]rune(v)) > maxLen {
		return nil, &FieldError{Path: path, Kind: KindTooLong, Message: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return &v, nil
}

// PhoneNumber normalizes whitespace runs and checks the digit-group format.
func PhoneNumber(path, value string) (string, *FieldError) {
	v := domain.NormalizeWhitespace(value)
	if !phonePattern.MatchString(v) {
		return "", &FieldError{Path: path, Kind: KindInvalidFormat, Message: "must be a phone number like 0471 23 45 67"}
	}
	return v, nil
}

// EmailAddress validates a bare address and lower-cases the domain part for
// storage consistency.
func EmailAddress(path, value string) (string, *FieldError) {
	v := strings.TrimSpace(value)
	invalid := &FieldError{Path: path, Kind: KindInvalidFormat, Message: "must be a valid email address"}
	if v == "" {
		return "", invalid
	}
	addr, err := mail.ParseAddress(v)
	if err != nil {
		return "", invalid
	}
	// Reject "Name <email@x>" forms: only the bare address is accepted.
	if addr.Address != v {
		return "", invalid
	}
	at := strings.LastIndex(v, "@")
	return v[:at+1] + strings.ToLower(v[at+1:]), nil
}

// PostalCode checks a Belgian 4-digit postal code.
func PostalCode(path string, value int) (int, *FieldError) {
	if value < 1000 || value > 9999 {
		return 0, &FieldError{Path: path, Kind: KindInvalidRange, Message: "must be a postal code between 1000 and 9999"}
	}
	return value, nil
}

// Year checks a year value against an inclusive range.
func Year(path string, value, min, max int) (int, *FieldError) {
	if value < min || value > max {
		return 0, &FieldError{Path: path, Kind: KindInvalidRange, Message: fmt.Sprintf("must be a year between %d and %d", min, max)}
	}
	return value, nil
}

// Bool normalizes the legacy "true"/"false" enumerated text some flows still
// post into a native boolean.
func Bool(path, value string) (bool, *FieldError) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		return true, nil
	case "false", "":
		return false, nil
	default:
		return false, &FieldError{Path: path, Kind: KindInvalidFormat, Message: `must be "true" or "false"`}
	}
}
