package eligibility

import (
	"fmt"
	"time"
)

// Birth dates before this year indicate a data-entry mistake rather than a
// plausible registrant.
const minBirthYear = 1900

// InvalidDateError is the typed failure for an implausible birth date: in the
// future, or before the historical floor.
type InvalidDateError struct {
	Date   time.Time
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid birth date %s: %s", e.Date.Format("2006-01-02"), e.Reason)
}

// ValidateBirthDate checks that birth is plausible as of asOf.
func ValidateBirthDate(birth, asOf time.Time) error {
	b := truncateToDay(birth)
	if b.After(truncateToDay(asOf)) {
		return &InvalidDateError{Date: birth, Reason: "date is in the future"}
	}
	if b.Year() < minBirthYear {
		return &InvalidDateError{Date: birth, Reason: fmt.Sprintf("date is before %d", minBirthYear)}
	}
	return nil
}

// AgeInYears returns whole calendar years elapsed between birth and asOf.
func AgeInYears(birth, asOf time.Time) (int, error) {
	if err := ValidateBirthDate(birth, asOf); err != nil {
		return 0, err
	}
	b, a := truncateToDay(birth), truncateToDay(asOf)
	years := a.Year() - b.Year()
	// Not yet had this year's birthday.
	if a.Month() < b.Month() || (a.Month() == b.Month() && a.Day() < b.Day()) {
		years--
	}
	return years, nil
}

// AgeInDays returns the exact day count between birth and asOf, used for
// boundary comparisons against group age ranges.
func AgeInDays(birth, asOf time.Time) (int, error) {
	if err := ValidateBirthDate(birth, asOf); err != nil {
		return 0, err
	}
	b, a := truncateToDay(birth), truncateToDay(asOf)
	return int(a.Sub(b) / (24 * time.Hour)), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
