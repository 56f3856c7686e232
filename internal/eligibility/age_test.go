package eligibility

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeInYears(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		birth time.Time
		asOf  time.Time
		want  int
	}{
		{"birthday today", day(2009, 5, 1), day(2024, 5, 1), 15},
		{"day before birthday", day(2009, 5, 2), day(2024, 5, 1), 14},
		{"day after birthday", day(2009, 4, 30), day(2024, 5, 1), 15},
		{"newborn", day(2024, 5, 1), day(2024, 5, 1), 0},
		{"leap day birth, non-leap year", day(2012, 2, 29), day(2024, 2, 28), 11},
		{"leap day birth, leap day", day(2012, 2, 29), day(2024, 2, 29), 12},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := AgeInYears(tc.birth, tc.asOf)
			if err != nil {
				t.Fatalf("err=%v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAgeInDays(t *testing.T) {
	t.Parallel()

	// Eight years spanning the 2020 and 2024 leap days: 8*365 + 2 = 2922.
	got, err := AgeInDays(day(2016, 5, 1), day(2024, 5, 1))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != 2922 {
		t.Fatalf("got %d, want 2922", got)
	}

	// Time-of-day is ignored: dates are compared at day granularity.
	got, err = AgeInDays(
		time.Date(2024, 4, 30, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 0, 1, 0, 0, time.UTC),
	)
	if err != nil || got != 1 {
		t.Fatalf("got %d err=%v, want 1", got, err)
	}
}

func TestValidateBirthDate(t *testing.T) {
	t.Parallel()

	asOf := day(2024, 5, 1)

	if err := ValidateBirthDate(day(2024, 5, 1), asOf); err != nil {
		t.Fatalf("today should be valid: %v", err)
	}

	err := ValidateBirthDate(day(2024, 5, 2), asOf)
	var ide *InvalidDateError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InvalidDateError, got %v", err)
	}
	if ide.Reason != "date is in the future" {
		t.Fatalf("reason=%q", ide.Reason)
	}

	err = ValidateBirthDate(day(1899, 12, 31), asOf)
	if !errors.As(err, &ide) {
		t.Fatalf("expected InvalidDateError, got %v", err)
	}
	if err := ValidateBirthDate(day(1900, 1, 1), asOf); err != nil {
		t.Fatalf("1900-01-01 should be valid: %v", err)
	}

	if _, err := AgeInYears(day(2025, 1, 1), asOf); err == nil {
		t.Fatalf("AgeInYears should reject future dates")
	}
	if _, err := AgeInDays(day(2025, 1, 1), asOf); err == nil {
		t.Fatalf("AgeInDays should reject future dates")
	}
}
