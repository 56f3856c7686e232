package domain

import "time"

// Group is an age/gender-scoped subdivision a member is assigned to for a
// work year. Age bounds are expressed in days for exact boundary comparisons.
type Group struct {
	ID         GroupID
	WorkYearID WorkYearID

	Name   string
	Gender GroupGender

	// MinimumAgeDays is inclusive; MaximumAgeDays is exclusive.
	// A nil maximum means unbounded.
	MinimumAgeDays int
	MaximumAgeDays *int

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkYear is the annual membership period a registration and its group
// assignment belong to. EndDate is nil while the year is still running.
type WorkYear struct {
	ID WorkYearID

	StartDate time.Time // date-only semantics at the edges
	EndDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCurrent reports whether the work year is still open.
func (wy WorkYear) IsCurrent() bool { return wy.EndDate == nil }
