package groups

import "time"

// Optional represents a tri-state PATCH field: unspecified (leave as-is),
// null (clear), or a concrete value.
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type CreateGroupInput struct {
	Name           string
	Gender         string
	MinimumAgeDays int
	MaximumAgeDays *int
}

// GroupPatch carries a partial update of a group. Unspecified fields keep
// their stored value; a null MaximumAgeDays removes the upper bound.
type GroupPatch struct {
	Name           Optional[string]
	Gender         Optional[string]
	MinimumAgeDays Optional[int]
	MaximumAgeDays Optional[int]
	IsActive       Optional[bool]
}

type StartWorkYearInput struct {
	StartDate time.Time
}
