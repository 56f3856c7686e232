package validate

import (
	"fmt"
	"strings"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindEmpty         Kind = "EMPTY"
	KindTooLong       Kind = "TOO_LONG"
	KindInvalidFormat Kind = "INVALID_FORMAT"
	KindInvalidRange  Kind = "INVALID_RANGE"
	KindInvalidDate   Kind = "INVALID_DATE"
	KindRequired      Kind = "REQUIRED"
	KindStructural    Kind = "STRUCTURAL"
)

// FieldError is one validation failure, addressed to the field it concerns
// with a dot/bracket path (e.g. "parents[1].phone"). Structural failures that
// have no single field use the enclosing section's path.
type FieldError struct {
	Path    string
	Kind    Kind
	Message string
}

func (e FieldError) Error() string { return e.Path + ": " + e.Message }

// Errors is the ordered collection of every rule violated by a draft.
// Ordering is deterministic for a given input: fields in schema order first,
// then refinements in registration order.
type Errors []FieldError

func (es Errors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// ByPath returns the first error attached to path, if any.
func (es Errors) ByPath(path string) (FieldError, bool) {
	for _, e := range es {
		if e.Path == path {
			return e, true
		}
	}
	return FieldError{}, false
}

func (es *Errors) add(e *FieldError) {
	if e != nil {
		*es = append(*es, *e)
	}
}

// indexedPath builds "parents[1].phone" style paths.
func indexedPath(prefix string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", prefix, i, field)
}
