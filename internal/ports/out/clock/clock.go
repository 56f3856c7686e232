package clock

import "time"

// Clock provides time to the application. Validation and eligibility are
// time-dependent (age rules), so every caller takes a Clock instead of
// reading the wall clock; tests inject a controllable implementation.
type Clock interface {
	Now() time.Time
}
