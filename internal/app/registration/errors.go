package registration

import "github.com/chiro-horizon/registration-api/internal/validate"

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// ValidationError carries the full ordered list of rule violations so the
// form layer can render every inline message in one round trip.
type ValidationError struct {
	Errors validate.Errors
}

func (e *ValidationError) Error() string {
	return "registration draft failed validation: " + e.Errors.Error()
}
