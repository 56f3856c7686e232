package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/chiro-horizon/registration-api/internal/app/groups"
	"github.com/chiro-horizon/registration-api/internal/app/registration"
	"github.com/chiro-horizon/registration-api/internal/validate"
)

type errorBody struct {
	Code      string                             `json:"code"`
	Message   string                             `json:"message"`
	Details   nullable.Nullable[map[string]any]  `json:"details,omitempty"`
	RequestId nullable.Nullable[string]          `json:"requestId,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er errorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// writeAppError maps application-layer errors to the JSON error envelope.
// Anything unrecognized becomes an opaque 500.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *registration.ValidationError
	if errors.As(err, &verr) {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED",
			"The registration draft violates one or more rules.",
			map[string]any{"errors": fieldErrorsDetail(verr.Errors)})
		return
	}

	var rerr *registration.Error
	if errors.As(err, &rerr) {
		writeError(w, r, rerr.Status, rerr.Code, rerr.Message, rerr.Details)
		return
	}
	var gerr *groups.Error
	if errors.As(err, &gerr) {
		writeError(w, r, gerr.Status, gerr.Code, gerr.Message, gerr.Details)
		return
	}

	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func fieldErrorsDetail(errs validate.Errors) []map[string]any {
	out := make([]map[string]any, 0, len(errs))
	for _, e := range errs {
		out = append(out, map[string]any{
			"path":    e.Path,
			"kind":    string(e.Kind),
			"message": e.Message,
		})
	}
	return out
}
