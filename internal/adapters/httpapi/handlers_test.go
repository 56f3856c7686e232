package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memclock "github.com/chiro-horizon/registration-api/internal/adapters/memory/clock"
	memdraftstore "github.com/chiro-horizon/registration-api/internal/adapters/memory/draftstore"
	memgrouprepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/grouprepo"
	memregistrationrepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/registrationrepo"
	memworkyearrepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/workyearrepo"
	"github.com/chiro-horizon/registration-api/internal/app/groups"
	"github.com/chiro-horizon/registration-api/internal/app/registration"
)

var handlerNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	clk := memclock.NewManualClock(handlerNow)
	groupRepo := memgrouprepo.NewRepo()
	workYearRepo := memworkyearrepo.NewRepo()

	registrationSvc := registration.NewService(
		memdraftstore.NewStore(),
		groupRepo,
		workYearRepo,
		memregistrationrepo.NewRepo(),
		clk,
	)
	groupsSvc := groups.NewService(groupRepo, workYearRepo, clk)

	return NewRouter(NewServer(registrationSvc, groupsSvc), NewHeaderAuthMiddleware(""))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func asMember() map[string]string {
	return map[string]string{"X-Debug-Subject": "sub-1"}
}

func asStaff() map[string]string {
	return map[string]string{"X-Debug-Subject": "staff-1", "X-Debug-Role": "staff"}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func seedCatalog(t *testing.T, h http.Handler) {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/v1/staff/work-years",
		map[string]any{"startDate": "2023-09-01"}, asStaff())
	if rec.Code != http.StatusCreated {
		t.Fatalf("start work year: %d %s", rec.Code, rec.Body.String())
	}
	for _, g := range []map[string]any{
		{"name": "Ribbels", "gender": "mixed", "minimumAgeDays": 2190, "maximumAgeDays": 2920},
		{"name": "Speelclub", "gender": "mixed", "minimumAgeDays": 2920, "maximumAgeDays": 3650},
	} {
		rec := doJSON(t, h, http.MethodPost, "/v1/staff/groups", g, asStaff())
		if rec.Code != http.StatusCreated {
			t.Fatalf("create group: %d %s", rec.Code, rec.Body.String())
		}
	}
}

func completeDraftBody() map[string]any {
	return map[string]any{
		"member": map[string]any{
			"firstName":   "Lotte",
			"lastName":    "Vermeulen",
			"gender":      "female",
			"dateOfBirth": "2016-05-01",
		},
		"parents": []map[string]any{{
			"relationship": "mother",
			"firstName":    "An",
			"lastName":     "Vermeulen",
			"phone":        "0468 12 34 56",
			"email":        "an@example.be",
			"street":       "Kerkstraat",
			"houseNumber":  "12",
			"postalCode":   2260,
			"municipality": "Westerlo",
		}},
		"emergencyContact": map[string]any{"name": "Oma Maria", "phone": "0468 99 88 77"},
		"medical":          map[string]any{"canSwim": true},
		"doctor":           map[string]any{"name": "Dr. Peeters", "phone": "014 21 22 23"},
	}
}

func TestHealthz_Unauthenticated(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestAuth_MissingSubject(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/v1/registration/draft", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d", rec.Code)
	}
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "UNAUTHORIZED" {
		t.Fatalf("body=%v", body)
	}
	if _, ok := errObj["requestId"]; !ok {
		t.Fatalf("expected requestId in error envelope: %v", body)
	}
}

func TestStaffEndpoints_RequireStaffRole(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/v1/staff/work-years", nil, asMember())
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestDraftLifecycle(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	// A fresh draft is seeded with today's date.
	rec := doJSON(t, h, http.MethodGet, "/v1/registration/draft", nil, asMember())
	if rec.Code != http.StatusOK {
		t.Fatalf("get draft: %d %s", rec.Code, rec.Body.String())
	}

	// Apply the member step, then check it persisted.
	rec = doJSON(t, h, http.MethodPost, "/v1/registration/draft/steps",
		map[string]any{"member": completeDraftBody()["member"]}, asMember())
	if rec.Code != http.StatusOK {
		t.Fatalf("apply step: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/registration/draft", nil, asMember())
	body := decodeBody(t, rec)
	member := body["member"].(map[string]any)
	if member["firstName"] != "Lotte" {
		t.Fatalf("draft=%v", body)
	}

	// Drafts are scoped per subject.
	rec = doJSON(t, h, http.MethodGet, "/v1/registration/draft", nil,
		map[string]string{"X-Debug-Subject": "sub-2"})
	other := decodeBody(t, rec)
	if m, ok := other["member"].(map[string]any); ok && m["firstName"] == "Lotte" {
		t.Fatalf("draft leaked across subjects: %v", other)
	}

	rec = doJSON(t, h, http.MethodDelete, "/v1/registration/draft", nil, asMember())
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete draft: %d", rec.Code)
	}
}

func TestSubmitFlow(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	seedCatalog(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/registration/draft/steps", completeDraftBody(), asMember())
	if rec.Code != http.StatusOK {
		t.Fatalf("apply step: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/registration/submissions", nil, asMember())
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["outcome"] != "SINGLE" {
		t.Fatalf("outcome=%v", body["outcome"])
	}
	reg := body["registration"].(map[string]any)
	if reg["groupId"] == nil {
		t.Fatalf("registration not assigned: %v", reg)
	}

	// The stored registration is visible on the staff surface.
	rec = doJSON(t, h, http.MethodGet, "/v1/staff/registrations/"+reg["id"].(string), nil, asStaff())
	if rec.Code != http.StatusOK {
		t.Fatalf("get registration: %d %s", rec.Code, rec.Body.String())
	}
}

func TestSubmit_ValidationErrorEnvelope(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	seedCatalog(t, h)

	step := completeDraftBody()
	delete(step, "doctor")
	rec := doJSON(t, h, http.MethodPost, "/v1/registration/draft/steps", step, asMember())
	if rec.Code != http.StatusOK {
		t.Fatalf("apply step: %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/registration/submissions", nil, asMember())
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "VALIDATION_FAILED" {
		t.Fatalf("body=%v", body)
	}
	details := errObj["details"].(map[string]any)
	fieldErrs := details["errors"].([]any)
	if len(fieldErrs) == 0 {
		t.Fatalf("expected field errors: %v", body)
	}
	first := fieldErrs[0].(map[string]any)
	if first["path"] != "doctor" {
		t.Fatalf("first error=%v", first)
	}
}

func TestSubmit_StaffFlowForbiddenForMembers(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	seedCatalog(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/registration/submissions?flow=STAFF", nil, asMember())
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestEligibilityEndpoint(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	seedCatalog(t, h)

	rec := doJSON(t, h, http.MethodGet, "/v1/eligibility?birthDate=2016-05-01&gender=female", nil, asMember())
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["outcome"] != "SINGLE" || body["ageYears"] != float64(8) || body["ageDays"] != float64(2922) {
		t.Fatalf("body=%v", body)
	}
	candidates := body["candidates"].([]any)
	if len(candidates) != 1 || candidates[0].(map[string]any)["name"] != "Speelclub" {
		t.Fatalf("candidates=%v", candidates)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/eligibility?birthDate=soon&gender=female", nil, asMember())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date: code=%d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/eligibility?birthDate=2016-05-01&gender=alien", nil, asMember())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad gender: code=%d", rec.Code)
	}
}

func TestGroupPatchEndpoint(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	seedCatalog(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/staff/groups",
		map[string]any{"name": "Aspi's", "gender": "mixed", "minimumAgeDays": 5840, "maximumAgeDays": 6570}, asStaff())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	id := created["id"].(string)

	// Null clears the maximum; omitted fields stay.
	rec = doJSON(t, h, http.MethodPatch, "/v1/staff/groups/"+id,
		map[string]any{"maximumAgeDays": nil}, asStaff())
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", rec.Code, rec.Body.String())
	}
	patched := decodeBody(t, rec)
	if _, ok := patched["maximumAgeDays"]; ok {
		t.Fatalf("maximum should be gone: %v", patched)
	}
	if patched["name"] != "Aspi's" {
		t.Fatalf("name changed: %v", patched)
	}
}
