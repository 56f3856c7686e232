package registration

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	memclock "github.com/chiro-horizon/registration-api/internal/adapters/memory/clock"
	memdraftstore "github.com/chiro-horizon/registration-api/internal/adapters/memory/draftstore"
	memgrouprepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/grouprepo"
	memregistrationrepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/registrationrepo"
	memworkyearrepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/workyearrepo"
	"github.com/chiro-horizon/registration-api/internal/domain"
	"github.com/chiro-horizon/registration-api/internal/draft"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	groups    *memgrouprepo.Repo
	workYears *memworkyearrepo.Repo
	regs      *memregistrationrepo.Repo
	clk       *memclock.ManualClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		groups:    memgrouprepo.NewRepo(),
		workYears: memworkyearrepo.NewRepo(),
		regs:      memregistrationrepo.NewRepo(),
		clk:       memclock.NewManualClock(testNow),
	}
	f.svc = NewService(memdraftstore.NewStore(), f.groups, f.workYears, f.regs, f.clk)

	idSeq := 0
	f.svc.newRegistrationID = func() domain.RegistrationID {
		idSeq++
		return domain.RegistrationID(fmt.Sprintf("reg-%d", idSeq))
	}
	return f
}

func (f *fixture) openWorkYear(t *testing.T) domain.WorkYear {
	t.Helper()
	wy := domain.WorkYear{
		ID:        domain.WorkYearID("wy-1"),
		StartDate: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if err := f.workYears.Create(context.Background(), wy); err != nil {
		t.Fatalf("create work year: %v", err)
	}
	return wy
}

func (f *fixture) addGroup(t *testing.T, id, name string, minDays int, maxDays *int) domain.Group {
	t.Helper()
	g := domain.Group{
		ID:             domain.GroupID(id),
		WorkYearID:     domain.WorkYearID("wy-1"),
		Name:           name,
		Gender:         domain.GroupGenderMixed,
		MinimumAgeDays: minDays,
		MaximumAgeDays: maxDays,
		IsActive:       true,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
	if err := f.groups.Create(context.Background(), g); err != nil {
		t.Fatalf("create group: %v", err)
	}
	return g
}

func nvs(v string) nullable.Nullable[string] { return nullable.NewNullableWithValue(v) }
func nvi(v int) nullable.Nullable[int]       { return nullable.NewNullableWithValue(v) }

func days(n int) *int { return &n }

// completeDraft is a valid public-flow draft for an eight-year-old.
func completeDraft() draft.Draft {
	dob := openapi_types.Date{Time: time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC)}
	return draft.Draft{
		Member: &draft.MemberStep{
			FirstName:   "Lotte",
			LastName:    "Vermeulen",
			Gender:      "female",
			DateOfBirth: &dob,
		},
		Parents: []draft.ParentPatch{{
			Relationship: nvs("mother"),
			FirstName:    nvs("An"),
			LastName:     nvs("Vermeulen"),
			Phone:        nvs("0468 12 34 56"),
			Email:        nvs("an@example.be"),
			Street:       nvs("Kerkstraat"),
			HouseNumber:  nvs("12"),
			PostalCode:   nvi(2260),
			Municipality: nvs("Westerlo"),
		}},
		EmergencyContact: &draft.EmergencyContactStep{Name: "Oma Maria", Phone: "0468 99 88 77"},
		Medical:          &draft.MedicalStep{CanSwim: true},
		Doctor:           &draft.DoctorStep{Name: "Dr. Peeters", Phone: "014 21 22 23"},
	}
}

func TestService_GetDraft_SeedsDefaults(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.svc.Defaults = DraftDefaults{PostalCode: 2260, Municipality: "Westerlo"}

	d, err := f.svc.GetDraft(context.Background(), domain.SubjectID("sub-1"))
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if d.Member == nil || d.Member.DateOfBirth == nil || !d.Member.DateOfBirth.Time.Equal(testNow) {
		t.Fatalf("member=%+v", d.Member)
	}
	if len(d.Parents) != 1 {
		t.Fatalf("parents=%+v", d.Parents)
	}
	if pc, err := d.Parents[0].PostalCode.Get(); err != nil || pc != 2260 {
		t.Fatalf("postalCode=%v err=%v", pc, err)
	}
	if mun, err := d.Parents[0].Municipality.Get(); err != nil || mun != "Westerlo" {
		t.Fatalf("municipality=%v err=%v", mun, err)
	}
}

func TestService_ApplyStep_AccumulatesAcrossSteps(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	sub := domain.SubjectID("sub-1")

	full := completeDraft()
	if _, err := f.svc.ApplyStep(ctx, sub, draft.Draft{Member: full.Member}); err != nil {
		t.Fatalf("member step: %v", err)
	}
	if _, err := f.svc.ApplyStep(ctx, sub, draft.Draft{Parents: full.Parents}); err != nil {
		t.Fatalf("parent step: %v", err)
	}

	got, err := f.svc.GetDraft(ctx, sub)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got.Member == nil || got.Member.FirstName != "Lotte" {
		t.Fatalf("member lost: %+v", got.Member)
	}
	if len(got.Parents) != 1 {
		t.Fatalf("parents lost: %+v", got.Parents)
	}
	if fn, _ := got.Parents[0].FirstName.Get(); fn != "An" {
		t.Fatalf("parent firstName=%q", fn)
	}
}

func TestService_ClearDraft(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	sub := domain.SubjectID("sub-1")

	if _, err := f.svc.ApplyStep(ctx, sub, completeDraft()); err != nil {
		t.Fatalf("ApplyStep: %v", err)
	}
	if err := f.svc.ClearDraft(ctx, sub); err != nil {
		t.Fatalf("ClearDraft: %v", err)
	}
	if _, err := f.svc.Submit(ctx, sub, FlowPublic); err == nil {
		t.Fatalf("expected DRAFT_NOT_FOUND after clear")
	}
}

func TestService_Submit_NoDraft(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.Submit(context.Background(), domain.SubjectID("sub-1"), FlowPublic)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 404 || ae.Code != "DRAFT_NOT_FOUND" {
		t.Fatalf("err=%v, want DRAFT_NOT_FOUND 404", err)
	}
}

func TestService_Submit_ValidationFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	sub := domain.SubjectID("sub-1")
	f.openWorkYear(t)

	incomplete := completeDraft()
	incomplete.Doctor = nil
	incomplete.Parents = nil
	if _, err := f.svc.ApplyStep(ctx, sub, incomplete); err != nil {
		t.Fatalf("ApplyStep: %v", err)
	}

	_, err := f.svc.Submit(ctx, sub, FlowPublic)
	ve := (*ValidationError)(nil)
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
	if _, ok := ve.Errors.ByPath("doctor"); !ok {
		t.Fatalf("expected doctor error: %v", ve.Errors)
	}
	if _, ok := ve.Errors.ByPath("parents"); !ok {
		t.Fatalf("expected parents error: %v", ve.Errors)
	}
}

func TestService_Submit_NoCurrentWorkYear(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	sub := domain.SubjectID("sub-1")

	if _, err := f.svc.ApplyStep(ctx, sub, completeDraft()); err != nil {
		t.Fatalf("ApplyStep: %v", err)
	}
	_, err := f.svc.Submit(ctx, sub, FlowPublic)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 409 || ae.Code != "NO_CURRENT_WORK_YEAR" {
		t.Fatalf("err=%v, want NO_CURRENT_WORK_YEAR 409", err)
	}
}

func TestService_Submit_SingleMatchAutoAssigns(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	sub := domain.SubjectID("sub-1")
	f.openWorkYear(t)
	f.addGroup(t, "g-rib", "Ribbels", 2190, days(2920))
	speelclub := f.addGroup(t, "g-speel", "Speelclub", 2920, days(3650))

	if _, err := f.svc.ApplyStep(ctx, sub, completeDraft()); err != nil {
		t.Fatalf("ApplyStep: %v", err)
	}

	res, err := f.svc.Submit(ctx, sub, FlowPublic)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Outcome != EligibilitySingle {
		t.Fatalf("outcome=%v", res.Outcome)
	}
	if res.Registration.GroupID == nil || *res.Registration.GroupID != speelclub.ID {
		t.Fatalf("groupID=%v", res.Registration.GroupID)
	}

	// Persisted and retrievable.
	stored, err := f.regs.GetByID(ctx, res.Registration.ID)
	if err != nil {
		t.Fatalf("stored registration: %v", err)
	}
	if stored.Member.LastName != "Vermeulen" || stored.WorkYearID != domain.WorkYearID("wy-1") {
		t.Fatalf("stored=%+v", stored)
	}

	// The draft is consumed by a successful submit.
	_, err = f.svc.Submit(ctx, sub, FlowPublic)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "DRAFT_NOT_FOUND" {
		t.Fatalf("second submit err=%v, want DRAFT_NOT_FOUND", err)
	}
}

func TestService_Submit_NoMatchLeavesUnassigned(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	sub := domain.SubjectID("sub-1")
	f.openWorkYear(t)
	f.addGroup(t, "g-old", "Aspi's", 5840, days(6570))

	if _, err := f.svc.ApplyStep(ctx, sub, completeDraft()); err != nil {
		t.Fatalf("ApplyStep: %v", err)
	}
	res, err := f.svc.Submit(ctx, sub, FlowPublic)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Outcome != EligibilityNone || res.Registration.GroupID != nil {
		t.Fatalf("outcome=%v groupID=%v", res.Outcome, res.Registration.GroupID)
	}
}

func TestService_Submit_MultipleMatchesRequireChoice(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	sub := domain.SubjectID("sub-1")
	f.openWorkYear(t)
	f.addGroup(t, "g-wide", "Iedereen", 0, nil)
	speelclub := f.addGroup(t, "g-speel", "Speelclub", 2920, days(3650))

	if _, err := f.svc.ApplyStep(ctx, sub, completeDraft()); err != nil {
		t.Fatalf("ApplyStep: %v", err)
	}

	// No choice in the draft: refused with the candidate list.
	_, err := f.svc.Submit(ctx, sub, FlowPublic)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 422 || ae.Code != "GROUP_CHOICE_REQUIRED" {
		t.Fatalf("err=%v, want GROUP_CHOICE_REQUIRED 422", err)
	}

	// A choice outside the candidates is rejected.
	gid := "g-aspi"
	if _, err := f.svc.ApplyStep(ctx, sub, draft.Draft{GroupID: &gid}); err != nil {
		t.Fatalf("ApplyStep: %v", err)
	}
	_, err = f.svc.Submit(ctx, sub, FlowPublic)
	if !errors.As(err, &ae) || ae.Code != "GROUP_CHOICE_INVALID" {
		t.Fatalf("err=%v, want GROUP_CHOICE_INVALID", err)
	}

	// A valid choice goes through.
	gid = string(speelclub.ID)
	if _, err := f.svc.ApplyStep(ctx, sub, draft.Draft{GroupID: &gid}); err != nil {
		t.Fatalf("ApplyStep: %v", err)
	}
	res, err := f.svc.Submit(ctx, sub, FlowPublic)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Outcome != EligibilityMultiple || res.Registration.GroupID == nil || *res.Registration.GroupID != speelclub.ID {
		t.Fatalf("res=%+v", res)
	}
}

func TestService_Eligibility(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.openWorkYear(t)
	f.addGroup(t, "g-rib", "Ribbels", 2190, days(2920))
	f.addGroup(t, "g-speel", "Speelclub", 2920, days(3650))

	birth := openapi_types.Date{Time: time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC)}
	res, err := f.svc.Eligibility(ctx, birth, domain.GenderFemale)
	if err != nil {
		t.Fatalf("Eligibility: %v", err)
	}
	if res.AgeYears != 8 || res.AgeDays != 2922 {
		t.Fatalf("ages=%d/%d", res.AgeYears, res.AgeDays)
	}
	if res.Outcome != EligibilitySingle || len(res.Candidates) != 1 || res.Candidates[0].Name != "Speelclub" {
		t.Fatalf("res=%+v", res)
	}
}

func TestService_Eligibility_InvalidDate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.openWorkYear(t)

	future := openapi_types.Date{Time: testNow.AddDate(1, 0, 0)}
	_, err := f.svc.Eligibility(context.Background(), future, domain.GenderMale)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 422 || ae.Code != "INVALID_DATE" {
		t.Fatalf("err=%v, want INVALID_DATE 422", err)
	}
}
