// Package contracttest holds backend-agnostic contract suites for the
// outbound ports. Every adapter (memory, postgres, redis) must pass the same
// suite so the application layer can treat them interchangeably.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chiro-horizon/registration-api/internal/domain"
	draftstoreport "github.com/chiro-horizon/registration-api/internal/ports/out/draftstore"
	grouprepoport "github.com/chiro-horizon/registration-api/internal/ports/out/grouprepo"
	registrationrepoport "github.com/chiro-horizon/registration-api/internal/ports/out/registrationrepo"
	workyearrepoport "github.com/chiro-horizon/registration-api/internal/ports/out/workyearrepo"
)

type CleanupFunc = func()

type DraftStoreFactory func(t *testing.T) (draftstoreport.Store, CleanupFunc)
type GroupRepoFactory func(t *testing.T) (grouprepoport.Repository, CleanupFunc)
type WorkYearRepoFactory func(t *testing.T) (workyearrepoport.Repository, CleanupFunc)
type RegistrationRepoFactory func(t *testing.T) (registrationrepoport.Repository, CleanupFunc)

func RunDraftStore(t *testing.T, newStore DraftStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	key := draftstoreport.Key("sub-1")

	// Missing key loads as absent, not as an error.
	if _, ok, err := store.Load(ctx, key); err != nil || ok {
		t.Fatalf("Load missing: ok=%v err=%v", ok, err)
	}
	// Clearing a missing key is a no-op.
	if err := store.Clear(ctx, key); err != nil {
		t.Fatalf("Clear missing: %v", err)
	}

	if err := store.Save(ctx, key, []byte(`{"step":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, ok, err := store.Load(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if string(data) != `{"step":1}` {
		t.Fatalf("unexpected payload %q", data)
	}

	// Last write wins.
	if err := store.Save(ctx, key, []byte(`{"step":2}`)); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	data, _, _ = store.Load(ctx, key)
	if string(data) != `{"step":2}` {
		t.Fatalf("expected overwritten payload, got %q", data)
	}

	if err := store.Clear(ctx, key); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := store.Load(ctx, key); ok {
		t.Fatalf("expected key gone after Clear")
	}
}

func RunGroupRepo(t *testing.T, newRepo GroupRepoFactory, workYearID domain.WorkYearID) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	max1 := 2190
	ribbels := domain.Group{
		ID:             domain.GroupID(uuid.NewString()),
		WorkYearID:     workYearID,
		Name:           "Ribbels",
		Gender:         domain.GroupGenderMixed,
		MinimumAgeDays: 0,
		MaximumAgeDays: &max1,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repo.Create(ctx, ribbels); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, ribbels); !errors.Is(err, grouprepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// Name uniqueness within a work year is case-insensitive.
	dup := ribbels
	dup.ID = domain.GroupID(uuid.NewString())
	dup.Name = "ribbels"
	if err := repo.Create(ctx, dup); !errors.Is(err, grouprepoport.ErrNameAlreadyUsed) {
		t.Fatalf("expected ErrNameAlreadyUsed, got %v", err)
	}

	got, err := repo.GetByID(ctx, ribbels.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Ribbels" || got.MaximumAgeDays == nil || *got.MaximumAgeDays != max1 {
		t.Fatalf("unexpected group: %+v", got)
	}
	if _, err := repo.GetByID(ctx, domain.GroupID("missing")); !errors.Is(err, grouprepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	speelclub := domain.Group{
		ID:             domain.GroupID(uuid.NewString()),
		WorkYearID:     workYearID,
		Name:           "Speelclub",
		Gender:         domain.GroupGenderMixed,
		MinimumAgeDays: 2190,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	inactive := domain.Group{
		ID:             domain.GroupID(uuid.NewString()),
		WorkYearID:     workYearID,
		Name:           "Oude Kerels",
		Gender:         domain.GroupGenderMale,
		MinimumAgeDays: 5475,
		IsActive:       false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repo.Create(ctx, speelclub); err != nil {
		t.Fatalf("Create speelclub: %v", err)
	}
	if err := repo.Create(ctx, inactive); err != nil {
		t.Fatalf("Create inactive: %v", err)
	}

	// Active-only listing in ascending minimum-age order.
	active, err := repo.ListByWorkYear(ctx, workYearID, false)
	if err != nil {
		t.Fatalf("ListByWorkYear: %v", err)
	}
	if len(active) != 2 || active[0].Name != "Ribbels" || active[1].Name != "Speelclub" {
		t.Fatalf("unexpected active list: %+v", active)
	}
	all, err := repo.ListByWorkYear(ctx, workYearID, true)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 groups, got %d (err=%v)", len(all), err)
	}

	// Update round-trips, including clearing the upper bound.
	got.MaximumAgeDays = nil
	got.UpdatedAt = now.Add(time.Hour)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = repo.GetByID(ctx, ribbels.ID)
	if got.MaximumAgeDays != nil {
		t.Fatalf("expected unbounded maximum after update")
	}
	missing := got
	missing.ID = domain.GroupID("missing")
	if err := repo.Update(ctx, missing); !errors.Is(err, grouprepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func RunWorkYearRepo(t *testing.T, newRepo WorkYearRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	if _, err := repo.Current(ctx); !errors.Is(err, workyearrepoport.ErrNoCurrent) {
		t.Fatalf("expected ErrNoCurrent, got %v", err)
	}

	now := time.Unix(2000, 0).UTC()
	first := domain.WorkYear{
		ID:        domain.WorkYearID(uuid.NewString()),
		StartDate: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Only one open work year at a time.
	second := domain.WorkYear{
		ID:        domain.WorkYearID(uuid.NewString()),
		StartDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, second); !errors.Is(err, workyearrepoport.ErrCurrentExists) {
		t.Fatalf("expected ErrCurrentExists, got %v", err)
	}

	cur, err := repo.Current(ctx)
	if err != nil || cur.ID != first.ID {
		t.Fatalf("Current: id=%v err=%v", cur.ID, err)
	}

	end := time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)
	first.EndDate = &end
	first.UpdatedAt = now.Add(time.Hour)
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second after close: %v", err)
	}

	// List is ordered most recent first.
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("unexpected list order: %+v", list)
	}
	if _, err := repo.GetByID(ctx, domain.WorkYearID("missing")); !errors.Is(err, workyearrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func RunRegistrationRepo(t *testing.T, newRepo RegistrationRepoFactory, workYearID domain.WorkYearID, groupID domain.GroupID) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(3000, 0).UTC()
	mk := func(first, last string, gid *domain.GroupID) domain.Registration {
		return domain.Registration{
			ID:         domain.RegistrationID(uuid.NewString()),
			WorkYearID: workYearID,
			GroupID:    gid,
			Member: domain.Member{
				FirstName:   first,
				LastName:    last,
				Gender:      domain.GenderFemale,
				DateOfBirth: time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC),
			},
			Parents: []domain.Parent{{
				Relationship: domain.RelationshipMother,
				FirstName:    "An",
				LastName:     last,
				Phone:        "0468 12 34 56",
				Email:        "an@example.be",
				Address: domain.Address{
					Street:       "Kerkstraat",
					HouseNumber:  "12",
					PostalCode:   2260,
					Municipality: "Westerlo",
				},
				IsPrimary: true,
			}},
			EmergencyContact: domain.EmergencyContact{Name: "Oma", Phone: "0468 99 88 77", Relationship: "grootmoeder"},
			Conditions:       []domain.Condition{{Name: domain.ConditionAsthma, Has: true, Info: "inhaler in bag"}},
			Doctor:           domain.Doctor{Name: "Dr. Peeters", Phone: "014 21 22 23"},
			CreatedAt:        now,
			UpdatedAt:        now,
		}
	}

	a := mk("Lotte", "Vermeulen", &groupID)
	b := mk("Stan", "claes", &groupID)
	c := mk("Nore", "Aerts", nil)
	for _, reg := range []domain.Registration{a, b, c} {
		if err := repo.Create(ctx, reg); err != nil {
			t.Fatalf("Create %s: %v", reg.Member.FirstName, err)
		}
	}
	if err := repo.Create(ctx, a); !errors.Is(err, registrationrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Conditions[0].Info != "inhaler in bag" || !got.Parents[0].IsPrimary {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	// Ordering is case-insensitive by member last name.
	byYear, err := repo.ListByWorkYear(ctx, workYearID)
	if err != nil {
		t.Fatalf("ListByWorkYear: %v", err)
	}
	if len(byYear) != 3 || byYear[0].Member.LastName != "Aerts" || byYear[1].Member.LastName != "claes" || byYear[2].Member.LastName != "Vermeulen" {
		t.Fatalf("unexpected order: %+v", byYear)
	}

	// Unassigned registrations (nil group) are excluded from group listings.
	byGroup, err := repo.ListByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(byGroup) != 2 {
		t.Fatalf("expected 2 in group, got %d", len(byGroup))
	}

	got.GroupID = nil
	got.UpdatedAt = now.Add(time.Hour)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	byGroup, _ = repo.ListByGroup(ctx, groupID)
	if len(byGroup) != 1 {
		t.Fatalf("expected 1 in group after unassign, got %d", len(byGroup))
	}

	missing := got
	missing.ID = domain.RegistrationID("missing")
	if err := repo.Update(ctx, missing); !errors.Is(err, registrationrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}
