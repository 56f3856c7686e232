package groups

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/chiro-horizon/registration-api/internal/adapters/memory/clock"
	memgrouprepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/grouprepo"
	memworkyearrepo "github.com/chiro-horizon/registration-api/internal/adapters/memory/workyearrepo"
	"github.com/chiro-horizon/registration-api/internal/domain"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService() *Service {
	return NewService(memgrouprepo.NewRepo(), memworkyearrepo.NewRepo(), memclock.NewManualClock(testNow))
}

func startYear(t *testing.T, svc *Service) domain.WorkYear {
	t.Helper()
	wy, err := svc.StartWorkYear(context.Background(), StartWorkYearInput{
		StartDate: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("StartWorkYear: %v", err)
	}
	return wy
}

func TestService_CreateGroup(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()
	wy := startYear(t, svc)

	max := 2920
	g, err := svc.CreateGroup(ctx, CreateGroupInput{
		Name:           "  Ribbels ",
		Gender:         "mixed",
		MinimumAgeDays: 2190,
		MaximumAgeDays: &max,
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if g.Name != "Ribbels" || g.WorkYearID != wy.ID || !g.IsActive {
		t.Fatalf("group=%+v", g)
	}
	if g.CreatedAt != testNow || g.UpdatedAt != testNow {
		t.Fatalf("timestamps=%v/%v", g.CreatedAt, g.UpdatedAt)
	}

	// Duplicate names within a work year are refused.
	_, err = svc.CreateGroup(ctx, CreateGroupInput{Name: "ribbels", Gender: "mixed"})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 409 || ae.Code != "GROUP_NAME_TAKEN" {
		t.Fatalf("err=%v, want GROUP_NAME_TAKEN 409", err)
	}
}

func TestService_CreateGroup_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()
	startYear(t, svc)

	cases := []struct {
		name string
		in   CreateGroupInput
	}{
		{"empty name", CreateGroupInput{Name: "  ", Gender: "mixed"}},
		{"bad gender", CreateGroupInput{Name: "X", Gender: "robot"}},
		{"negative minimum", CreateGroupInput{Name: "X", Gender: "mixed", MinimumAgeDays: -1}},
		{"inverted range", CreateGroupInput{Name: "X", Gender: "mixed", MinimumAgeDays: 100, MaximumAgeDays: intPtr(100)}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateGroup(ctx, tc.in)
			ae := (*Error)(nil)
			if !errors.As(err, &ae) || ae.Status != 422 || ae.Code != "INVALID_INPUT" {
				t.Fatalf("err=%v, want INVALID_INPUT 422", err)
			}
		})
	}
}

func TestService_CreateGroup_RequiresOpenYear(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	_, err := svc.CreateGroup(context.Background(), CreateGroupInput{Name: "Ribbels", Gender: "mixed"})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 409 || ae.Code != "NO_CURRENT_WORK_YEAR" {
		t.Fatalf("err=%v, want NO_CURRENT_WORK_YEAR 409", err)
	}
}

func TestService_UpdateGroup_Patch(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()
	startYear(t, svc)

	max := 2920
	g, err := svc.CreateGroup(ctx, CreateGroupInput{Name: "Ribbels", Gender: "mixed", MinimumAgeDays: 2190, MaximumAgeDays: &max})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	// Null maximum removes the upper bound; unspecified fields stay put.
	got, err := svc.UpdateGroup(ctx, g.ID, GroupPatch{
		MaximumAgeDays: Null[int](),
		IsActive:       Some(false),
	})
	if err != nil {
		t.Fatalf("UpdateGroup: %v", err)
	}
	if got.MaximumAgeDays != nil || got.IsActive || got.Name != "Ribbels" {
		t.Fatalf("got=%+v", got)
	}
	if got.MinimumAgeDays != 2190 {
		t.Fatalf("minimum changed: %d", got.MinimumAgeDays)
	}

	// A patch cannot invert the merged age window.
	_, err = svc.UpdateGroup(ctx, g.ID, GroupPatch{MaximumAgeDays: Some(2190)})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "INVALID_INPUT" {
		t.Fatalf("err=%v, want INVALID_INPUT", err)
	}

	_, err = svc.UpdateGroup(ctx, domain.GroupID("missing"), GroupPatch{})
	if !errors.As(err, &ae) || ae.Status != 404 || ae.Code != "GROUP_NOT_FOUND" {
		t.Fatalf("err=%v, want GROUP_NOT_FOUND 404", err)
	}
}

func TestService_ListGroups_IncludesInactive(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()
	wy := startYear(t, svc)

	g, err := svc.CreateGroup(ctx, CreateGroupInput{Name: "Ribbels", Gender: "mixed"})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := svc.UpdateGroup(ctx, g.ID, GroupPatch{IsActive: Some(false)}); err != nil {
		t.Fatalf("UpdateGroup: %v", err)
	}

	got, err := svc.ListGroups(ctx, wy.ID)
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if len(got) != 1 || got[0].IsActive {
		t.Fatalf("got=%+v", got)
	}

	_, err = svc.ListGroups(ctx, domain.WorkYearID("missing"))
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Code != "WORK_YEAR_NOT_FOUND" {
		t.Fatalf("err=%v, want WORK_YEAR_NOT_FOUND", err)
	}
}

func TestService_WorkYearLifecycle(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()
	wy := startYear(t, svc)

	cur, err := svc.CurrentWorkYear(ctx)
	if err != nil || cur.ID != wy.ID {
		t.Fatalf("cur=%+v err=%v", cur, err)
	}

	// A second open year is refused until the first closes.
	_, err = svc.StartWorkYear(ctx, StartWorkYearInput{StartDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)})
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 409 || ae.Code != "WORK_YEAR_STILL_OPEN" {
		t.Fatalf("err=%v, want WORK_YEAR_STILL_OPEN 409", err)
	}

	// Closing before the start date is rejected.
	_, err = svc.CloseWorkYear(ctx, wy.ID, time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC))
	if !errors.As(err, &ae) || ae.Code != "INVALID_INPUT" {
		t.Fatalf("err=%v, want INVALID_INPUT", err)
	}

	closed, err := svc.CloseWorkYear(ctx, wy.ID, time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CloseWorkYear: %v", err)
	}
	if closed.EndDate == nil || closed.IsCurrent() {
		t.Fatalf("closed=%+v", closed)
	}

	// Closing twice is a conflict.
	_, err = svc.CloseWorkYear(ctx, wy.ID, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
	if !errors.As(err, &ae) || ae.Code != "WORK_YEAR_ALREADY_CLOSED" {
		t.Fatalf("err=%v, want WORK_YEAR_ALREADY_CLOSED", err)
	}

	// Now a new year can start.
	next, err := svc.StartWorkYear(ctx, StartWorkYearInput{StartDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("StartWorkYear: %v", err)
	}
	years, err := svc.ListWorkYears(ctx)
	if err != nil || len(years) != 2 || years[0].ID != next.ID {
		t.Fatalf("years=%+v err=%v", years, err)
	}

	_, err = svc.CurrentWorkYear(ctx)
	if err != nil {
		t.Fatalf("CurrentWorkYear: %v", err)
	}
}

func TestService_CurrentWorkYear_NoneOpen(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	_, err := svc.CurrentWorkYear(context.Background())
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 404 || ae.Code != "NO_CURRENT_WORK_YEAR" {
		t.Fatalf("err=%v, want NO_CURRENT_WORK_YEAR 404", err)
	}
}

func intPtr(v int) *int { return &v }
