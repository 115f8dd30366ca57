package users

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"careerly/internal/core"
	"careerly/test/mocks"
)

func TestUpdateProfile_SeedsPlaceholderInsight(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Email: "u1@example.com"})
	svc := NewService(db)

	update := core.ProfileUpdate{
		Industry:   "tech",
		Experience: 4,
		Bio:        "Backend developer",
		Skills:     []string{"Go", "SQL"},
	}
	user, err := svc.UpdateProfile(context.Background(), "u1", update)
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Industry != "tech" || user.Experience != 4 {
		t.Errorf("Profile fields not applied: %+v", user)
	}
	if !reflect.DeepEqual(user.Skills, []string{"Go", "SQL"}) {
		t.Errorf("Expected skills [Go SQL], got %v", user.Skills)
	}

	seeded, err := db.Insights().GetByIndustry(context.Background(), "tech")
	if err != nil {
		t.Fatalf("Expected a seeded insight row: %v", err)
	}
	if len(seeded.SalaryRanges) != 0 {
		t.Errorf("Expected placeholder with empty salary data, got %v", seeded.SalaryRanges)
	}
	if seeded.GrowthRate != 5.0 {
		t.Errorf("Expected placeholder growthRate 5, got %v", seeded.GrowthRate)
	}
	if !time.Now().Add(core.RefreshInterval + time.Minute).After(seeded.NextUpdate) {
		t.Errorf("Placeholder nextUpdate too far out: %v", seeded.NextUpdate)
	}
}

func TestUpdateProfile_ExistingInsightUntouched(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1"})
	existing := &core.IndustryInsight{
		Industry:     "tech",
		SalaryRanges: []core.SalaryRange{{Role: "Engineer", Min: 1, Max: 2, Median: 1.5}},
		GrowthRate:   9.9,
		NextUpdate:   time.Now().Add(24 * time.Hour),
	}
	db.AddInsight(existing)
	svc := NewService(db)

	if _, err := svc.UpdateProfile(context.Background(), "u1", core.ProfileUpdate{Industry: "tech"}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	after, err := db.Insights().GetByIndustry(context.Background(), "tech")
	if err != nil {
		t.Fatalf("Insight lookup failed: %v", err)
	}
	if after.GrowthRate != 9.9 {
		t.Errorf("Existing insight was overwritten: %+v", after)
	}
	if db.InsightCreates != 0 {
		t.Errorf("Expected no insight create for an existing industry, got %d", db.InsightCreates)
	}
}

func TestUpdateProfile_MissingIndustry(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1"})
	svc := NewService(db)

	for _, industry := range []string{"", "  "} {
		_, err := svc.UpdateProfile(context.Background(), "u1", core.ProfileUpdate{Industry: industry})
		if !errors.Is(err, core.ErrMissingIndustry) {
			t.Errorf("UpdateProfile(industry=%q) = %v, want ErrMissingIndustry", industry, err)
		}
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	svc := NewService(mocks.NewMemoryDB())

	_, err := svc.UpdateProfile(context.Background(), "ghost", core.ProfileUpdate{Industry: "tech"})
	if !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile_LostSeedRaceTolerated(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1"})
	db.CreateInsightErr = core.ErrDuplicateKey
	svc := NewService(db)

	if _, err := svc.UpdateProfile(context.Background(), "u1", core.ProfileUpdate{Industry: "tech"}); err != nil {
		t.Fatalf("Expected duplicate seed to be tolerated, got %v", err)
	}

	user, err := db.Users().Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("User lookup failed: %v", err)
	}
	if user.Industry != "tech" {
		t.Errorf("Profile update did not land: %+v", user)
	}
}

func TestIsOnboarded(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	db.AddUser(&core.User{ID: "u2"})
	svc := NewService(db)

	onboarded, err := svc.IsOnboarded(context.Background(), "u1")
	if err != nil || !onboarded {
		t.Errorf("Expected u1 onboarded, got %v, %v", onboarded, err)
	}
	onboarded, err = svc.IsOnboarded(context.Background(), "u2")
	if err != nil || onboarded {
		t.Errorf("Expected u2 not onboarded, got %v, %v", onboarded, err)
	}
	if _, err := svc.IsOnboarded(context.Background(), "ghost"); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
