package achievement

import (
	"context"
	"errors"
	"testing"

	"swap-service/internal/models"
)

type fakeStats struct {
	stats map[string]models.ProfileStats
	err   error
}

func (f *fakeStats) GetStats(_ context.Context, userID string) (models.ProfileStats, error) {
	if f.err != nil {
		return models.ProfileStats{}, f.err
	}
	return f.stats[userID], nil
}

// fakeBadges enforces the same per-user uniqueness the real store gets from
// its unique index.
type fakeBadges struct {
	earned map[string]bool
	err    error
}

func newFakeBadges() *fakeBadges {
	return &fakeBadges{earned: make(map[string]bool)}
}

func (f *fakeBadges) Award(_ context.Context, badge *models.UserBadge) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	key := badge.UserID + "/" + badge.BadgeID
	if f.earned[key] {
		return false, nil
	}
	f.earned[key] = true
	return true, nil
}

func awardedIDs(rules []Rule) map[string]bool {
	ids := make(map[string]bool, len(rules))
	for _, r := range rules {
		ids[r.ID] = true
	}
	return ids
}

func TestEvaluateAndAward_NewUserEarnsNothing(t *testing.T) {
	stats := &fakeStats{stats: map[string]models.ProfileStats{"alice": {}}}
	engine := NewEngine(stats, newFakeBadges())

	awarded, err := engine.EvaluateAndAward(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(awarded) != 0 {
		t.Errorf("Expected no badges for zeroed stats, got %d", len(awarded))
	}
}

func TestEvaluateAndAward_HighAchiever(t *testing.T) {
	stats := &fakeStats{stats: map[string]models.ProfileStats{
		"alice": {
			TotalRatings:   10,
			AverageRating:  4.9,
			TotalSwaps:     10,
			CompletedSwaps: 10,
		},
	}}
	engine := NewEngine(stats, newFakeBadges())

	awarded, err := engine.EvaluateAndAward(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ids := awardedIDs(awarded)
	expected := []string{
		"first-rating", "rating-3", "rating-4", "rating-5", "rating-10",
		"first-swap", "swap-5", "swap-10",
		"perfect-achiever",
	}
	for _, id := range expected {
		if !ids[id] {
			t.Errorf("Expected badge %s to be awarded", id)
		}
	}
	notExpected := []string{"rating-25", "swap-25", "views-100", "community-pillar"}
	for _, id := range notExpected {
		if ids[id] {
			t.Errorf("Badge %s should not be awarded for these stats", id)
		}
	}
	if len(awarded) != len(expected) {
		t.Errorf("Expected exactly %d badges, got %d", len(expected), len(awarded))
	}
}

func TestEvaluateAndAward_Idempotent(t *testing.T) {
	stats := &fakeStats{stats: map[string]models.ProfileStats{
		"alice": {TotalRatings: 1, AverageRating: 5.0},
	}}
	engine := NewEngine(stats, newFakeBadges())

	first, err := engine.EvaluateAndAward(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Unexpected error on first run: %v", err)
	}
	if len(first) != 1 || first[0].ID != "first-rating" {
		t.Fatalf("Expected only first-rating on first run, got %v", awardedIDs(first))
	}

	second, err := engine.EvaluateAndAward(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Unexpected error on second run: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Expected no new badges on re-evaluation with unchanged stats, got %d", len(second))
	}
}

func TestEvaluateAndAward_AwardsOnlyNewBadgesAsStatsGrow(t *testing.T) {
	source := &fakeStats{stats: map[string]models.ProfileStats{
		"alice": {CompletedSwaps: 1, TotalSwaps: 1},
	}}
	badges := newFakeBadges()
	engine := NewEngine(source, badges)

	first, err := engine.EvaluateAndAward(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(first) != 1 || first[0].ID != "first-swap" {
		t.Fatalf("Expected only first-swap after one completion, got %v", awardedIDs(first))
	}

	source.stats["alice"] = models.ProfileStats{CompletedSwaps: 5, TotalSwaps: 5}
	second, err := engine.EvaluateAndAward(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(second) != 1 || second[0].ID != "swap-5" {
		t.Errorf("Expected only swap-5 after five completions, got %v", awardedIDs(second))
	}
}

func TestEvaluateAndAward_StatsErrorPropagates(t *testing.T) {
	statErr := errors.New("database down")
	engine := NewEngine(&fakeStats{err: statErr}, newFakeBadges())

	_, err := engine.EvaluateAndAward(context.Background(), "alice")
	if !errors.Is(err, statErr) {
		t.Errorf("Expected stats error to propagate, got %v", err)
	}
}

func TestCatalog_StableAndFlat(t *testing.T) {
	rules := Catalog()
	if len(rules) != 13 {
		t.Fatalf("Expected 13 catalog rules, got %d", len(rules))
	}

	seen := make(map[string]bool)
	for _, r := range rules {
		if r.ID == "" {
			t.Errorf("Rule %q has no ID", r.Name)
		}
		if seen[r.ID] {
			t.Errorf("Duplicate rule ID %s", r.ID)
		}
		seen[r.ID] = true
		if len(r.Conditions) == 0 {
			t.Errorf("Rule %s has no conditions and can never be earned", r.ID)
		}
	}
}

func TestRuleByID(t *testing.T) {
	engine := NewEngine(&fakeStats{}, newFakeBadges())

	rule, ok := engine.RuleByID("rating-5")
	if !ok {
		t.Fatal("Expected rating-5 to exist in the catalog")
	}
	if rule.Name != "Perfect Knight" {
		t.Errorf("Expected rating-5 to be Perfect Knight, got %s", rule.Name)
	}

	if _, ok := engine.RuleByID("no-such-badge"); ok {
		t.Error("Expected lookup of unknown ID to fail")
	}
}
