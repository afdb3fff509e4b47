package service

import (
	"context"
	"errors"
	"testing"

	"swap-service/internal/apperror"
	"swap-service/internal/models"
)

type fakeMatchCache struct {
	entries map[string][]models.MatchView
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newFakeMatchCache() *fakeMatchCache {
	return &fakeMatchCache{entries: make(map[string][]models.MatchView)}
}

func (f *fakeMatchCache) Get(_ context.Context, userID string) ([]models.MatchView, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[userID], nil
}

func (f *fakeMatchCache) Set(_ context.Context, userID string, matches []models.MatchView) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[userID] = matches
	return nil
}

func TestPotentialMatches_RanksAndCaches(t *testing.T) {
	alice := testUser("alice", "Go")
	alice.WantedSkills = []string{"Piano"}
	bob := testUser("bob", "Piano")
	carol := testUser("carol", "Chess")

	users := newFakeUserStore(alice, bob, carol)
	cache := newFakeMatchCache()
	svc := NewMatchService(users, cache)

	matches, err := svc.PotentialMatches(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(matches))
	}
	if matches[0].User.UserID != "bob" {
		t.Errorf("Expected bob ranked first, got %s", matches[0].User.UserID)
	}
	if cache.sets != 1 {
		t.Errorf("Expected the result to be cached once, got %d writes", cache.sets)
	}

	// The second call must be served from cache.
	if _, err := svc.PotentialMatches(context.Background(), "alice"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("Expected no extra cache write on a hit, got %d", cache.sets)
	}
}

func TestPotentialMatches_CacheErrorsDegradeToRescore(t *testing.T) {
	alice := testUser("alice", "Go")
	bob := testUser("bob", "Piano")
	users := newFakeUserStore(alice, bob)

	cache := newFakeMatchCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	svc := NewMatchService(users, cache)

	matches, err := svc.PotentialMatches(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Expected cache failures to be swallowed, got %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("Expected 1 candidate, got %d", len(matches))
	}
}

func TestPotentialMatches_NilCache(t *testing.T) {
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	svc := NewMatchService(users, nil)

	if _, err := svc.PotentialMatches(context.Background(), "alice"); err != nil {
		t.Fatalf("Unexpected error without a cache: %v", err)
	}
}

func TestPotentialMatches_UnknownUser(t *testing.T) {
	svc := NewMatchService(newFakeUserStore(), newFakeMatchCache())

	_, err := svc.PotentialMatches(context.Background(), "ghost")
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestScoreAgainst(t *testing.T) {
	alice := testUser("alice", "Go")
	alice.WantedSkills = []string{"Piano"}
	alice.Location = "Hanoi"
	bob := testUser("bob", "Piano")
	bob.Location = "Hanoi"

	users := newFakeUserStore(alice, bob)
	svc := NewMatchService(users, nil)

	breakdown, err := svc.ScoreAgainst(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if breakdown.Skill != 15 {
		t.Errorf("Expected 15 skill points for an intermediate match, got %d", breakdown.Skill)
	}
	if breakdown.Location != 20 {
		t.Errorf("Expected 20 location points, got %d", breakdown.Location)
	}
	if breakdown.Total != 35 {
		t.Errorf("Expected total 35, got %d", breakdown.Total)
	}
}
