package service

import (
	"context"
	"strings"
	"testing"

	"swap-service/internal/achievement"
	"swap-service/internal/apperror"
	"swap-service/internal/event"
	"swap-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type fakeSwapStore struct {
	swaps map[string]*models.SwapRequest
}

func newFakeSwapStore() *fakeSwapStore {
	return &fakeSwapStore{swaps: make(map[string]*models.SwapRequest)}
}

func (f *fakeSwapStore) New(_ context.Context, swap *models.SwapRequest) (*models.SwapRequest, error) {
	swap.ID = bson.NewObjectID()
	swap.Status = models.SwapStatusPending
	f.swaps[swap.ID.Hex()] = swap
	return swap, nil
}

func (f *fakeSwapStore) FindByID(_ context.Context, id bson.ObjectID) (*models.SwapRequest, error) {
	swap, ok := f.swaps[id.Hex()]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *swap
	return &copied, nil
}

func (f *fakeSwapStore) FindByParticipant(_ context.Context, userID string) ([]*models.SwapRequest, error) {
	var out []*models.SwapRequest
	for _, s := range f.swaps {
		if s.IsParticipant(userID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSwapStore) FindByRequestedAndStatus(_ context.Context, userID string, status models.SwapStatus) ([]*models.SwapRequest, error) {
	var out []*models.SwapRequest
	for _, s := range f.swaps {
		if s.RequestedUserID == userID && s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSwapStore) HasPendingDuplicate(_ context.Context, requesterID, requestedUserID, requesterSkill, requestedSkill string) (bool, error) {
	for _, s := range f.swaps {
		if s.Status == models.SwapStatusPending &&
			s.RequesterID == requesterID &&
			s.RequestedUserID == requestedUserID &&
			strings.EqualFold(s.RequesterSkill, requesterSkill) &&
			strings.EqualFold(s.RequestedSkill, requestedSkill) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSwapStore) UpdateStatus(_ context.Context, id bson.ObjectID, from, to models.SwapStatus) (*models.SwapRequest, error) {
	swap, ok := f.swaps[id.Hex()]
	if !ok || swap.Status != from {
		return nil, mongo.ErrNoDocuments
	}
	swap.Status = to
	copied := *swap
	return &copied, nil
}

type fakeUserStore struct {
	users      map[string]*models.User
	increments map[string]int
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{
		users:      make(map[string]*models.User),
		increments: make(map[string]int),
	}
	for _, u := range users {
		f.users[u.UserID] = u
	}
	return f
}

func (f *fakeUserStore) FindByUserID(_ context.Context, userID string) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (f *fakeUserStore) IncrementSwapCounters(_ context.Context, userID string) error {
	user, ok := f.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Stats.TotalSwaps++
	user.Stats.CompletedSwaps++
	f.increments[userID]++
	return nil
}

func (f *fakeUserStore) GetStats(_ context.Context, userID string) (models.ProfileStats, error) {
	user, ok := f.users[userID]
	if !ok {
		return models.ProfileStats{}, mongo.ErrNoDocuments
	}
	return user.Stats, nil
}

type fakeAwardStore struct {
	earned map[string]bool
}

func newFakeAwardStore() *fakeAwardStore {
	return &fakeAwardStore{earned: make(map[string]bool)}
}

func (f *fakeAwardStore) Award(_ context.Context, badge *models.UserBadge) (bool, error) {
	key := badge.UserID + "/" + badge.BadgeID
	if f.earned[key] {
		return false, nil
	}
	f.earned[key] = true
	return true, nil
}

func testUser(userID string, skills ...string) *models.User {
	var offered []models.Skill
	for _, s := range skills {
		offered = append(offered, models.Skill{Name: s, Level: models.SkillLevelIntermediate})
	}
	return &models.User{
		UserID:        userID,
		Name:          userID,
		IsPublic:      true,
		Active:        true,
		OfferedSkills: offered,
	}
}

func newTestSwapService(swaps *fakeSwapStore, users *fakeUserStore, publisher event.Publisher) *SwapService {
	engine := achievement.NewEngine(users, newFakeAwardStore())
	return NewSwapService(swaps, users, engine, publisher)
}

func TestCreate_Validations(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	svc := newTestSwapService(swaps, users, event.NewMockPublisher())
	ctx := context.Background()

	tests := []struct {
		name      string
		requester string
		req       *models.CreateSwapRequest
		kind      apperror.Kind
	}{
		{
			name:      "missing requester skill",
			requester: "alice",
			req:       &models.CreateSwapRequest{RequestedUserID: "bob", RequestedSkill: "Piano"},
			kind:      apperror.KindValidation,
		},
		{
			name:      "self swap",
			requester: "alice",
			req:       &models.CreateSwapRequest{RequestedUserID: "alice", RequesterSkill: "Go", RequestedSkill: "Go"},
			kind:      apperror.KindValidation,
		},
		{
			name:      "unknown requested user",
			requester: "alice",
			req:       &models.CreateSwapRequest{RequestedUserID: "ghost", RequesterSkill: "Go", RequestedSkill: "Piano"},
			kind:      apperror.KindNotFound,
		},
		{
			name:      "requester does not offer the skill",
			requester: "alice",
			req:       &models.CreateSwapRequest{RequestedUserID: "bob", RequesterSkill: "Cooking", RequestedSkill: "Piano"},
			kind:      apperror.KindValidation,
		},
		{
			name:      "requested user does not offer the skill",
			requester: "alice",
			req:       &models.CreateSwapRequest{RequestedUserID: "bob", RequesterSkill: "Go", RequestedSkill: "Cooking"},
			kind:      apperror.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.requester, tt.req)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if apperror.KindOf(err) != tt.kind {
				t.Errorf("Expected error kind %v, got %v (%v)", tt.kind, apperror.KindOf(err), err)
			}
		})
	}
}

func TestCreate_SkillMatchIsCaseInsensitive(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	svc := newTestSwapService(swaps, users, event.NewMockPublisher())

	swap, err := svc.Create(context.Background(), "alice", &models.CreateSwapRequest{
		RequestedUserID: "bob",
		RequesterSkill:  "go",
		RequestedSkill:  "PIANO",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if swap.Status != models.SwapStatusPending {
		t.Errorf("Expected new swap to be pending, got %s", swap.Status)
	}
}

func TestCreate_RejectsDuplicatePending(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	svc := newTestSwapService(swaps, users, event.NewMockPublisher())
	ctx := context.Background()

	req := &models.CreateSwapRequest{RequestedUserID: "bob", RequesterSkill: "Go", RequestedSkill: "Piano"}
	if _, err := svc.Create(ctx, "alice", req); err != nil {
		t.Fatalf("Unexpected error on first request: %v", err)
	}

	dup := &models.CreateSwapRequest{RequestedUserID: "bob", RequesterSkill: "go", RequestedSkill: "piano"}
	_, err := svc.Create(ctx, "alice", dup)
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("Expected validation error for duplicate pending request, got %v", err)
	}
}

func TestCreate_PublishesEvent(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	publisher := event.NewMockPublisher()
	svc := newTestSwapService(swaps, users, publisher)

	_, err := svc.Create(context.Background(), "alice", &models.CreateSwapRequest{
		RequestedUserID: "bob",
		RequesterSkill:  "Go",
		RequestedSkill:  "Piano",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(publisher.SwapEvents) != 1 {
		t.Fatalf("Expected 1 published event, got %d", len(publisher.SwapEvents))
	}
	if publisher.SwapEvents[0].EventType != models.EventTypeSwapCreated {
		t.Errorf("Expected swap.created event, got %s", publisher.SwapEvents[0].EventType)
	}
}

func createPendingSwap(t *testing.T, svc *SwapService) *models.SwapRequest {
	t.Helper()
	swap, err := svc.Create(context.Background(), "alice", &models.CreateSwapRequest{
		RequestedUserID: "bob",
		RequesterSkill:  "Go",
		RequestedSkill:  "Piano",
	})
	if err != nil {
		t.Fatalf("Failed to create swap: %v", err)
	}
	return swap
}

func TestTransition_RoleChecks(t *testing.T) {
	tests := []struct {
		name string
		op   func(*SwapService, context.Context, string, string) (*models.SwapRequest, error)
		// actor who is a participant but not allowed to run the operation
		wrongActor string
	}{
		{"requester cannot accept", (*SwapService).Accept, "alice"},
		{"requester cannot reject", (*SwapService).Reject, "alice"},
		{"requested user cannot cancel", (*SwapService).Cancel, "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swaps := newFakeSwapStore()
			users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
			svc := newTestSwapService(swaps, users, event.NewMockPublisher())
			swap := createPendingSwap(t, svc)

			_, err := tt.op(svc, context.Background(), swap.ID.Hex(), tt.wrongActor)
			if apperror.KindOf(err) != apperror.KindUnauthorized {
				t.Errorf("Expected unauthorized error, got %v", err)
			}
		})
	}
}

func TestTransition_NonParticipant(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"), testUser("mallory"))
	svc := newTestSwapService(swaps, users, event.NewMockPublisher())
	swap := createPendingSwap(t, svc)

	_, err := svc.Accept(context.Background(), swap.ID.Hex(), "mallory")
	if apperror.KindOf(err) != apperror.KindUnauthorized {
		t.Errorf("Expected unauthorized error for outsider, got %v", err)
	}
}

func TestTransition_PendingCannotComplete(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	svc := newTestSwapService(swaps, users, event.NewMockPublisher())
	swap := createPendingSwap(t, svc)

	_, err := svc.Complete(context.Background(), swap.ID.Hex(), "bob")
	if apperror.KindOf(err) != apperror.KindInvalidState {
		t.Errorf("Expected invalid state error completing a pending swap, got %v", err)
	}
}

func TestTransition_TerminalStatesAreFinal(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	svc := newTestSwapService(swaps, users, event.NewMockPublisher())
	ctx := context.Background()
	swap := createPendingSwap(t, svc)

	if _, err := svc.Reject(ctx, swap.ID.Hex(), "bob"); err != nil {
		t.Fatalf("Unexpected error rejecting: %v", err)
	}

	_, err := svc.Accept(ctx, swap.ID.Hex(), "bob")
	if apperror.KindOf(err) != apperror.KindInvalidState {
		t.Errorf("Expected invalid state error accepting a rejected swap, got %v", err)
	}
}

func TestTransition_LostRace(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	svc := newTestSwapService(swaps, users, event.NewMockPublisher())
	swap := createPendingSwap(t, svc)

	// Another writer moves the swap between the read and the update.
	stored := swaps.swaps[swap.ID.Hex()]
	loaded, err := swaps.FindByID(context.Background(), swap.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	stored.Status = models.SwapStatusCancelled

	_, err = swaps.UpdateStatus(context.Background(), swap.ID, loaded.Status, models.SwapStatusAccepted)
	if err != mongo.ErrNoDocuments {
		t.Fatalf("Expected the store to reject a stale compare-and-set, got %v", err)
	}

	_, err = svc.Accept(context.Background(), swap.ID.Hex(), "bob")
	if apperror.KindOf(err) != apperror.KindInvalidState {
		t.Errorf("Expected invalid state error after losing the race, got %v", err)
	}
}

func TestComplete_IncrementsBothParticipantsOnce(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	publisher := event.NewMockPublisher()
	svc := newTestSwapService(swaps, users, publisher)
	ctx := context.Background()
	swap := createPendingSwap(t, svc)

	if _, err := svc.Accept(ctx, swap.ID.Hex(), "bob"); err != nil {
		t.Fatalf("Unexpected error accepting: %v", err)
	}
	completed, err := svc.Complete(ctx, swap.ID.Hex(), "alice")
	if err != nil {
		t.Fatalf("Unexpected error completing: %v", err)
	}
	if completed.Status != models.SwapStatusCompleted {
		t.Errorf("Expected completed status, got %s", completed.Status)
	}

	for _, userID := range []string{"alice", "bob"} {
		if users.increments[userID] != 1 {
			t.Errorf("Expected exactly one increment for %s, got %d", userID, users.increments[userID])
		}
		if users.users[userID].Stats.CompletedSwaps != 1 {
			t.Errorf("Expected completedSwaps 1 for %s, got %d", userID, users.users[userID].Stats.CompletedSwaps)
		}
	}

	// Completing again must fail without touching the counters.
	_, err = svc.Complete(ctx, swap.ID.Hex(), "bob")
	if apperror.KindOf(err) != apperror.KindInvalidState {
		t.Fatalf("Expected invalid state error on double completion, got %v", err)
	}
	if users.increments["alice"] != 1 || users.increments["bob"] != 1 {
		t.Error("Double completion must not increment counters again")
	}
}

func TestComplete_AwardsFirstSwapBadges(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	publisher := event.NewMockPublisher()
	svc := newTestSwapService(swaps, users, publisher)
	ctx := context.Background()
	swap := createPendingSwap(t, svc)

	if _, err := svc.Accept(ctx, swap.ID.Hex(), "bob"); err != nil {
		t.Fatalf("Unexpected error accepting: %v", err)
	}
	if _, err := svc.Complete(ctx, swap.ID.Hex(), "alice"); err != nil {
		t.Fatalf("Unexpected error completing: %v", err)
	}

	if len(publisher.BadgeEvents) != 2 {
		t.Fatalf("Expected a badge event per participant, got %d", len(publisher.BadgeEvents))
	}
	for _, evt := range publisher.BadgeEvents {
		if evt.BadgeID != "first-swap" {
			t.Errorf("Expected first-swap badge, got %s", evt.BadgeID)
		}
	}
}

func TestGetByID_RestrictedToParticipants(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore(testUser("alice", "Go"), testUser("bob", "Piano"))
	svc := newTestSwapService(swaps, users, event.NewMockPublisher())
	swap := createPendingSwap(t, svc)

	if _, err := svc.GetByID(context.Background(), swap.ID.Hex(), "alice"); err != nil {
		t.Errorf("Expected participant read to succeed, got %v", err)
	}
	_, err := svc.GetByID(context.Background(), swap.ID.Hex(), "mallory")
	if apperror.KindOf(err) != apperror.KindUnauthorized {
		t.Errorf("Expected unauthorized error for outsider, got %v", err)
	}
}

func TestGetByID_InvalidID(t *testing.T) {
	swaps := newFakeSwapStore()
	users := newFakeUserStore()
	svc := newTestSwapService(swaps, users, event.NewMockPublisher())

	_, err := svc.GetByID(context.Background(), "not-an-object-id", "alice")
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("Expected validation error for malformed ID, got %v", err)
	}

	_, err = svc.GetByID(context.Background(), bson.NewObjectID().Hex(), "alice")
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("Expected not found error for unknown ID, got %v", err)
	}
}
