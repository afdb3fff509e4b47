package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"swap-service/internal/achievement"
	"swap-service/internal/apperror"
	"swap-service/internal/event"
	"swap-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// SwapStore is the swap-request persistence the service needs.
// UpdateStatus must be a compare-and-set on the expected prior status and
// return mongo.ErrNoDocuments when the document is not in that status
// anymore.
type SwapStore interface {
	New(ctx context.Context, swap *models.SwapRequest) (*models.SwapRequest, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.SwapRequest, error)
	FindByParticipant(ctx context.Context, userID string) ([]*models.SwapRequest, error)
	FindByRequestedAndStatus(ctx context.Context, userID string, status models.SwapStatus) ([]*models.SwapRequest, error)
	HasPendingDuplicate(ctx context.Context, requesterID, requestedUserID, requesterSkill, requestedSkill string) (bool, error)
	UpdateStatus(ctx context.Context, id bson.ObjectID, from, to models.SwapStatus) (*models.SwapRequest, error)
}

// SwapUserStore is the slice of the user store the swap lifecycle touches.
type SwapUserStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	IncrementSwapCounters(ctx context.Context, userID string) error
}

type SwapService struct {
	swaps     SwapStore
	users     SwapUserStore
	badges    *achievement.Engine
	publisher event.Publisher
}

func NewSwapService(swaps SwapStore, users SwapUserStore, badges *achievement.Engine, publisher event.Publisher) *SwapService {
	return &SwapService{
		swaps:     swaps,
		users:     users,
		badges:    badges,
		publisher: publisher,
	}
}

// Create validates and stores a new pending swap request.
func (s *SwapService) Create(ctx context.Context, requesterID string, req *models.CreateSwapRequest) (*models.SwapRequest, error) {
	if requesterID == "" {
		return nil, apperror.Validation("requester ID is required")
	}
	if req.RequestedUserID == "" || req.RequesterSkill == "" || req.RequestedSkill == "" {
		return nil, apperror.Validation("requested user and both skills are required")
	}
	if requesterID == req.RequestedUserID {
		return nil, apperror.Validation("cannot send a swap request to yourself")
	}

	requester, err := s.findUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	requestedUser, err := s.findUser(ctx, req.RequestedUserID)
	if err != nil {
		return nil, err
	}

	if !requester.OffersSkill(req.RequesterSkill) {
		return nil, apperror.Validation("skill %q is not in your offered skills", req.RequesterSkill)
	}
	if !requestedUser.OffersSkill(req.RequestedSkill) {
		return nil, apperror.Validation("skill %q is not offered by the requested user", req.RequestedSkill)
	}

	duplicate, err := s.swaps.HasPendingDuplicate(ctx, requesterID, req.RequestedUserID, req.RequesterSkill, req.RequestedSkill)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate request: %w", err)
	}
	if duplicate {
		return nil, apperror.Validation("a pending swap request for this skill pair already exists")
	}

	swap := &models.SwapRequest{
		RequesterID:     requesterID,
		RequestedUserID: req.RequestedUserID,
		RequesterSkill:  req.RequesterSkill,
		RequestedSkill:  req.RequestedSkill,
		Message:         req.Message,
		Deadline:        req.Deadline,
	}

	created, err := s.swaps.New(ctx, swap)
	if err != nil {
		return nil, fmt.Errorf("failed to create swap request: %w", err)
	}

	s.publishSwapEvent(models.EventTypeSwapCreated, created)

	return created, nil
}

// Accept moves a pending request to accepted. Only the requested user may
// accept.
func (s *SwapService) Accept(ctx context.Context, swapID, actorID string) (*models.SwapRequest, error) {
	return s.transition(ctx, swapID, actorID, models.SwapStatusAccepted)
}

// Reject moves a pending request to rejected. Only the requested user may
// reject.
func (s *SwapService) Reject(ctx context.Context, swapID, actorID string) (*models.SwapRequest, error) {
	return s.transition(ctx, swapID, actorID, models.SwapStatusRejected)
}

// Cancel withdraws a pending request. Only the requester may cancel.
func (s *SwapService) Cancel(ctx context.Context, swapID, actorID string) (*models.SwapRequest, error) {
	return s.transition(ctx, swapID, actorID, models.SwapStatusCancelled)
}

// Complete finishes an accepted swap. Either participant may complete.
// On success both participants' swap counters are incremented and the badge
// engine re-evaluates each of them; badge evaluation failure is logged and
// never rolls back the completed status.
func (s *SwapService) Complete(ctx context.Context, swapID, actorID string) (*models.SwapRequest, error) {
	return s.transition(ctx, swapID, actorID, models.SwapStatusCompleted)
}

func (s *SwapService) transition(ctx context.Context, swapID, actorID string, target models.SwapStatus) (*models.SwapRequest, error) {
	id, err := bson.ObjectIDFromHex(swapID)
	if err != nil {
		return nil, apperror.Validation("invalid swap request ID format")
	}

	swap, err := s.swaps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("swap request not found")
		}
		return nil, fmt.Errorf("failed to load swap request: %w", err)
	}

	if !swap.IsParticipant(actorID) {
		return nil, apperror.Unauthorized("you are not a participant of this swap request")
	}

	switch target {
	case models.SwapStatusAccepted, models.SwapStatusRejected:
		if actorID != swap.RequestedUserID {
			return nil, apperror.Unauthorized("only the requested user can accept or reject this swap")
		}
	case models.SwapStatusCancelled:
		if actorID != swap.RequesterID {
			return nil, apperror.Unauthorized("only the requester can cancel this swap")
		}
	case models.SwapStatusCompleted:
		// Either participant may complete.
	default:
		return nil, apperror.Validation("invalid status update")
	}

	if !swap.Status.CanTransitionTo(target) {
		return nil, apperror.InvalidState("cannot move swap from %s to %s", swap.Status, target)
	}

	updated, err := s.swaps.UpdateStatus(ctx, id, swap.Status, target)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost the race: someone else transitioned first.
			return nil, apperror.InvalidState("swap request is no longer %s", swap.Status)
		}
		return nil, fmt.Errorf("failed to update swap status: %w", err)
	}

	if target == models.SwapStatusCompleted {
		if err := s.applyCompletion(ctx, updated); err != nil {
			return updated, err
		}
	}

	s.publishSwapEvent(eventTypeForStatus(target), updated)

	return updated, nil
}

// applyCompletion runs the completion fan-out: counter increments for both
// participants, then badge re-evaluation. The completed status is already
// durable; a failed increment is surfaced so the caller can retry (the
// compare-and-set guard keeps retries from double-applying), while badge
// evaluation is best effort.
func (s *SwapService) applyCompletion(ctx context.Context, swap *models.SwapRequest) error {
	participants := []string{swap.RequesterID, swap.RequestedUserID}

	for _, userID := range participants {
		if err := s.users.IncrementSwapCounters(ctx, userID); err != nil {
			return fmt.Errorf("swap %s completed but failed to update stats for user %s: %w", swap.ID.Hex(), userID, err)
		}
	}

	for _, userID := range participants {
		awarded, err := s.badges.EvaluateAndAward(ctx, userID)
		if err != nil {
			log.Printf("Badge evaluation failed for user %s after swap %s completion: %v", userID, swap.ID.Hex(), err)
			continue
		}
		s.publishBadgeEvents(userID, awarded)
	}

	return nil
}

func (s *SwapService) GetByID(ctx context.Context, swapID, actorID string) (*models.SwapRequest, error) {
	id, err := bson.ObjectIDFromHex(swapID)
	if err != nil {
		return nil, apperror.Validation("invalid swap request ID format")
	}

	swap, err := s.swaps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("swap request not found")
		}
		return nil, fmt.Errorf("failed to load swap request: %w", err)
	}

	if !swap.IsParticipant(actorID) {
		return nil, apperror.Unauthorized("you are not a participant of this swap request")
	}

	return swap, nil
}

// GetUserSwaps returns every swap the user is a party to, newest first.
func (s *SwapService) GetUserSwaps(ctx context.Context, userID string) ([]*models.SwapRequest, error) {
	swaps, err := s.swaps.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swap requests: %w", err)
	}
	return swaps, nil
}

// GetPendingIncoming returns pending requests addressed to the user.
func (s *SwapService) GetPendingIncoming(ctx context.Context, userID string) ([]*models.SwapRequest, error) {
	swaps, err := s.swaps.FindByRequestedAndStatus(ctx, userID, models.SwapStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending swap requests: %w", err)
	}
	return swaps, nil
}

func (s *SwapService) findUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return user, nil
}

func (s *SwapService) publishSwapEvent(eventType models.EventType, swap *models.SwapRequest) {
	if s.publisher == nil {
		return
	}
	evt := &models.SwapEvent{
		EventType:       eventType,
		SwapID:          swap.ID.Hex(),
		RequesterID:     swap.RequesterID,
		RequestedUserID: swap.RequestedUserID,
		Status:          string(swap.Status),
		Timestamp:       time.Now().Unix(),
	}
	if err := s.publisher.PublishSwapEvent(evt); err != nil {
		log.Printf("Failed to publish %s event for swap %s: %v", eventType, evt.SwapID, err)
	}
}

func (s *SwapService) publishBadgeEvents(userID string, awarded []achievement.Rule) {
	if s.publisher == nil {
		return
	}
	for _, rule := range awarded {
		evt := &models.BadgeEvent{
			EventType: models.EventTypeBadgeAwarded,
			UserID:    userID,
			BadgeID:   rule.ID,
			BadgeName: rule.Name,
			Timestamp: time.Now().Unix(),
		}
		if err := s.publisher.PublishBadgeEvent(evt); err != nil {
			log.Printf("Failed to publish badge.awarded event for user %s badge %s: %v", userID, rule.ID, err)
		}
	}
}

func eventTypeForStatus(status models.SwapStatus) models.EventType {
	switch status {
	case models.SwapStatusAccepted:
		return models.EventTypeSwapAccepted
	case models.SwapStatusRejected:
		return models.EventTypeSwapRejected
	case models.SwapStatusCancelled:
		return models.EventTypeSwapCancelled
	case models.SwapStatusCompleted:
		return models.EventTypeSwapCompleted
	default:
		return models.EventTypeSwapCreated
	}
}
