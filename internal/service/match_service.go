package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"swap-service/internal/apperror"
	"swap-service/internal/matching"
	"swap-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MatchUserStore is the slice of the user store match discovery needs.
type MatchUserStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	FindPublicActive(ctx context.Context) ([]*models.User, error)
}

// MatchCache caches ranked match lists. A nil cache disables caching.
type MatchCache interface {
	Get(ctx context.Context, userID string) ([]models.MatchView, error)
	Set(ctx context.Context, userID string, matches []models.MatchView) error
}

type MatchService struct {
	users MatchUserStore
	cache MatchCache
}

func NewMatchService(users MatchUserStore, cache MatchCache) *MatchService {
	return &MatchService{
		users: users,
		cache: cache,
	}
}

// PotentialMatches scores every public active user against userID and
// returns them ranked by score descending with stable ties. Results are
// served from cache when fresh; cache errors degrade to a rescore.
func (s *MatchService) PotentialMatches(ctx context.Context, userID string) ([]models.MatchView, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			log.Printf("Match cache read failed for user %s: %v", userID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	current, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.users.FindPublicActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	matches := matching.Rank(current, candidates)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, matches); err != nil {
			log.Printf("Match cache write failed for user %s: %v", userID, err)
		}
	}

	return matches, nil
}

// ScoreAgainst computes the score breakdown between the current user and
// one candidate.
func (s *MatchService) ScoreAgainst(ctx context.Context, currentID, candidateID string) (matching.Breakdown, error) {
	current, err := s.findUser(ctx, currentID)
	if err != nil {
		return matching.Breakdown{}, err
	}
	candidate, err := s.findUser(ctx, candidateID)
	if err != nil {
		return matching.Breakdown{}, err
	}

	return matching.ScoreBreakdown(current, candidate), nil
}

func (s *MatchService) findUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return user, nil
}
