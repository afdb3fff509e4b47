package service

import (
	"context"
	"errors"
	"fmt"

	"swap-service/internal/achievement"
	"swap-service/internal/apperror"
	"swap-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// RatingStore persists ratings.
type RatingStore interface {
	New(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	FindByRatedUserID(ctx context.Context, userID string) ([]*models.Rating, error)
	ExistsForSwapByRater(ctx context.Context, swapID, raterID string) (bool, error)
}

// RatingUserStore is the slice of the user store the rating flow touches.
type RatingUserStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	ApplyRating(ctx context.Context, userID string, score int) (models.ProfileStats, error)
}

// RatingSwapStore verifies that a rating refers to a real completed swap.
type RatingSwapStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.SwapRequest, error)
}

type RatingService struct {
	ratings RatingStore
	users   RatingUserStore
	swaps   RatingSwapStore
	badges  *achievement.Engine
}

func NewRatingService(ratings RatingStore, users RatingUserStore, swaps RatingSwapStore, badges *achievement.Engine) *RatingService {
	return &RatingService{
		ratings: ratings,
		users:   users,
		swaps:   swaps,
		badges:  badges,
	}
}

// Submit records a 1-5 star rating for ratedUserID, folds it into their
// stats and re-evaluates their badges. When a swap ID is given the rater
// must be the other participant of a completed swap and may rate it only
// once.
func (s *RatingService) Submit(ctx context.Context, raterID, ratedUserID string, req *models.SubmitRatingRequest) (*models.Rating, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, apperror.Validation("rating score must be between 1 and 5")
	}
	if raterID == ratedUserID {
		return nil, apperror.Validation("you cannot rate yourself")
	}

	if _, err := s.users.FindByUserID(ctx, ratedUserID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user %s not found", ratedUserID)
		}
		return nil, fmt.Errorf("failed to load rated user: %w", err)
	}

	if req.SwapID != "" {
		if err := s.validateSwapRating(ctx, raterID, ratedUserID, req.SwapID); err != nil {
			return nil, err
		}
	}

	rating := &models.Rating{
		SwapID:      req.SwapID,
		RaterID:     raterID,
		RatedUserID: ratedUserID,
		Score:       req.Score,
		Comment:     req.Comment,
	}

	created, err := s.ratings.New(ctx, rating)
	if err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	if _, err := s.users.ApplyRating(ctx, ratedUserID, req.Score); err != nil {
		return nil, fmt.Errorf("rating saved but failed to update stats: %w", err)
	}

	if _, err := s.badges.EvaluateAndAward(ctx, ratedUserID); err != nil {
		return nil, fmt.Errorf("rating recorded but badge evaluation failed: %w", err)
	}

	return created, nil
}

func (s *RatingService) validateSwapRating(ctx context.Context, raterID, ratedUserID, swapID string) error {
	id, err := bson.ObjectIDFromHex(swapID)
	if err != nil {
		return apperror.Validation("invalid swap ID format")
	}

	swap, err := s.swaps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("swap request not found")
		}
		return fmt.Errorf("failed to load swap request: %w", err)
	}

	if !swap.IsParticipant(raterID) || !swap.IsParticipant(ratedUserID) {
		return apperror.Unauthorized("only swap participants can rate each other")
	}
	if swap.Status != models.SwapStatusCompleted {
		return apperror.InvalidState("only completed swaps can be rated")
	}

	already, err := s.ratings.ExistsForSwapByRater(ctx, swapID, raterID)
	if err != nil {
		return fmt.Errorf("failed to check existing rating: %w", err)
	}
	if already {
		return apperror.Validation("you have already rated this swap")
	}

	return nil
}

func (s *RatingService) ListForUser(ctx context.Context, userID string) ([]*models.Rating, error) {
	ratings, err := s.ratings.FindByRatedUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}

// AverageForUser reads the running average from the user's stats.
func (s *RatingService) AverageForUser(ctx context.Context, userID string) (float64, error) {
	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, apperror.NotFound("user %s not found", userID)
		}
		return 0, fmt.Errorf("failed to load user: %w", err)
	}
	return user.Stats.AverageRating, nil
}
