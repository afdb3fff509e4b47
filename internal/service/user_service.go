package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"swap-service/internal/achievement"
	"swap-service/internal/apperror"
	"swap-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// UserStore is the user persistence the user service needs.
type UserStore interface {
	New(ctx context.Context, user *models.User) (*models.User, error)
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	FindPublicActive(ctx context.Context) ([]*models.User, error)
	UpdateSkills(ctx context.Context, userID string, offered []models.Skill, wanted []string) (*models.User, error)
	IncrementProfileViews(ctx context.Context, userID string) error
}

// MatchInvalidator drops a user's cached match list after a change that
// affects scoring.
type MatchInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type UserService struct {
	users  UserStore
	badges *achievement.Engine
	cache  MatchInvalidator
}

func NewUserService(users UserStore, badges *achievement.Engine, cache MatchInvalidator) *UserService {
	return &UserService{
		users:  users,
		badges: badges,
		cache:  cache,
	}
}

func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if req.UserID == "" {
		return nil, apperror.Validation("user ID is required")
	}
	if req.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if err := validateSkills(req.OfferedSkills, req.WantedSkills); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUserID(ctx, req.UserID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperror.Validation("user %s already exists", req.UserID)
	}

	user := &models.User{
		UserID:        req.UserID,
		Name:          req.Name,
		Username:      req.Username,
		Location:      req.Location,
		Tagline:       req.Tagline,
		IsPublic:      req.IsPublic,
		Active:        true,
		OfferedSkills: req.OfferedSkills,
		WantedSkills:  req.WantedSkills,
	}

	created, err := s.users.New(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, apperror.Validation("user ID is required")
	}

	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (s *UserService) ListPublic(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.FindPublicActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list public users: %w", err)
	}
	return users, nil
}

// UpdateSkills replaces the user's skill lists and drops their cached match
// list, since both sides of the score depend on skills.
func (s *UserService) UpdateSkills(ctx context.Context, userID string, req *models.UpdateSkillsRequest) (*models.User, error) {
	if err := validateSkills(req.OfferedSkills, req.WantedSkills); err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateSkills(ctx, userID, req.OfferedSkills, req.WantedSkills)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to update skills: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			log.Printf("Failed to invalidate match cache for user %s: %v", userID, err)
		}
	}

	return updated, nil
}

// IncrementProfileViews bumps the view counter and re-evaluates the badge
// catalog for the user.
func (s *UserService) IncrementProfileViews(ctx context.Context, userID string) error {
	if err := s.users.IncrementProfileViews(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.NotFound("user %s not found", userID)
		}
		return fmt.Errorf("failed to increment profile views: %w", err)
	}

	if _, err := s.badges.EvaluateAndAward(ctx, userID); err != nil {
		return fmt.Errorf("profile view recorded but badge evaluation failed: %w", err)
	}

	return nil
}

func validateSkills(offered []models.Skill, wanted []string) error {
	for _, skill := range offered {
		if strings.TrimSpace(skill.Name) == "" {
			return apperror.Validation("offered skill name cannot be empty")
		}
	}
	for _, skill := range wanted {
		if strings.TrimSpace(skill) == "" {
			return apperror.Validation("wanted skill cannot be empty")
		}
	}
	return nil
}
