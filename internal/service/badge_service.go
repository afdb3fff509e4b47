package service

import (
	"context"
	"fmt"

	"swap-service/internal/achievement"
	"swap-service/internal/models"
)

// EarnedBadgeStore lists earned-badge records.
type EarnedBadgeStore interface {
	FindByUserID(ctx context.Context, userID string) ([]*models.UserBadge, error)
}

type BadgeService struct {
	earned EarnedBadgeStore
	engine *achievement.Engine
}

func NewBadgeService(earned EarnedBadgeStore, engine *achievement.Engine) *BadgeService {
	return &BadgeService{
		earned: earned,
		engine: engine,
	}
}

// GetUserBadges returns the whole catalog decorated with the user's earned
// status.
func (s *BadgeService) GetUserBadges(ctx context.Context, userID string) ([]models.BadgeView, error) {
	earned, err := s.earned.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned badges: %w", err)
	}

	earnedByID := make(map[string]*models.UserBadge, len(earned))
	for _, ub := range earned {
		earnedByID[ub.BadgeID] = ub
	}

	rules := s.engine.Rules()
	views := make([]models.BadgeView, 0, len(rules))
	for _, rule := range rules {
		view := badgeView(rule)
		if ub, ok := earnedByID[rule.ID]; ok {
			view.IsEarned = true
			earnedAt := ub.EarnedAt
			view.EarnedAt = &earnedAt
			view.AchievementContext = ub.AchievementContext
		}
		views = append(views, view)
	}

	return views, nil
}

// GetEarnedBadges returns only the badges the user has earned, newest
// first.
func (s *BadgeService) GetEarnedBadges(ctx context.Context, userID string) ([]models.BadgeView, error) {
	earned, err := s.earned.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned badges: %w", err)
	}

	views := make([]models.BadgeView, 0, len(earned))
	for _, ub := range earned {
		rule, ok := s.engine.RuleByID(ub.BadgeID)
		if !ok {
			// Rule removed from the catalog; the earned record stays but
			// has nothing to display.
			continue
		}
		view := badgeView(rule)
		view.IsEarned = true
		earnedAt := ub.EarnedAt
		view.EarnedAt = &earnedAt
		view.AchievementContext = ub.AchievementContext
		views = append(views, view)
	}

	return views, nil
}

// GetBadgeStats summarizes the user's earned badges by rarity.
func (s *BadgeService) GetBadgeStats(ctx context.Context, userID string) (*models.BadgeStats, error) {
	earned, err := s.earned.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned badges: %w", err)
	}

	stats := &models.BadgeStats{}
	for _, ub := range earned {
		rule, ok := s.engine.RuleByID(ub.BadgeID)
		if !ok {
			continue
		}
		stats.TotalBadges++
		switch rule.Rarity {
		case models.BadgeRarityLegendary:
			stats.LegendaryBadges++
		case models.BadgeRarityEpic:
			stats.EpicBadges++
		case models.BadgeRarityRare:
			stats.RareBadges++
		case models.BadgeRarityCommon:
			stats.CommonBadges++
		}
	}

	return stats, nil
}

func badgeView(rule achievement.Rule) models.BadgeView {
	return models.BadgeView{
		ID:          rule.ID,
		Name:        rule.Name,
		Description: rule.Description,
		Icon:        rule.Icon,
		Color:       rule.Color,
		BgColor:     rule.BgColor,
		Rarity:      rule.Rarity,
	}
}
