package achievement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"swap-service/internal/models"
)

// StatsSource reads the current counters for a user.
type StatsSource interface {
	GetStats(ctx context.Context, userID string) (models.ProfileStats, error)
}

// BadgeStore persists awards. Award must be atomic per (userId, badgeId):
// it returns false when the badge was already earned, relying on the
// store's uniqueness guarantee rather than a separate lookup.
type BadgeStore interface {
	Award(ctx context.Context, badge *models.UserBadge) (bool, error)
}

// Engine re-evaluates the whole catalog against a user's stats after every
// stat-affecting event.
type Engine struct {
	stats  StatsSource
	badges BadgeStore
	rules  []Rule
}

func NewEngine(stats StatsSource, badges BadgeStore) *Engine {
	return &Engine{
		stats:  stats,
		badges: badges,
		rules:  Catalog(),
	}
}

// Rules returns the catalog the engine evaluates.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// RuleByID looks up a catalog rule by its stable identifier.
func (e *Engine) RuleByID(id string) (Rule, bool) {
	for _, r := range e.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// EvaluateAndAward checks every catalog rule against the user's current
// stats and awards each newly satisfied one. It returns the rules awarded
// by this call. Re-running with unchanged stats awards nothing: the badge
// store's uniqueness constraint makes the operation idempotent.
func (e *Engine) EvaluateAndAward(ctx context.Context, userID string) ([]Rule, error) {
	stats, err := e.stats.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats for user %s: %w", userID, err)
	}

	var awarded []Rule
	for _, rule := range e.rules {
		if !rule.Satisfied(stats) {
			continue
		}

		badge := &models.UserBadge{
			UserID:             userID,
			BadgeID:            rule.ID,
			EarnedAt:           time.Now(),
			IsActive:           true,
			AchievementContext: fmt.Sprintf("Earned through %s achievement", strings.ToLower(string(rule.ConditionType))),
		}

		inserted, err := e.badges.Award(ctx, badge)
		if err != nil {
			return awarded, fmt.Errorf("failed to award badge %s to user %s: %w", rule.ID, userID, err)
		}
		if inserted {
			awarded = append(awarded, rule)
		}
	}

	return awarded, nil
}
