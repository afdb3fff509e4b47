package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type BadgeRarity string

const (
	BadgeRarityCommon    BadgeRarity = "common"
	BadgeRarityRare      BadgeRarity = "rare"
	BadgeRarityEpic      BadgeRarity = "epic"
	BadgeRarityLegendary BadgeRarity = "legendary"
)

// Rank orders rarities for display, common lowest.
func (r BadgeRarity) Rank() int {
	switch r {
	case BadgeRarityCommon:
		return 0
	case BadgeRarityRare:
		return 1
	case BadgeRarityEpic:
		return 2
	case BadgeRarityLegendary:
		return 3
	default:
		return -1
	}
}

// UserBadge records that a user earned a badge. At most one active record
// exists per (userId, badgeId) pair; the collection carries a unique index
// on that pair.
type UserBadge struct {
	ID                 bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID             string        `json:"userId" bson:"userId"`
	BadgeID            string        `json:"badgeId" bson:"badgeId"`
	EarnedAt           time.Time     `json:"earnedAt" bson:"earnedAt"`
	IsActive           bool          `json:"isActive" bson:"isActive"`
	AchievementContext string        `json:"achievementContext,omitempty" bson:"achievementContext,omitempty"`
}
