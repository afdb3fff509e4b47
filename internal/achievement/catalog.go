// Package achievement evaluates the fixed badge catalog against a user's
// stats and awards any newly qualifying badges exactly once.
package achievement

import (
	"swap-service/internal/models"
)

type ConditionType string

const (
	ConditionRating      ConditionType = "RATING"
	ConditionSwap        ConditionType = "SWAP"
	ConditionActivity    ConditionType = "ACTIVITY"
	ConditionCombination ConditionType = "COMBINATION"
)

// StatField names one counter on models.ProfileStats.
type StatField string

const (
	FieldTotalRatings   StatField = "totalRatings"
	FieldAverageRating  StatField = "averageRating"
	FieldTotalSwaps     StatField = "totalSwaps"
	FieldCompletedSwaps StatField = "completedSwaps"
	FieldProfileViews   StatField = "profileViews"
)

// Condition is a single threshold check, satisfied when the named stat is
// at least Min.
type Condition struct {
	Field StatField
	Min   float64
}

// Rule is one immutable catalog entry. Rules are independent flat
// predicates: combination rules restate their thresholds instead of
// referencing other rules, so evaluation order never matters. ID is the
// stable identifier earned records key on; Name and the display fields are
// presentation data and may change.
type Rule struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Icon          string               `json:"icon"`
	Color         string               `json:"color"`
	BgColor       string               `json:"bgColor"`
	Rarity        models.BadgeRarity   `json:"rarity"`
	ConditionType ConditionType        `json:"conditionType"`
	Conditions    []Condition          `json:"-"`
}

// Satisfied reports whether every condition of the rule holds for stats.
func (r Rule) Satisfied(stats models.ProfileStats) bool {
	for _, c := range r.Conditions {
		if statValue(stats, c.Field) < c.Min {
			return false
		}
	}
	return len(r.Conditions) > 0
}

func statValue(stats models.ProfileStats, field StatField) float64 {
	switch field {
	case FieldTotalRatings:
		return float64(stats.TotalRatings)
	case FieldAverageRating:
		return stats.AverageRating
	case FieldTotalSwaps:
		return float64(stats.TotalSwaps)
	case FieldCompletedSwaps:
		return float64(stats.CompletedSwaps)
	case FieldProfileViews:
		return float64(stats.ProfileViews)
	default:
		return 0
	}
}

// Catalog returns the fixed badge rule set, loaded once at startup.
func Catalog() []Rule {
	return []Rule{
		// Rating badges
		{
			ID: "first-rating", Name: "First Steps",
			Description: "Received your first rating",
			Icon:        "Star", Color: "text-yellow-600", BgColor: "bg-yellow-100",
			Rarity: models.BadgeRarityCommon, ConditionType: ConditionRating,
			Conditions: []Condition{{FieldTotalRatings, 1}},
		},
		{
			ID: "rating-3", Name: "Rising Star",
			Description: "Maintain a 3+ star average rating",
			Icon:        "Star", Color: "text-yellow-600", BgColor: "bg-yellow-100",
			Rarity: models.BadgeRarityCommon, ConditionType: ConditionRating,
			Conditions: []Condition{{FieldTotalRatings, 3}, {FieldAverageRating, 3.0}},
		},
		{
			ID: "rating-4", Name: "Trusted Partner",
			Description: "Maintain a 4+ star average rating",
			Icon:        "Medal", Color: "text-blue-600", BgColor: "bg-blue-100",
			Rarity: models.BadgeRarityRare, ConditionType: ConditionRating,
			Conditions: []Condition{{FieldTotalRatings, 5}, {FieldAverageRating, 4.0}},
		},
		{
			ID: "rating-5", Name: "Perfect Knight",
			Description: "Maintain a 5-star average rating",
			Icon:        "Crown", Color: "text-purple-600", BgColor: "bg-purple-100",
			Rarity: models.BadgeRarityLegendary, ConditionType: ConditionRating,
			Conditions: []Condition{{FieldTotalRatings, 10}, {FieldAverageRating, 4.8}},
		},
		{
			ID: "rating-10", Name: "Veteran",
			Description: "Received 10+ ratings",
			Icon:        "Trophy", Color: "text-orange-600", BgColor: "bg-orange-100",
			Rarity: models.BadgeRarityRare, ConditionType: ConditionRating,
			Conditions: []Condition{{FieldTotalRatings, 10}},
		},
		{
			ID: "rating-25", Name: "Elite",
			Description: "Received 25+ ratings",
			Icon:        "Award", Color: "text-red-600", BgColor: "bg-red-100",
			Rarity: models.BadgeRarityEpic, ConditionType: ConditionRating,
			Conditions: []Condition{{FieldTotalRatings, 25}},
		},

		// Swap badges
		{
			ID: "first-swap", Name: "Skill Swapper",
			Description: "Completed your first skill swap",
			Icon:        "Zap", Color: "text-green-600", BgColor: "bg-green-100",
			Rarity: models.BadgeRarityCommon, ConditionType: ConditionSwap,
			Conditions: []Condition{{FieldCompletedSwaps, 1}},
		},
		{
			ID: "swap-5", Name: "Dedicated Learner",
			Description: "Completed 5+ skill swaps",
			Icon:        "Heart", Color: "text-pink-600", BgColor: "bg-pink-100",
			Rarity: models.BadgeRarityRare, ConditionType: ConditionSwap,
			Conditions: []Condition{{FieldCompletedSwaps, 5}},
		},
		{
			ID: "swap-10", Name: "Skill Master",
			Description: "Completed 10+ skill swaps",
			Icon:        "Shield", Color: "text-indigo-600", BgColor: "bg-indigo-100",
			Rarity: models.BadgeRarityEpic, ConditionType: ConditionSwap,
			Conditions: []Condition{{FieldCompletedSwaps, 10}},
		},
		{
			ID: "swap-25", Name: "Grand Master",
			Description: "Completed 25+ skill swaps",
			Icon:        "Sword", Color: "text-gray-800", BgColor: "bg-gray-100",
			Rarity: models.BadgeRarityLegendary, ConditionType: ConditionSwap,
			Conditions: []Condition{{FieldCompletedSwaps, 25}},
		},

		// Activity badges
		{
			ID: "views-100", Name: "Popular",
			Description: "Profile viewed 100+ times",
			Icon:        "Users", Color: "text-blue-600", BgColor: "bg-blue-100",
			Rarity: models.BadgeRarityRare, ConditionType: ConditionActivity,
			Conditions: []Condition{{FieldProfileViews, 100}},
		},

		// Combination badges
		{
			ID: "perfect-achiever", Name: "Perfect Achiever",
			Description: "5-star rating with 10+ completed swaps",
			Icon:        "Crown", Color: "text-yellow-600", BgColor: "bg-yellow-100",
			Rarity: models.BadgeRarityLegendary, ConditionType: ConditionCombination,
			Conditions: []Condition{
				{FieldTotalRatings, 10},
				{FieldAverageRating, 4.8},
				{FieldCompletedSwaps, 10},
			},
		},
		{
			ID: "community-pillar", Name: "Community Pillar",
			Description: "25+ ratings and 10+ completed swaps",
			Icon:        "Trophy", Color: "text-purple-600", BgColor: "bg-purple-100",
			Rarity: models.BadgeRarityEpic, ConditionType: ConditionCombination,
			Conditions: []Condition{
				{FieldTotalRatings, 25},
				{FieldCompletedSwaps, 10},
			},
		},
	}
}
