package models

import "time"

type CreateUserRequest struct {
	UserID        string   `json:"userId"`
	Name          string   `json:"name"`
	Username      string   `json:"username"`
	Location      string   `json:"location"`
	Tagline       string   `json:"tagline"`
	IsPublic      bool     `json:"isPublic"`
	OfferedSkills []Skill  `json:"offeredSkills"`
	WantedSkills  []string `json:"wantedSkills"`
}

type UpdateSkillsRequest struct {
	OfferedSkills []Skill  `json:"offeredSkills"`
	WantedSkills  []string `json:"wantedSkills"`
}

type CreateSwapRequest struct {
	RequestedUserID string     `json:"requestedUserId"`
	RequesterSkill  string     `json:"requesterSkill"`
	RequestedSkill  string     `json:"requestedSkill"`
	Message         string     `json:"message"`
	Deadline        *time.Time `json:"deadline,omitempty"`
}

type SubmitRatingRequest struct {
	SwapID  string `json:"swapId"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// BadgeView is a catalog badge decorated with the user's earned status.
type BadgeView struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Icon               string      `json:"icon"`
	Color              string      `json:"color"`
	BgColor            string      `json:"bgColor"`
	Rarity             BadgeRarity `json:"rarity"`
	IsEarned           bool        `json:"isEarned"`
	EarnedAt           *time.Time  `json:"earnedAt,omitempty"`
	AchievementContext string      `json:"achievementContext,omitempty"`
}

type BadgeStats struct {
	TotalBadges     int `json:"totalBadges"`
	LegendaryBadges int `json:"legendaryBadges"`
	EpicBadges      int `json:"epicBadges"`
	RareBadges      int `json:"rareBadges"`
	CommonBadges    int `json:"commonBadges"`
}

// MatchView pairs a candidate with their compatibility score.
type MatchView struct {
	User  *User `json:"user"`
	Score int   `json:"score"`
}
