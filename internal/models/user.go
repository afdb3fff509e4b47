package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SkillLevel represents proficiency levels
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelAdvanced     SkillLevel = "advanced"
	SkillLevelExpert       SkillLevel = "expert"
)

// Skill is an offered skill with its proficiency level.
type Skill struct {
	Name  string     `json:"name" bson:"name"`
	Level SkillLevel `json:"level,omitempty" bson:"level,omitempty"`
}

// ProfileStats holds the per-user counters used for matching and badge
// evaluation.
type ProfileStats struct {
	TotalRatings   int     `json:"totalRatings" bson:"totalRatings"`
	AverageRating  float64 `json:"averageRating" bson:"averageRating"`
	TotalSwaps     int     `json:"totalSwaps" bson:"totalSwaps"`
	CompletedSwaps int     `json:"completedSwaps" bson:"completedSwaps"`
	ProfileViews   int     `json:"profileViews" bson:"profileViews"`
}

type User struct {
	ID            bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        string        `json:"userId" bson:"userId"`
	Name          string        `json:"name" bson:"name"`
	Username      string        `json:"username" bson:"username"`
	Location      string        `json:"location,omitempty" bson:"location,omitempty"`
	Tagline       string        `json:"tagline,omitempty" bson:"tagline,omitempty"`
	IsPublic      bool          `json:"isPublic" bson:"isPublic"`
	Active        bool          `json:"active" bson:"active"`
	OfferedSkills []Skill       `json:"offeredSkills" bson:"offeredSkills"`
	WantedSkills  []string      `json:"wantedSkills" bson:"wantedSkills"`
	Stats         ProfileStats  `json:"stats" bson:"stats"`
	Metadata      Metadata      `json:"metadata" bson:"metadata"`
}

type Metadata struct {
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// OffersSkill reports whether the user lists name among their offered
// skills, matched case-insensitively.
func (u *User) OffersSkill(name string) bool {
	for _, s := range u.OfferedSkills {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}
