// Package matching computes compatibility scores between users for the
// discovery and potential-match features. Scoring is a pure function of the
// two users' skill lists, location and the candidate's stats.
package matching

import (
	"sort"
	"strings"

	"swap-service/internal/models"
)

const (
	skillCap    = 50
	locationCap = 20
	ratingCap   = 20
	activityCap = 10
	maxScore    = 100
)

// Breakdown exposes the per-component points that add up to a score.
type Breakdown struct {
	Skill    int `json:"skill"`
	Location int `json:"location"`
	Rating   int `json:"rating"`
	Activity int `json:"activity"`
	Total    int `json:"total"`
}

// Score returns a 0-100 compatibility score for candidate from the point of
// view of current.
func Score(current, candidate *models.User) int {
	return ScoreBreakdown(current, candidate).Total
}

// ScoreBreakdown computes each component, clamps it to its cap, and clamps
// the sum to 100.
func ScoreBreakdown(current, candidate *models.User) Breakdown {
	b := Breakdown{
		Skill:    skillPoints(current, candidate),
		Location: locationPoints(current, candidate),
		Rating:   ratingPoints(candidate),
		Activity: activityPoints(candidate),
	}
	b.Total = b.Skill + b.Location + b.Rating + b.Activity
	if b.Total > maxScore {
		b.Total = maxScore
	}
	return b
}

func skillPoints(current, candidate *models.User) int {
	points := 0

	// Every offered skill the current user wants counts, weighted by the
	// candidate's proficiency.
	for _, wanted := range current.WantedSkills {
		for _, offered := range candidate.OfferedSkills {
			if !strings.EqualFold(offered.Name, wanted) {
				continue
			}
			switch offered.Level {
			case models.SkillLevelExpert:
				points += 20
			case models.SkillLevelIntermediate:
				points += 15
			default:
				points += 10
			}
		}
	}

	// The reverse direction only needs existence: the candidate wants
	// something the current user offers.
	for _, wanted := range candidate.WantedSkills {
		if current.OffersSkill(wanted) {
			points += 10
		}
	}

	if points > skillCap {
		points = skillCap
	}
	return points
}

func locationPoints(current, candidate *models.User) int {
	if current.Location == "" || candidate.Location == "" {
		return 0
	}
	if strings.EqualFold(current.Location, candidate.Location) {
		return locationCap
	}
	return 0
}

func ratingPoints(candidate *models.User) int {
	avg := candidate.Stats.AverageRating
	if avg <= 0 {
		return 0
	}
	points := int(avg * 4)
	if points > ratingCap {
		points = ratingCap
	}
	return points
}

func activityPoints(candidate *models.User) int {
	swaps := candidate.Stats.TotalSwaps
	if swaps > activityCap {
		return activityCap
	}
	if swaps < 0 {
		return 0
	}
	return swaps
}

// Rank scores every candidate against current and returns them ordered by
// score descending. Equal scores keep their input order.
func Rank(current *models.User, candidates []*models.User) []models.MatchView {
	matches := make([]models.MatchView, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID == current.UserID {
			continue
		}
		matches = append(matches, models.MatchView{User: c, Score: Score(current, c)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
