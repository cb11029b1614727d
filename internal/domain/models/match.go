package models

import "math"

// Scores stay inside this band; the oracle is prompted for it and the caller
// clamps anyway.
const (
	MinScore = 50
	MaxScore = 95
)

// MatchResult holds the per-(job, profile) sub-scores and the composite.
// Score is always recomputable from the four sub-scores via CompositeScore.
type MatchResult struct {
	ExperienceScore int    `json:"experienceScore"`
	SkillsScore     int    `json:"skillsScore"`
	IndustryScore   int    `json:"industryScore"`
	OtherScore      int    `json:"otherScore"`
	Score           int    `json:"score"`
	Summary         string `json:"summary"`
}

// CompositeScore folds the four sub-scores into the weighted composite:
// round(0.3*experience + 0.3*skills + 0.2*industry + 0.15*other), clamped.
func CompositeScore(experience, skills, industry, other int) int {
	composite := math.Round(0.3*float64(experience) + 0.3*float64(skills) +
		0.2*float64(industry) + 0.15*float64(other))
	return ClampScore(int(composite))
}

func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
