package services

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/careerloop/jobfeed/internal/domain/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrOracleFailed means every model in the chain failed or returned an
// unparseable response. Callers substitute a documented neutral score; the
// failure is never silent.
var ErrOracleFailed = errors.New("all scoring models failed")

type oracleClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

// MatchScorer asks an LLM for the four sub-scores, then recomputes the
// composite deterministically. Models are tried in order; each gets the
// identical prompt.
type MatchScorer struct {
	oracles []oracleClient
}

func NewMatchScorer(oracles ...oracleClient) *MatchScorer {
	return &MatchScorer{oracles: oracles}
}

type oracleScores struct {
	ExperienceScore int    `json:"experienceScore"`
	SkillsScore     int    `json:"skillsScore"`
	IndustryScore   int    `json:"industryScore"`
	OtherScore      int    `json:"otherScore"`
	MatchScore      int    `json:"matchScore"`
	MatchSummary    string `json:"matchSummary"`
}

var oracleScoreKeys = []string{
	"experienceScore", "skillsScore", "industryScore", "otherScore", "matchScore", "matchSummary",
}

func (s *MatchScorer) Score(ctx context.Context, job models.Job, profile models.UserProfile) (models.MatchResult, error) {

	request := s.scoringRequest(job, profile)

	var lastErr error
	for i, oracle := range s.oracles {
		response, err := oracle.GenerateResponse(ctx, request)
		if err != nil {
			lastErr = err
			log.Warnf("scoring model %d failed for job %v: %v", i, job.ID, err)
			continue
		}

		scores, err := parseOracleScores(response)
		if err != nil {
			lastErr = err
			log.Warnf("scoring model %d returned malformed response for job %v: %v", i, job.ID, err)
			continue
		}

		return buildMatchResult(scores, job.WorkRights, profile), nil
	}

	return models.MatchResult{}, errors.Wrapf(ErrOracleFailed, "job %v: %v", job.ID, lastErr)
}

// buildMatchResult applies the work-rights penalty to the "other" sub-score
// before folding everything into the weighted composite. The model's own
// matchScore is discarded in favor of the recompute.
func buildMatchResult(scores oracleScores, rights models.WorkRights, profile models.UserProfile) models.MatchResult {

	experience := models.ClampScore(scores.ExperienceScore)
	skills := models.ClampScore(scores.SkillsScore)
	industry := models.ClampScore(scores.IndustryScore)
	other := models.ClampScore(scores.OtherScore)

	if penalty := workRightsPenalty(rights, profile); penalty > 0 {
		other = int(math.Round(float64(other) * (1 - penalty)))
		if other < models.MinScore {
			other = models.MinScore
		}
	}

	return models.MatchResult{
		ExperienceScore: experience,
		SkillsScore:     skills,
		IndustryScore:   industry,
		OtherScore:      other,
		Score:           models.CompositeScore(experience, skills, industry, other),
		Summary:         scores.MatchSummary,
	}
}

const workRightsPenaltyRate = 0.10

// workRightsPenalty returns 0 or the fixed 10% penalty. No declared
// requirement, or no declaration from the user for that jurisdiction, means
// no penalty: absence of information is never punished.
func workRightsPenalty(rights models.WorkRights, profile models.UserProfile) float64 {

	if rights.Empty() {
		return 0
	}

	declaration := strings.ToLower(profile.RightsDeclaration(rights.Country))
	if declaration == "" {
		return 0
	}

	if rights.CitizenshipRequired && !strings.Contains(declaration, "citizen") {
		return workRightsPenaltyRate
	}

	if rights.RequiredStatus != "" && !satisfiesStatus(declaration, rights.RequiredStatus) {
		return workRightsPenaltyRate
	}

	return 0
}

// satisfiesStatus is loose on purpose: "permanent" anywhere in the
// declaration counts as a PR claim, and broad "full work rights" style
// declarations satisfy any named status. Tightening this would silently
// change live scores.
func satisfiesStatus(declaration, status string) bool {

	status = strings.ToLower(status)
	if strings.Contains(declaration, status) {
		return true
	}

	fullRightsSynonyms := []string{"full work rights", "unrestricted", "any occupation", "citizen"}
	for _, synonym := range fullRightsSynonyms {
		if strings.Contains(declaration, synonym) {
			return true
		}
	}

	if strings.Contains(status, "permanent") && strings.Contains(declaration, "permanent") {
		return true
	}

	return false
}

func (s *MatchScorer) scoringRequest(job models.Job, profile models.UserProfile) string {

	var sb strings.Builder

	sb.WriteString("You rate how well a job posting matches a candidate profile.\n\n")
	sb.WriteString("Job title: " + job.Title + "\n")
	if len(job.Locations) > 0 {
		sb.WriteString("Location: " + strings.Join(job.Locations, "; ") + "\n")
	}
	if job.WorkMode != "" {
		sb.WriteString("Work mode: " + job.WorkMode + "\n")
	}
	if job.EmploymentType != "" {
		sb.WriteString("Employment type: " + job.EmploymentType + "\n")
	}
	if job.Salary != "" {
		sb.WriteString("Salary: " + job.Salary + "\n")
	}
	sb.WriteString("Description: " + job.Description + "\n")
	if len(job.MustHaveSkills) > 0 {
		sb.WriteString("Must-have skills: " + strings.Join(job.MustHaveSkills, ", ") + "\n")
	}
	if len(job.NiceToHaveSkills) > 0 {
		sb.WriteString("Nice-to-have skills: " + strings.Join(job.NiceToHaveSkills, ", ") + "\n")
	}
	if len(job.KeyRequirements) > 0 {
		sb.WriteString("Key requirements: " + strings.Join(job.KeyRequirements, "; ") + "\n")
	}

	sb.WriteString("\nCandidate profile:\n")
	if len(profile.Skills) > 0 {
		sb.WriteString("Skills: " + strings.Join(profile.Skills, ", ") + "\n")
	}
	if profile.City != "" {
		sb.WriteString("City: " + profile.City + "\n")
	}
	if profile.Seniority != "" {
		sb.WriteString("Seniority: " + profile.Seniority + "\n")
	}
	if profile.CurrentPosition != "" {
		sb.WriteString("Current position: " + profile.CurrentPosition + "\n")
	}
	if profile.ExpectedPosition != "" {
		sb.WriteString("Expected position: " + profile.ExpectedPosition + "\n")
	}
	if len(profile.CareerPriorities) > 0 {
		sb.WriteString("Career priorities: " + strings.Join(profile.CareerPriorities, ", ") + "\n")
	}
	if profile.OpenToRelocation {
		sb.WriteString("Open to relocation: yes\n")
	}

	sb.WriteString("\nRespond with JSON only, no markdown, exactly these keys: " +
		`{"experienceScore": int, "skillsScore": int, "industryScore": int, "otherScore": int, ` +
		`"matchScore": int, "matchSummary": "one sentence, at most 25 words"}. ` +
		"All scores are integers between 50 and 95.")

	return sb.String()
}

func parseOracleScores(response string) (oracleScores, error) {

	payload := extractJSON(response)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return oracleScores{}, err
	}

	for _, key := range oracleScoreKeys {
		if _, ok := raw[key]; !ok {
			return oracleScores{}, errors.Errorf("missing key %q", key)
		}
	}

	var scores oracleScores
	if err := json.Unmarshal([]byte(payload), &scores); err != nil {
		return oracleScores{}, err
	}

	return scores, nil
}

// extractJSON strips markdown fences and any prose around the outermost
// object; models occasionally wrap the payload despite instructions.
func extractJSON(response string) string {

	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		return response[start : end+1]
	}

	return strings.TrimSpace(response)
}
