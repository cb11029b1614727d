package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/careerloop/jobfeed/internal/domain/models"
	"github.com/careerloop/jobfeed/internal/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// TitlePlanner asks an LLM for adjacent job titles to widen a search with.
// It never fails a request: models are tried in order and a static fallback
// table answers when all of them are down.
type TitlePlanner struct {
	oracles []oracleClient
}

func NewTitlePlanner(oracles ...oracleClient) *TitlePlanner {
	return &TitlePlanner{oracles: oracles}
}

func (p *TitlePlanner) Plan(ctx context.Context, profile models.UserProfile) models.SearchPlan {

	request := p.planningRequest(profile)

	for i, oracle := range p.oracles {
		response, err := oracle.GenerateResponse(ctx, request)
		if err != nil {
			log.Warnf("planner model %d failed: %v", i, err)
			continue
		}

		plan, err := parseSearchPlan(response)
		if err != nil {
			log.Warnf("planner model %d returned malformed response: %v", i, err)
			continue
		}

		return plan
	}

	log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
		Errorf("all planner models failed for title %q, using static plan", profile.ExpectedPosition)
	return fallbackPlan(profile.ExpectedPosition)
}

func (p *TitlePlanner) planningRequest(profile models.UserProfile) string {

	var sb strings.Builder

	sb.WriteString("You plan a job search. Suggest adjacent job titles for this candidate.\n\n")
	sb.WriteString("Target title: " + profile.ExpectedPosition + "\n")
	if profile.City != "" {
		sb.WriteString("City: " + profile.City + "\n")
	}
	if len(profile.Skills) > 0 {
		sb.WriteString("Skills: " + strings.Join(profile.Skills, ", ") + "\n")
	}
	if profile.Experience != "" {
		sb.WriteString("Experience: " + profile.Experience + "\n")
	}
	if profile.Education != "" {
		sb.WriteString("Education: " + profile.Education + "\n")
	}
	if len(profile.CareerPriorities) > 0 {
		sb.WriteString("Career priorities: " + strings.Join(profile.CareerPriorities, ", ") + "\n")
	}
	if profile.Seniority != "" {
		sb.WriteString("Seniority: " + profile.Seniority + "\n")
	}
	if profile.OpenToRelocation {
		sb.WriteString("Open to relocation: yes\n")
	}

	sb.WriteString("\nRespond with JSON only, no markdown: " +
		`{"primaryTitles": [3-4 closely adjacent titles], "secondaryTitles": [5-8 broader titles], ` +
		`"summarySentences": [short sentences], "reasoning": "one short paragraph", ` +
		`"searchStrategy": {}, "confidence": int 0-100}`)

	return sb.String()
}

// parseSearchPlan is lenient: individually missing or invalid fields get
// defaults, only a total parse failure is an error.
func parseSearchPlan(response string) (models.SearchPlan, error) {

	var plan models.SearchPlan
	if err := json.Unmarshal([]byte(extractJSON(response)), &plan); err != nil {
		// a mistyped field aborts decoding of that field only; the rest of
		// the plan is still populated and usable
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return models.SearchPlan{}, err
		}
	}

	if plan.PrimaryTitles == nil {
		plan.PrimaryTitles = []string{}
	}
	if plan.SecondaryTitles == nil {
		plan.SecondaryTitles = []string{}
	}
	if plan.SummarySentences == nil {
		plan.SummarySentences = []string{}
	}
	if plan.Reasoning == "" {
		plan.Reasoning = "Adjacent titles suggested for the target position."
	}
	if plan.SearchStrategy == nil {
		plan.SearchStrategy = map[string]any{}
	}

	return plan, nil
}

var fallbackPlans = map[string]models.SearchPlan{
	"software engineer": {
		PrimaryTitles:   []string{"Full Stack Developer", "Backend Developer", "Software Developer"},
		SecondaryTitles: []string{"Web Developer", "Application Developer", "DevOps Engineer", "Platform Engineer", "Systems Engineer"},
	},
	"frontend developer": {
		PrimaryTitles:   []string{"Front End Engineer", "UI Developer", "Web Developer"},
		SecondaryTitles: []string{"Full Stack Developer", "JavaScript Developer", "React Developer", "Software Engineer", "UI Engineer"},
	},
	"data analyst": {
		PrimaryTitles:   []string{"Business Analyst", "Data Scientist", "Analytics Engineer"},
		SecondaryTitles: []string{"BI Developer", "Reporting Analyst", "Insights Analyst", "Data Engineer", "Business Intelligence Analyst"},
	},
	"data scientist": {
		PrimaryTitles:   []string{"Machine Learning Engineer", "Data Analyst", "AI Engineer"},
		SecondaryTitles: []string{"Analytics Engineer", "Research Scientist", "Data Engineer", "ML Ops Engineer", "Quantitative Analyst"},
	},
	"product manager": {
		PrimaryTitles:   []string{"Product Owner", "Program Manager", "Project Manager"},
		SecondaryTitles: []string{"Delivery Manager", "Business Analyst", "Scrum Master", "Product Analyst", "Operations Manager"},
	},
	"devops engineer": {
		PrimaryTitles:   []string{"Site Reliability Engineer", "Platform Engineer", "Cloud Engineer"},
		SecondaryTitles: []string{"Infrastructure Engineer", "Systems Engineer", "Build Engineer", "Software Engineer", "Security Engineer"},
	},
}

// fallbackPlan answers when the planner is entirely unavailable. Unknown
// titles degrade to an exact-title search.
func fallbackPlan(title string) models.SearchPlan {

	plan, ok := fallbackPlans[strings.ToLower(strings.TrimSpace(title))]
	if !ok {
		return models.SearchPlan{
			PrimaryTitles:    []string{},
			SecondaryTitles:  []string{},
			SummarySentences: []string{},
			Reasoning:        "Planner unavailable; searching by the exact target title.",
			SearchStrategy:   map[string]any{},
		}
	}

	plan.SummarySentences = []string{}
	plan.Reasoning = "Planner unavailable; using the static title table for " + title + "."
	plan.SearchStrategy = map[string]any{}
	return plan
}
