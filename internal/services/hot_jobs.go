package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/careerloop/jobfeed/internal/domain/models"
	"github.com/careerloop/jobfeed/internal/events"
	"github.com/careerloop/jobfeed/internal/locations"
	"github.com/careerloop/jobfeed/internal/logger"
	"github.com/careerloop/jobfeed/internal/metrics"
	"github.com/careerloop/jobfeed/internal/repositories"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	primaryTierDeduction   = 3
	secondaryTierDeduction = 5
)

type titlePlanner interface {
	Plan(ctx context.Context, profile models.UserProfile) models.SearchPlan
}

type matchScorer interface {
	Score(ctx context.Context, job models.Job, profile models.UserProfile) (models.MatchResult, error)
}

type jobRetriever interface {
	Search(ctx context.Context, query repositories.JobQuery, limit int) ([]models.Job, error)
}

// RankedJob is a posting with its match analysis and the final score after
// tier and location adjustments.
type RankedJob struct {
	models.Job
	Match      models.MatchResult `json:"match"`
	FinalScore int                `json:"finalScore"`
}

type HotJobsResult struct {
	Jobs      []RankedJob `json:"jobs"`
	Rationale string      `json:"rationale"`
}

// HotJobsService composes the pipeline: plan adjacent titles, expand the
// city, retrieve, score each job, adjust and rank.
type HotJobsService struct {
	bus            EventBus.Bus
	planner        titlePlanner
	scorer         matchScorer
	jobs           jobRetriever
	resultLimit    int
	scoringWorkers int
}

func NewHotJobsService(bus EventBus.Bus, planner titlePlanner, scorer matchScorer,
	jobs jobRetriever, resultLimit, scoringWorkers int) *HotJobsService {

	if scoringWorkers <= 0 {
		scoringWorkers = 4
	}

	return &HotJobsService{
		bus:            bus,
		planner:        planner,
		scorer:         scorer,
		jobs:           jobs,
		resultLimit:    resultLimit,
		scoringWorkers: scoringWorkers,
	}
}

func (s *HotJobsService) Run(ctx context.Context, profile models.UserProfile) (*HotJobsResult, error) {

	started := time.Now()

	stepStart := time.Now()
	plan := s.planner.Plan(ctx, profile)
	metrics.PipelineStepDuration.WithLabelValues("planning").Observe(time.Since(stepStart).Seconds())

	keywords := searchKeywords(profile.ExpectedPosition, plan)
	query := repositories.NewJobQuery(keywords, profile.City)

	stepStart = time.Now()
	jobs, err := s.jobs.Search(ctx, query, s.resultLimit)
	metrics.PipelineStepDuration.WithLabelValues("retrieval").Observe(time.Since(stepStart).Seconds())
	if err != nil {
		return nil, err
	}

	stepStart = time.Now()
	ranked := s.scoreAll(ctx, jobs, profile)
	metrics.PipelineStepDuration.WithLabelValues("scoring").Observe(time.Since(stepStart).Seconds())

	applyTierAdjustments(ranked, profile.ExpectedPosition, plan)
	applyLocationWeights(ranked, profile.City)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	metrics.RankedJobsCounter.Add(float64(len(ranked)))
	s.bus.Publish(events.JobsRankedTopic, events.JobsRanked{
		Title:    profile.ExpectedPosition,
		City:     profile.City,
		Count:    len(ranked),
		Duration: time.Since(started),
	})

	return &HotJobsResult{Jobs: ranked, Rationale: plan.Reasoning}, nil
}

// scoreAll fans per-job scoring out over a bounded worker group. Results land
// by index, so the subsequent stable sort is deterministic regardless of
// completion order. A job whose scoring fails gets the neutral default and
// stays in the list; partial results beat no results.
func (s *HotJobsService) scoreAll(ctx context.Context, jobs []models.Job, profile models.UserProfile) []RankedJob {

	ranked := make([]RankedJob, len(jobs))

	group := errgroup.Group{}
	group.SetLimit(s.scoringWorkers)

	for i, job := range jobs {
		i, job := i, job
		group.Go(func() error {
			match, err := s.scorer.Score(ctx, job, profile)
			if err != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
					Errorf("scoring failed for job %v, using neutral score: %v", job.ID, err)
				metrics.OracleFallbacksCounter.Inc()
				match = neutralMatch()
			}
			ranked[i] = RankedJob{Job: job, Match: match, FinalScore: match.Score}
			return nil
		})
	}

	_ = group.Wait()
	return ranked
}

// neutralMatch is the documented substitute when every scoring model fails:
// all-70 sub-scores folded through the usual formula, so the composite stays
// recomputable.
func neutralMatch() models.MatchResult {
	return models.MatchResult{
		ExperienceScore: 70,
		SkillsScore:     70,
		IndustryScore:   70,
		OtherScore:      70,
		Score:           models.CompositeScore(70, 70, 70, 70),
		Summary:         "Match analysis unavailable for this job.",
	}
}

// searchKeywords forms the keyword set: the user's literal title first, then
// primary, then secondary titles, deduplicated case-insensitively.
func searchKeywords(literalTitle string, plan models.SearchPlan) []string {

	keywords := make([]string, 0, 1+len(plan.PrimaryTitles)+len(plan.SecondaryTitles))
	if strings.TrimSpace(literalTitle) != "" {
		keywords = append(keywords, strings.TrimSpace(literalTitle))
	}
	keywords = append(keywords, plan.PrimaryTitles...)
	keywords = append(keywords, plan.SecondaryTitles...)

	return lo.UniqBy(keywords, strings.ToLower)
}

// applyTierAdjustments is the coarse prior over title adjacency: jobs
// matching the literal title are untouched, primary-only matches lose 3
// points, secondary-only matches lose 5, floored at the score minimum.
func applyTierAdjustments(ranked []RankedJob, literalTitle string, plan models.SearchPlan) {
	for i := range ranked {
		deduction := tierDeduction(ranked[i].Title, literalTitle, plan)
		if deduction == 0 {
			continue
		}
		score := ranked[i].FinalScore - deduction
		if score < models.MinScore {
			score = models.MinScore
		}
		ranked[i].FinalScore = score
	}
}

func tierDeduction(jobTitle, literalTitle string, plan models.SearchPlan) int {

	title := strings.ToLower(jobTitle)

	literal := strings.ToLower(strings.TrimSpace(literalTitle))
	if literal != "" && strings.Contains(title, literal) {
		return 0
	}
	if titleMatchesAny(title, plan.PrimaryTitles) {
		return primaryTierDeduction
	}
	if titleMatchesAny(title, plan.SecondaryTitles) {
		return secondaryTierDeduction
	}

	return 0
}

func titleMatchesAny(title string, candidates []string) bool {
	return lo.ContainsBy(candidates, func(candidate string) bool {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		return candidate != "" && strings.Contains(title, candidate)
	})
}

// applyLocationWeights multiplies in the fringe penalty. This lives here and
// not in the scorer because fringe membership depends on which city was
// searched, not on the job alone.
func applyLocationWeights(ranked []RankedJob, city string) {
	if strings.TrimSpace(city) == "" {
		return
	}
	for i := range ranked {
		weight := locations.Weight(city, ranked[i].Locations)
		if weight != 1.0 {
			ranked[i].FinalScore = int(math.Round(float64(ranked[i].FinalScore) * weight))
		}
	}
}
