package tests

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/careerloop/jobfeed/internal/domain/models"
	"github.com/careerloop/jobfeed/internal/entities"
	"github.com/careerloop/jobfeed/internal/events"
	"github.com/careerloop/jobfeed/internal/repositories"
	"github.com/careerloop/jobfeed/internal/services"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

var planResponse = `{"primaryTitles": ["Full Stack Developer"], "secondaryTitles": ["Web Developer"],
	"summarySentences": ["Developer roles adjacent to the target."],
	"reasoning": "Adjacent developer titles fit.", "searchStrategy": {}, "confidence": 80}`

func clearDb() {
	dbCtx.DB.Exec("DELETE from jobs WHERE TRUE")
}

func seedJobs(t *testing.T, jobs []entities.Job) *repositories.Jobs {
	repo := repositories.NewJobsRepository(dbCtx.DB)
	for i := range jobs {
		assert.NoError(t, repo.Add(context.Background(), &jobs[i]))
	}
	return repo
}

func Test_Pipeline_RanksRetrievedJobsEndToEnd(t *testing.T) {

	defer clearDb()

	now := time.Now()
	repo := seedJobs(t, []entities.Job{
		{JobID: "seek-1", Title: "Senior Software Engineer", Locations: "Sydney",
			Platform: "seek", CreatedAt: now, UpdatedAt: now},
		{JobID: "seek-2", Title: "Full Stack Developer", Locations: "Sydney",
			Platform: "seek", CreatedAt: now, UpdatedAt: now},
		{JobID: "seek-3", Title: "Web Developer", Locations: "Penrith",
			Platform: "seek", CreatedAt: now, UpdatedAt: now},
		// same posting as seek-1, ingested later from another platform
		{ExternalID: "seek-1", Title: "Senior Software Engineer", Locations: "Sydney",
			Platform: "linkedin", CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour)},
		// retired posting, must never surface
		{JobID: "seek-4", Title: "Software Engineer", Locations: "Sydney",
			Platform: "seek", IsActive: lo.ToPtr(false), CreatedAt: now, UpdatedAt: now},
		// unrelated title, outside every keyword
		{JobID: "seek-5", Title: "Marine Biologist", Locations: "Sydney",
			Platform: "seek", CreatedAt: now, UpdatedAt: now},
	})

	oracle := &mockOracle{
		planResponse: planResponse,
		scoresByTitle: map[string]int{
			"Senior Software Engineer": 90,
			"Full Stack Developer":     80,
			"Web Developer":            80,
		},
	}

	ranked := 0
	bus := EventBus.New()
	assert.NoError(t, bus.Subscribe(events.JobsRankedTopic, func(event events.JobsRanked) {
		ranked = event.Count
	}))

	service := services.NewHotJobsService(bus,
		services.NewTitlePlanner(oracle), services.NewMatchScorer(oracle), repo, 60, 2)

	result, err := service.Run(context.Background(),
		models.UserProfile{ExpectedPosition: "Software Engineer", City: "Sydney"})
	assert.NoError(t, err)
	assert.Len(t, result.Jobs, 3)
	assert.Equal(t, "Adjacent developer titles fit.", result.Rationale)

	// all-90 sub-scores fold to round(0.95*90) = 86; the literal title match
	// takes no tier deduction
	assert.Equal(t, "seek-1", result.Jobs[0].ID)
	assert.Equal(t, "seek", result.Jobs[0].Platform)
	assert.Equal(t, 86, result.Jobs[0].FinalScore)

	// all-80 folds to 76, primary tier takes 3
	assert.Equal(t, "seek-2", result.Jobs[1].ID)
	assert.Equal(t, 73, result.Jobs[1].FinalScore)

	// all-80 folds to 76, secondary tier takes 5, Penrith weighs 0.85
	assert.Equal(t, "seek-3", result.Jobs[2].ID)
	assert.Equal(t, 60, result.Jobs[2].FinalScore)

	assert.Eventually(t, func() bool { return ranked == 3 }, time.Second, 10*time.Millisecond)
}

func Test_Pipeline_WhenEveryModelIsDown_StillRanksWithNeutralScores(t *testing.T) {

	defer clearDb()

	now := time.Now()
	repo := seedJobs(t, []entities.Job{
		{JobID: "seek-1", Title: "Senior Software Engineer", Locations: "Sydney",
			Platform: "seek", CreatedAt: now, UpdatedAt: now},
		{JobID: "seek-2", Title: "Full Stack Developer", Locations: "Sydney",
			Platform: "seek", CreatedAt: now, UpdatedAt: now},
	})

	oracle := &mockOracle{err: errors.New("model unavailable")}

	service := services.NewHotJobsService(EventBus.New(),
		services.NewTitlePlanner(oracle), services.NewMatchScorer(oracle), repo, 60, 2)

	result, err := service.Run(context.Background(),
		models.UserProfile{ExpectedPosition: "Software Engineer", City: "Sydney"})
	assert.NoError(t, err)
	assert.Len(t, result.Jobs, 2)

	// the static plan answers, and every job carries the neutral all-70
	// analysis: round(0.95*70) = 67 before tier adjustments
	assert.Equal(t, "seek-1", result.Jobs[0].ID)
	assert.Equal(t, 67, result.Jobs[0].FinalScore)
	assert.Equal(t, "seek-2", result.Jobs[1].ID)
	assert.Equal(t, 64, result.Jobs[1].FinalScore)
	assert.Equal(t, "Match analysis unavailable for this job.", result.Jobs[0].Match.Summary)
}

func Test_Pipeline_ThroughRequestCache_ComputesOnce(t *testing.T) {

	defer clearDb()

	now := time.Now()
	repo := seedJobs(t, []entities.Job{
		{JobID: "seek-1", Title: "Software Engineer", Locations: "Sydney",
			Platform: "seek", CreatedAt: now, UpdatedAt: now},
	})

	oracle := &mockOracle{planResponse: planResponse}
	service := services.NewHotJobsService(EventBus.New(),
		services.NewTitlePlanner(oracle), services.NewMatchScorer(oracle), repo, 60, 2)
	cache := services.NewRequestCache(time.Minute)

	run := func() (*services.HotJobsResult, bool, error) {
		return cache.GetOrCompute("Software Engineer", "Sydney", func() (*services.HotJobsResult, error) {
			return service.Run(context.Background(),
				models.UserProfile{ExpectedPosition: "Software Engineer", City: "Sydney"})
		})
	}

	first, fromCache, err := run()
	assert.NoError(t, err)
	assert.False(t, fromCache)

	// a record added after the first run stays invisible until the entry expires
	seedJobs(t, []entities.Job{
		{JobID: "seek-2", Title: "Software Engineer", Locations: "Sydney",
			Platform: "seek", CreatedAt: now, UpdatedAt: now},
	})

	second, fromCache, err := run()
	assert.NoError(t, err)
	assert.True(t, fromCache)
	assert.Same(t, first, second)
	assert.Len(t, second.Jobs, 1)
}
