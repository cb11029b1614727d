package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/careerloop/jobfeed/internal/domain/models"
	"github.com/careerloop/jobfeed/internal/logger"
	"github.com/careerloop/jobfeed/internal/repositories"
	"github.com/careerloop/jobfeed/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const defaultPageSize = 20

type hotJobsRunner interface {
	Run(ctx context.Context, profile models.UserProfile) (*services.HotJobsResult, error)
}

type jobGetter interface {
	GetByAnyID(ctx context.Context, id string) (*models.Job, error)
}

type jobScorer interface {
	Score(ctx context.Context, job models.Job, profile models.UserProfile) (models.MatchResult, error)
}

type JobsHandler struct {
	cache    *services.RequestCache
	pipeline hotJobsRunner
	jobs     jobGetter
	scorer   jobScorer
}

func NewJobsHandler(cache *services.RequestCache, pipeline hotJobsRunner,
	jobs jobGetter, scorer jobScorer) *JobsHandler {
	return &JobsHandler{cache: cache, pipeline: pipeline, jobs: jobs, scorer: scorer}
}

// ListJobs serves GET /api/jobs. Blank title and city degrade to the broadest
// safe query instead of rejecting the request. The platform filter applies
// after the cache so it never fragments cache keys.
func (h *JobsHandler) ListJobs(c *gin.Context) {

	title := c.Query("title")
	city := c.Query("city")
	platform := c.Query("platform")
	page := positiveIntQuery(c, "page", 1)
	limit := positiveIntQuery(c, "limit", defaultPageSize)

	profile := models.UserProfile{ExpectedPosition: title, City: city}

	result, fromCache, err := h.cache.GetOrCompute(title, city, func() (*services.HotJobsResult, error) {
		return h.pipeline.Run(c.Request.Context(), profile)
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrRetrievalFailed) {
			status = http.StatusServiceUnavailable
		}
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHttpApi).
			Errorf("jobs listing failed: %v", err)
		c.JSON(status, gin.H{"error": "failed to retrieve jobs"})
		return
	}

	jobs := result.Jobs
	if platform != "" {
		jobs = lo.Filter(jobs, func(job services.RankedJob, _ int) bool {
			return strings.EqualFold(job.Platform, platform)
		})
	}

	total := len(jobs)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	source := "live"
	if fromCache {
		source = "cache"
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":       jobs[start:end],
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
		"source":     source,
	})
}

// GetJob serves GET /api/jobs/:id. Any of the record's identifier forms
// matches. With a parseable profile query parameter the job is enriched with
// a match analysis; enrichment failure degrades to the bare job.
func (h *JobsHandler) GetJob(c *gin.Context) {

	id := c.Param("id")

	job, err := h.jobs.GetByAnyID(c.Request.Context(), id)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeHttpApi).
			Errorf("job lookup failed for %v: %v", id, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to retrieve job"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	response := gin.H{"job": job}

	if raw := c.Query("profile"); raw != "" {
		var profile models.UserProfile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			log.Warnf("ignoring malformed profile parameter: %v", err)
		} else if match, err := h.scorer.Score(c.Request.Context(), *job, profile); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
				Errorf("enrichment failed for job %v: %v", id, err)
		} else {
			response["match"] = match
		}
	}

	c.JSON(http.StatusOK, response)
}

func positiveIntQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
