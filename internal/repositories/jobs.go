package repositories

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/careerloop/jobfeed/internal/domain/models"
	"github.com/careerloop/jobfeed/internal/entities"
	"github.com/careerloop/jobfeed/internal/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrRetrievalFailed means the store stayed unreachable after the bounded
// retry policy; callers surface it instead of an empty result.
var ErrRetrievalFailed = errors.New("job store unavailable")

const (
	queryTimeout = 30 * time.Second
	maxRetries   = 2
)

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// Search executes the query, most recently updated first, applies the limit
// and deduplicates by canonical identifier. The same posting can be ingested
// from several platforms under different identifier fields; the
// first-encountered record wins.
func (j *Jobs) Search(ctx context.Context, query JobQuery, limit int) ([]models.Job, error) {

	var records []entities.Job
	err := j.withRetry(ctx, "search", func(ctx context.Context) error {
		records = records[:0]
		tx := query.apply(j.db.WithContext(ctx)).
			Order("updated_at DESC, created_at DESC")
		if limit > 0 {
			tx = tx.Limit(limit)
		}
		return tx.Find(&records).Error
	})
	if err != nil {
		return nil, err
	}

	return dedupeByCanonicalID(records), nil
}

// GetByAnyID accepts any of the three identifier forms as a match target.
// A missing record is not an error: the result is nil, nil.
func (j *Jobs) GetByAnyID(ctx context.Context, id string) (*models.Job, error) {

	var record entities.Job
	var found bool

	err := j.withRetry(ctx, "get", func(ctx context.Context) error {
		found = false
		err := j.db.WithContext(ctx).
			Where("job_id = ? OR external_id = ? OR CAST(id AS TEXT) = ?", id, id, id).
			First(&record).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err == nil {
			found = true
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	job := toModel(&record)
	return &job, nil
}

func (j *Jobs) Add(ctx context.Context, job *entities.Job) error {
	return j.db.WithContext(ctx).Create(job).Error
}

func (j *Jobs) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := j.db.WithContext(ctx).Model(&entities.Job{}).Count(&count).Error
	return count, err
}

func (j *Jobs) RemoveStale(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := j.db.WithContext(ctx).Delete(&entities.Job{}, "updated_at < ?", expirationTime)
	return res.RowsAffected, res.Error
}

func (j *Jobs) withRetry(ctx context.Context, operation string, fn func(ctx context.Context) error) error {

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Warnf("%s failed, retrying in %v: %v", operation, backoff, err)
			time.Sleep(backoff)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, queryTimeout)
		err = fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
	}

	return errors.Wrapf(ErrRetrievalFailed, "%s: %v", operation, err)
}

func dedupeByCanonicalID(records []entities.Job) []models.Job {
	seen := make(map[string]struct{}, len(records))
	jobs := make([]models.Job, 0, len(records))

	for i := range records {
		id := records[i].CanonicalID()
		if _, duplicate := seen[id]; duplicate {
			continue
		}
		seen[id] = struct{}{}
		jobs = append(jobs, toModel(&records[i]))
	}

	return jobs
}

func toModel(record *entities.Job) models.Job {
	return models.Job{
		ID:               record.CanonicalID(),
		Title:            record.Title,
		Company:          record.Company,
		Locations:        record.LocationsAsArray(),
		Description:      record.Description,
		Salary:           record.Salary,
		EmploymentType:   record.EmploymentType,
		WorkMode:         record.WorkMode,
		MustHaveSkills:   record.MustHaveSkillsAsArray(),
		NiceToHaveSkills: record.NiceToHaveSkillsAsArray(),
		KeyRequirements:  record.KeyRequirementsAsArray(),
		Highlights:       record.Highlights,
		WorkRights: models.WorkRights{
			Country:              record.RightsCountry,
			RequiredStatus:       record.RightsStatus,
			SponsorshipAvailable: record.SponsorshipAvailable,
			CitizenshipRequired:  record.CitizenshipRequired,
		},
		Platform:  record.Platform,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
