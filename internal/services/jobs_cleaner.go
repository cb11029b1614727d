package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type staleJobsRepository interface {
	RemoveStale(ctx context.Context, expirationTime time.Time) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}

// JobsCleaner purges postings the ingesters stopped refreshing. Runs daily.
type JobsCleaner struct {
	jobs                 staleJobsRepository
	cron                 *cron.Cron
	expirationTimeInDays int
}

func NewJobsCleaner(jobs staleJobsRepository, expirationInDays int) (*JobsCleaner, error) {

	if expirationInDays <= 0 {
		return nil, errors.New("expiration in days must be greater than zero")
	}

	jc := &JobsCleaner{
		jobs:                 jobs,
		cron:                 cron.New(),
		expirationTimeInDays: expirationInDays,
	}

	_, err := jc.cron.AddFunc("0 0 * * *", jc.cleanStaleJobs)
	if err != nil {
		return nil, err
	}

	jc.cron.Start()
	log.Infof("jobs cleaner started, expiration in days: %d", jc.expirationTimeInDays)
	return jc, nil
}

func (jc *JobsCleaner) Stop() {
	jc.cron.Stop()
}

func (jc *JobsCleaner) cleanStaleJobs() {
	expirationTime := time.Now().Add(-time.Duration(jc.expirationTimeInDays) * 24 * time.Hour)
	rowsAffected, err := jc.jobs.RemoveStale(context.Background(), expirationTime)
	if err != nil {
		log.Errorf("Failed to clean stale jobs: %v", err)
		return
	}

	remaining, err := jc.jobs.CountAll(context.Background())
	if err != nil {
		log.Infof("Stale jobs cleaned at %v, affected rows: %v", time.Now(), rowsAffected)
		return
	}
	log.Infof("Stale jobs cleaned at %v, affected rows: %v, remaining: %v", time.Now(), rowsAffected, remaining)
}
