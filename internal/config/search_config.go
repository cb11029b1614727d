package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type SearchConfig struct {
	// ResultLimit caps how many records a single pipeline run pulls from the store.
	ResultLimit int `mapstructure:"result_limit" validate:"gte=1,lte=500"`

	// CacheTTL is how long a computed result set answers repeated requests.
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"gte=1s"`

	// ScoringWorkers bounds the parallel per-job oracle calls.
	ScoringWorkers int `mapstructure:"scoring_workers" validate:"gte=1,lte=32"`

	// JobExpirationDays is the age past which stale postings are purged.
	JobExpirationDays int `mapstructure:"job_expiration_days" validate:"gte=1"`
}

func (config SearchConfig) validate() error {
	return validator.New().Struct(config)
}

func (config SearchConfig) bindEnvironmentVariables() error {
	var bindings = map[string]string{
		"search.result_limit":        "SEARCH_RESULT_LIMIT",
		"search.cache_ttl":           "SEARCH_CACHE_TTL",
		"search.scoring_workers":     "SEARCH_SCORING_WORKERS",
		"search.job_expiration_days": "JOB_EXPIRATION_DAYS",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}

	return nil
}
