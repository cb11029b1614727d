package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type AIConfig struct {
	APIKey               string  `mapstructure:"api_key"`
	PrimaryModel         string  `mapstructure:"primary_model"`
	FallbackModel        string  `mapstructure:"fallback_model"`
	MaxRequestsPerMinute float32 `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32 `mapstructure:"max_requests_per_day"`
}

func (config AIConfig) validate() error {

	var missingFields []string

	if config.APIKey == "" {
		missingFields = append(missingFields, "api_key")
	}

	if config.PrimaryModel == "" {
		missingFields = append(missingFields, "primary_model")
	}

	if config.FallbackModel == "" {
		missingFields = append(missingFields, "fallback_model")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config AIConfig) bindEnvironmentVariables() error {
	var bindings = map[string]string{
		"ai.api_key":                 "AI_KEY",
		"ai.primary_model":           "AI_PRIMARY_MODEL",
		"ai.fallback_model":          "AI_FALLBACK_MODEL",
		"ai.max_requests_per_minute": "AI_MAX_REQUESTS_PER_MINUTE",
		"ai.max_requests_per_day":    "AI_MAX_REQUESTS_PER_DAY",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}

	return nil
}
