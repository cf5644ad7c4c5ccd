package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
)

// Load reads the YAML config file and applies defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.AI.RateLimit.RequestsPerMinute == 0 {
		cfg.AI.RateLimit.RequestsPerMinute = 15
	}
	if cfg.AI.RateLimit.RequestsPerDay == 0 {
		cfg.AI.RateLimit.RequestsPerDay = 1500
	}
	if cfg.AI.RateLimit.MaxWaitSeconds == 0 {
		cfg.AI.RateLimit.MaxWaitSeconds = 5
	}
	if cfg.AI.Retry.MaxAttempts == 0 {
		cfg.AI.Retry.MaxAttempts = 3
	}
	if cfg.AI.Retry.BaseBackoffMillis == 0 {
		cfg.AI.Retry.BaseBackoffMillis = 1000
	}
	if cfg.AI.Retry.BackoffMultiplier == 0 {
		cfg.AI.Retry.BackoffMultiplier = 2
	}
	if cfg.Credits.TranscriptionRate == 0 {
		cfg.Credits.TranscriptionRate = 0.5
	}
	if cfg.Credits.ExtractionRate == 0 {
		cfg.Credits.ExtractionRate = 1.0
	}
	if cfg.Credits.TopicGenerationRate == 0 {
		cfg.Credits.TopicGenerationRate = 1.0
	}
	if cfg.Credits.TopicRerankingRate == 0 {
		cfg.Credits.TopicRerankingRate = 0.5
	}
	if cfg.Workflow.MinAnswerLength == 0 {
		cfg.Workflow.MinAnswerLength = 50
	}
	if cfg.Workflow.KeepTopCount == 0 {
		cfg.Workflow.KeepTopCount = 5
	}
}

// applyEnvOverrides lets deployment environments override secrets
// without editing the config file.
func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("CT_DSN")); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("CT_REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CT_JWT_SECRET")); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("CT_ENV")); v != "" {
		cfg.Env = v
	}
	for i := range cfg.AI.Providers {
		key := fmt.Sprintf("CT_AI_API_KEY_%s", strings.ToUpper(cfg.AI.Providers[i].ID))
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			cfg.AI.Providers[i].APIKey = v
		}
	}
}
