package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	DSN            string         `yaml:"dsn"` // MySQL DSN
	RedisURL       string         `yaml:"redis_url"`
	Env            string         `yaml:"env"` // "development" | "production"
	AllowedOrigins []string       `yaml:"allowed_origins"`
	JWTSecret      string         `yaml:"jwt_secret"`
	AI             AIConfig       `yaml:"ai"`
	Credits        CreditsConfig  `yaml:"credits"`
	Workflow       WorkflowConfig `yaml:"workflow"`
}

// AIConfig configures providers and the client-side request governor.
type AIConfig struct {
	Providers []AIProvider  `yaml:"providers"`
	RateLimit RateLimit     `yaml:"rate_limit"`
	Retry     RetryConfig   `yaml:"retry"`
	Assign    *AIAssignment `yaml:"assign,omitempty"`
}

// AIProvider describes one generative-AI backend account.
type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// AIAssignment pins a provider/model pair instead of first-enabled selection.
type AIAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

// RateLimit bounds outbound AI requests per client instance.
type RateLimit struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	RequestsPerDay    int `yaml:"requests_per_day"`
	MaxWaitSeconds    int `yaml:"max_wait_seconds"`
}

// RetryConfig governs the AI client's backoff loop.
type RetryConfig struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	BaseBackoffMillis int     `yaml:"base_backoff_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
}

// CreditsConfig holds per-operation billing rates (credits per 1000 tokens).
type CreditsConfig struct {
	TranscriptionRate   float64 `yaml:"transcription_rate"`
	ExtractionRate      float64 `yaml:"extraction_rate"`
	TopicGenerationRate float64 `yaml:"topic_generation_rate"`
	TopicRerankingRate  float64 `yaml:"topic_reranking_rate"`
}

// WorkflowConfig tunes the extraction/topic workflow.
type WorkflowConfig struct {
	MinAnswerLength int `yaml:"min_answer_length"`
	KeepTopCount    int `yaml:"keep_top_count"`
	LockTTLSeconds  int `yaml:"lock_ttl_seconds"` // 0 = no TTL (Redis locker only)
}
