package ai

import "context"

// TaskKind labels what a completion request is for. It is carried through
// to billing and logging.
type TaskKind string

const (
	TaskTranscription     TaskKind = "transcription"
	TaskRoleExtraction    TaskKind = "role_extraction"
	TaskProjectExtraction TaskKind = "project_extraction"
	TaskSummary           TaskKind = "summary"
	TaskTopicGeneration   TaskKind = "topic_generation"
	TaskTopicReranking    TaskKind = "topic_reranking"
)

// Usage is the token consumption reported by the backend for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add returns the elementwise sum of two usages.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}

// Total returns input + output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// Media is an optional binary attachment (e.g. audio for transcription).
type Media struct {
	MIMEType string
	Data     []byte
}

// SchemaProperty describes one field of an expected JSON response.
type SchemaProperty struct {
	Type        string                    `json:"type"`
	Description string                    `json:"description,omitempty"`
	Items       *SchemaProperty           `json:"items,omitempty"`
	Properties  map[string]SchemaProperty `json:"properties,omitempty"`
}

// Schema is the expected shape of a structured completion. When set, the
// client validates the response payload before returning it.
type Schema struct {
	Name       string                    `json:"-"`
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// Request is one completion request against the generative backend.
type Request struct {
	Task         TaskKind
	SystemPrompt string
	UserPrompt   string
	Media        *Media
	Schema       *Schema
}

// Completion is the successful result of a completion request. For
// structured requests Data holds the cleaned JSON payload.
type Completion struct {
	Data  string
	Usage Usage
}

// Backend is the raw generative-AI transport. The Client wraps it with
// rate limiting, retries and health tracking.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, Usage, error)
}
