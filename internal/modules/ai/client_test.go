package ai

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/careertrail/core/internal/config"
	"github.com/careertrail/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

type mockBackend struct {
	fn    func(ctx context.Context, req Request) (string, Usage, error)
	calls atomic.Int32
}

func (m *mockBackend) Generate(ctx context.Context, req Request) (string, Usage, error) {
	m.calls.Add(1)
	return m.fn(ctx, req)
}

func testAIConfig() config.AIConfig {
	return config.AIConfig{
		RateLimit: config.RateLimit{
			RequestsPerMinute: 100,
			RequestsPerDay:    1000,
			MaxWaitSeconds:    5,
		},
		Retry: config.RetryConfig{
			MaxAttempts:       3,
			BaseBackoffMillis: 1000,
			BackoffMultiplier: 2.0,
		},
	}
}

// newTestClient builds a client with sleeps recorded instead of slept and
// the probe call discounted from the backend call counter.
func newTestClient(backend *mockBackend, cfg config.AIConfig) (*Client, *[]time.Duration) {
	c := NewClient(backend, cfg, zap.NewNop())
	backend.calls.Store(0)

	var sleeps []time.Duration
	c.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return c, &sleeps
}

func TestGenerateCompletionRetriesWithExponentialBackoff(t *testing.T) {
	var attempt atomic.Int32
	backend := &mockBackend{fn: func(context.Context, Request) (string, Usage, error) {
		if attempt.Add(1) <= 2 {
			return "", Usage{}, errors.New("transient")
		}
		return "done", Usage{InputTokens: 10, OutputTokens: 5}, nil
	}}
	c, sleeps := newTestClient(backend, testAIConfig())
	attempt.Store(0)

	completion, err := c.GenerateCompletion(context.Background(), Request{Task: TaskSummary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.Data != "done" {
		t.Errorf("unexpected data %q", completion.Data)
	}
	if got := backend.calls.Load(); got != 3 {
		t.Errorf("expected 3 backend calls, got %d", got)
	}
	if len(*sleeps) != 2 || (*sleeps)[0] != time.Second || (*sleeps)[1] != 2*time.Second {
		t.Errorf("expected backoffs [1s 2s], got %v", *sleeps)
	}
	if !c.Healthy() {
		t.Error("client should stay healthy after a successful retry")
	}
}

func TestGenerateCompletionMarksUnhealthyAfterMaxAttempts(t *testing.T) {
	backend := &mockBackend{fn: func(context.Context, Request) (string, Usage, error) {
		return "", Usage{}, errors.New("backend down")
	}}
	c, _ := newTestClient(backend, testAIConfig())

	_, err := c.GenerateCompletion(context.Background(), Request{Task: TaskSummary})
	if !errors.Is(err, apperr.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
	if got := backend.calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if c.Healthy() {
		t.Error("client should be unhealthy after exhausting retries")
	}

	// Unhealthy clients reject immediately, without touching the backend.
	_, err = c.GenerateCompletion(context.Background(), Request{Task: TaskSummary})
	if !errors.Is(err, apperr.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
	if got := backend.calls.Load(); got != 3 {
		t.Errorf("unhealthy client should not call the backend, got %d calls", got)
	}
}

func TestGenerateCompletionDoesNotRetryTerminalErrors(t *testing.T) {
	backend := &mockBackend{fn: func(context.Context, Request) (string, Usage, error) {
		return "", Usage{}, apperr.Wrap(apperr.ErrBadRequest, "model rejected the payload")
	}}
	c, sleeps := newTestClient(backend, testAIConfig())

	_, err := c.GenerateCompletion(context.Background(), Request{Task: TaskSummary})
	if !errors.Is(err, apperr.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
	if got := backend.calls.Load(); got != 1 {
		t.Errorf("terminal errors must not be retried, got %d calls", got)
	}
	if len(*sleeps) != 0 {
		t.Errorf("no backoff expected, got %v", *sleeps)
	}
	if !c.Healthy() {
		t.Error("a terminal error must not flip the health flag")
	}
}

func TestGenerateCompletionValidatesStructuredResponses(t *testing.T) {
	backend := &mockBackend{fn: func(context.Context, Request) (string, Usage, error) {
		return "I cannot help with that.", Usage{}, nil
	}}
	c, _ := newTestClient(backend, testAIConfig())

	schema := &Schema{
		Type:       "object",
		Properties: map[string]SchemaProperty{"roles": {Type: "array"}},
		Required:   []string{"roles"},
	}
	_, err := c.GenerateCompletion(context.Background(), Request{Task: TaskRoleExtraction, Schema: schema})
	if !errors.Is(err, apperr.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
	if got := backend.calls.Load(); got != 1 {
		t.Errorf("a validation failure must not consume retries, got %d calls", got)
	}
	if !c.Healthy() {
		t.Error("a validation failure must not flip the health flag")
	}
}

func TestGenerateCompletionStripsMarkdownFences(t *testing.T) {
	backend := &mockBackend{fn: func(context.Context, Request) (string, Usage, error) {
		return "```json\n{\"summary\": \"fine\"}\n```", Usage{}, nil
	}}
	c, _ := newTestClient(backend, testAIConfig())

	schema := &Schema{
		Type:       "object",
		Properties: map[string]SchemaProperty{"summary": {Type: "string"}},
		Required:   []string{"summary"},
	}
	completion, err := c.GenerateCompletion(context.Background(), Request{Task: TaskSummary, Schema: schema})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.Data != `{"summary": "fine"}` {
		t.Errorf("unexpected cleaned payload %q", completion.Data)
	}
}

func TestGenerateCompletionRejectsLongQuotaWaits(t *testing.T) {
	backend := &mockBackend{fn: func(context.Context, Request) (string, Usage, error) {
		return "ok", Usage{}, nil
	}}
	cfg := testAIConfig()
	cfg.RateLimit.RequestsPerMinute = 1
	c, sleeps := newTestClient(backend, cfg)

	if _, err := c.GenerateCompletion(context.Background(), Request{Task: TaskSummary}); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}

	// The minute window is now full; the next slot is ~60s away, far past
	// the 5s inline wait budget.
	_, err := c.GenerateCompletion(context.Background(), Request{Task: TaskSummary})
	if !errors.Is(err, apperr.ErrRateLimitExceeded) {
		t.Errorf("expected ErrRateLimitExceeded, got %v", err)
	}
	if got := backend.calls.Load(); got != 1 {
		t.Errorf("rejected request must not reach the backend, got %d calls", got)
	}
	if len(*sleeps) != 0 {
		t.Errorf("no inline wait expected for a 60s gap, got %v", *sleeps)
	}
}

func TestExtractJSONFromConversationalFiller(t *testing.T) {
	raw := "Sure, here is the data you asked for:\n{\"roles\": []}\nLet me know if you need anything else."
	cleaned, err := extractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleaned != `{"roles": []}` {
		t.Errorf("unexpected cleaned payload %q", cleaned)
	}
}
