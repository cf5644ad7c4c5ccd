package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/careertrail/core/internal/config"
	"github.com/careertrail/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

// Client wraps a generative-AI backend with quota admission, exponential
// backoff retries, and a health flag. One instance is shared by all
// pipelines; it is safe for concurrent use.
type Client struct {
	backend     Backend
	tracker     *requestTracker
	logger      *zap.Logger
	maxAttempts int
	baseBackoff time.Duration
	multiplier  float64
	maxWait     time.Duration
	healthy     atomic.Bool

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewClient builds a client and probes backend connectivity once. A failed
// probe is logged but does not prevent construction.
func NewClient(backend Backend, cfg config.AIConfig, logger *zap.Logger) *Client {
	c := &Client{
		backend:     backend,
		tracker:     newRequestTracker(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.RequestsPerDay, nil),
		logger:      logger,
		maxAttempts: cfg.Retry.MaxAttempts,
		baseBackoff: time.Duration(cfg.Retry.BaseBackoffMillis) * time.Millisecond,
		multiplier:  cfg.Retry.BackoffMultiplier,
		maxWait:     time.Duration(cfg.RateLimit.MaxWaitSeconds) * time.Second,
		sleep:       time.Sleep,
	}
	c.healthy.Store(true)

	c.probe()
	return c
}

// Healthy reports the client's health flag. Once false it stays false
// until the process restarts.
func (c *Client) Healthy() bool { return c.healthy.Load() }

// GenerateCompletion issues one completion request, waiting inline for
// quota headroom (bounded) and retrying transient backend failures with
// exponential backoff. Structured requests are validated against their
// schema before returning.
func (c *Client) GenerateCompletion(ctx context.Context, req Request) (*Completion, error) {
	if !c.healthy.Load() {
		return nil, apperr.Wrap(apperr.ErrServiceUnavailable, "ai client is unhealthy")
	}

	backoff := c.baseBackoff
	for attempt := 1; ; attempt++ {
		if err := c.waitForAdmission(ctx); err != nil {
			return nil, err
		}

		data, usage, err := c.backend.Generate(ctx, req)
		if err == nil {
			if req.Schema != nil {
				cleaned, verr := validateStructured(data, req.Schema)
				if verr != nil {
					// A refusal or malformed payload is not transient:
					// surface it without consuming a retry.
					return nil, apperr.WrapErr(apperr.ErrValidationFailed, verr)
				}
				data = cleaned
			}
			return &Completion{Data: data, Usage: usage}, nil
		}

		if isTerminal(err) {
			return nil, err
		}

		if attempt >= c.maxAttempts {
			c.healthy.Store(false)
			c.logger.Error("ai backend failed after max retries, marking client unhealthy",
				zap.String("task", string(req.Task)),
				zap.Int("attempts", attempt),
				zap.Error(err))
			return nil, apperr.WrapErr(apperr.ErrServiceUnavailable, err)
		}

		c.logger.Warn("ai backend call failed, backing off",
			zap.String("task", string(req.Task)),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		c.sleep(backoff)
		backoff = time.Duration(float64(backoff) * c.multiplier)
	}
}

// waitForAdmission blocks until the quotas admit a request, sleeping inline
// only when the computed wait fits within maxWait.
func (c *Client) waitForAdmission(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, wait := c.tracker.admit()
		if ok {
			c.tracker.record()
			return nil
		}
		if wait > c.maxWait {
			return apperr.Wrap(apperr.ErrRateLimitExceeded,
				"quota exhausted, next slot in %s", wait.Round(time.Millisecond))
		}
		c.sleep(wait)
	}
}

// probe issues a minimal request to verify connectivity. It bypasses the
// quota tracker so startup does not eat into the request budget.
func (c *Client) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, _, err := c.backend.Generate(ctx, Request{
		Task:       TaskSummary,
		UserPrompt: "Reply with the single word: ok",
	})
	if err != nil {
		c.logger.Warn("ai connectivity probe failed", zap.Error(err))
		return
	}
	c.logger.Info("ai backend reachable")
}

// isTerminal reports whether a backend error must not be retried.
func isTerminal(err error) bool {
	return errors.Is(err, apperr.ErrBadRequest) ||
		errors.Is(err, apperr.ErrValidationFailed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// validateStructured cleans a model response and checks it against the
// expected schema's required top-level fields. Returns the cleaned JSON.
func validateStructured(raw string, schema *Schema) (string, error) {
	cleaned, err := extractJSON(raw)
	if err != nil {
		return "", err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return "", fmt.Errorf("response is not a JSON object: %w", err)
	}
	for _, field := range schema.Required {
		if _, ok := payload[field]; !ok {
			return "", fmt.Errorf("response is missing required field %q", field)
		}
	}
	return cleaned, nil
}

// extractJSON strips markdown fences and conversational filler around a
// JSON object or array.
func extractJSON(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		candidate := cleaned[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	return "", errors.New("invalid JSON response from AI")
}
