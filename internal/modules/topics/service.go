// Package topics generates and ranks suggested interview subjects from a
// user's career facts.
package topics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/careertrail/core/internal/config"
	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/modules/ai"
	"github.com/careertrail/core/internal/modules/extraction"
	"go.uber.org/zap"
)

const maxCandidates = 5

// Completer is the slice of the AI client this pipeline needs.
type Completer interface {
	GenerateCompletion(ctx context.Context, req ai.Request) (*ai.Completion, error)
}

// Store loads the user's existing topic pool.
type Store interface {
	ListAvailable(ctx context.Context, userID string) ([]models.TopicModel, error)
}

// Result is the topic pool after one discovery run: generated candidates
// and pre-existing topics with their final statuses. Topics marked
// irrelevant that were never persisted are dropped outright.
type Result struct {
	Topics          []models.TopicModel
	GenerationUsage ai.Usage
	RerankingUsage  ai.Usage
}

type Service struct {
	completer    Completer
	store        Store
	logger       *zap.Logger
	keepTopCount int
}

func NewService(completer Completer, store Store, cfg config.WorkflowConfig, logger *zap.Logger) *Service {
	return &Service{
		completer:    completer,
		store:        store,
		logger:       logger,
		keepTopCount: cfg.KeepTopCount,
	}
}

// Discover generates fresh topic candidates from the career facts, combines
// them with the user's available topics, and reranks the pool. Both AI steps
// are best-effort: a generation failure yields no candidates, a reranking
// failure yields the existing topics unranked. Only storage errors fail the
// run.
func (s *Service) Discover(ctx context.Context, userID string, facts *extraction.Facts) (*Result, error) {
	existing, err := s.store.ListAvailable(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	candidates := s.generate(ctx, userID, facts, result)
	combined := append(candidates, existing...)

	if len(combined) <= s.keepTopCount {
		for i := range combined {
			combined[i].Status = models.TopicStatusAvailable
		}
		result.Topics = combined
		return result, nil
	}

	ranking, ok := s.rerank(ctx, facts, combined, result)
	if !ok {
		// Candidates cannot be trusted without a ranking; keep the pool
		// the user already had.
		result.Topics = existing
		return result, nil
	}

	ranked := make([]models.TopicModel, 0, len(combined))
	for _, idx := range ranking {
		ranked = append(ranked, combined[idx])
	}
	for i := range ranked {
		if i < s.keepTopCount {
			ranked[i].Status = models.TopicStatusAvailable
		} else {
			ranked[i].Status = models.TopicStatusIrrelevant
		}
	}

	// An unsaved candidate ranked out of the top is noise, not history.
	kept := ranked[:0]
	for _, t := range ranked {
		if t.Status == models.TopicStatusIrrelevant && t.ID == "" {
			continue
		}
		kept = append(kept, t)
	}
	result.Topics = kept
	return result, nil
}

// generate asks for fresh candidates. Failures are logged and swallowed.
func (s *Service) generate(ctx context.Context, userID string, facts *extraction.Facts, result *Result) []models.TopicModel {
	completion, err := s.completer.GenerateCompletion(ctx, ai.Request{
		Task:         ai.TaskTopicGeneration,
		SystemPrompt: topicGenerationSystem,
		UserPrompt:   topicGenerationPrompt(extraction.RenderFactsMarkdown(facts.Roles)),
		Schema:       topicGenerationSchema(),
	})
	if err != nil {
		s.logger.Warn("topic generation failed, continuing without candidates", zap.Error(err))
		return nil
	}
	result.GenerationUsage = completion.Usage

	var payload topicsPayload
	if err := json.Unmarshal([]byte(completion.Data), &payload); err != nil {
		s.logger.Warn("topic generation returned malformed payload", zap.Error(err))
		return nil
	}

	if len(payload.Topics) > maxCandidates {
		payload.Topics = payload.Topics[:maxCandidates]
	}

	candidates := make([]models.TopicModel, 0, len(payload.Topics))
	for _, t := range payload.Topics {
		questions := make([]models.TopicQuestion, 0, len(t.Questions))
		for i, q := range t.Questions {
			questions = append(questions, models.TopicQuestion{Text: q, Order: i})
		}
		candidates = append(candidates, models.TopicModel{
			UserID:            userID,
			Title:             t.Title,
			MotivationalQuote: t.MotivationalQuote,
			Questions:         questions,
			Status:            models.TopicStatusAvailable,
		})
	}
	return candidates
}

// rerank asks for a full ordering of the combined pool and validates that
// the response is an exact permutation of 0..n-1.
func (s *Service) rerank(ctx context.Context, facts *extraction.Facts, pool []models.TopicModel, result *Result) ([]int, bool) {
	completion, err := s.completer.GenerateCompletion(ctx, ai.Request{
		Task:         ai.TaskTopicReranking,
		SystemPrompt: topicRerankingSystem,
		UserPrompt:   topicRerankingPrompt(extraction.RenderFactsMarkdown(facts.Roles), pool),
		Schema:       topicRerankingSchema(),
	})
	if err != nil {
		s.logger.Warn("topic reranking failed, keeping existing topics", zap.Error(err))
		return nil, false
	}
	result.RerankingUsage = completion.Usage

	var payload rankingPayload
	if err := json.Unmarshal([]byte(completion.Data), &payload); err != nil {
		s.logger.Warn("topic reranking returned malformed payload", zap.Error(err))
		return nil, false
	}
	if err := validatePermutation(payload.Ranking, len(pool)); err != nil {
		s.logger.Warn("topic reranking returned an invalid ordering", zap.Error(err))
		return nil, false
	}
	return payload.Ranking, true
}

// validatePermutation checks that ranking contains each of 0..n-1 exactly once.
func validatePermutation(ranking []int, n int) error {
	if len(ranking) != n {
		return fmt.Errorf("ranking has %d entries, want %d", len(ranking), n)
	}
	seen := make([]bool, n)
	for _, idx := range ranking {
		if idx < 0 || idx >= n {
			return fmt.Errorf("index %d out of range [0,%d)", idx, n)
		}
		if seen[idx] {
			return fmt.Errorf("index %d appears more than once", idx)
		}
		seen[idx] = true
	}
	return nil
}
