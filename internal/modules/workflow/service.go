// Package workflow orchestrates the interview completion flow: lock, credit
// check, extraction, topic discovery, then one atomic persistence step.
package workflow

import (
	"context"

	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/modules/credits"
	"github.com/careertrail/core/internal/modules/extraction"
	"github.com/careertrail/core/internal/modules/lock"
	"github.com/careertrail/core/internal/modules/topics"
	"github.com/careertrail/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

// Extractor runs the career-fact extraction pipeline.
type Extractor interface {
	Extract(ctx context.Context, userID, interviewID string) (*extraction.Result, error)
}

// TopicDiscoverer runs the topic generation/reranking pipeline.
type TopicDiscoverer interface {
	Discover(ctx context.Context, userID string, facts *extraction.Facts) (*topics.Result, error)
}

// BalanceReader reads the user's credit balance.
type BalanceReader interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
}

// Repository is the transactional persistence surface for one workflow run.
// Inside Transaction the callback receives a Repository bound to the
// database transaction.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	SaveExperience(ctx context.Context, experience *models.ExperienceModel) error
	UpsertTopic(ctx context.Context, topic *models.TopicModel) error
	SetInterviewStatus(ctx context.Context, interviewID, status string) error
	InsertCreditTransaction(ctx context.Context, tx *models.CreditTransactionModel) error
}

// Result is what one completed workflow run produced.
type Result struct {
	Facts  *extraction.Facts   `json:"facts"`
	Topics []models.TopicModel `json:"topics"`
	Tokens map[string]int      `json:"tokens"`
}

type Service struct {
	locker    lock.Locker
	balance   BalanceReader
	extractor Extractor
	topics    TopicDiscoverer
	repo      Repository
	rates     credits.Rates
	logger    *zap.Logger
}

func NewService(
	locker lock.Locker,
	balance BalanceReader,
	extractor Extractor,
	discoverer TopicDiscoverer,
	repo Repository,
	rates credits.Rates,
	logger *zap.Logger,
) *Service {
	return &Service{
		locker:    locker,
		balance:   balance,
		extractor: extractor,
		topics:    discoverer,
		repo:      repo,
		rates:     rates,
		logger:    logger,
	}
}

// Run completes one interview. The per-user lock is held for the whole run
// and released unconditionally, success or failure. All writes, including
// the credit deductions, land in a single database transaction.
func (s *Service) Run(ctx context.Context, userID, interviewID string) (*Result, error) {
	acquired, err := s.locker.TryAcquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, apperr.Wrap(apperr.ErrConflict, "another operation is already running for this user")
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), userID); err != nil {
			s.logger.Error("failed to release workflow lock",
				zap.String("user_id", userID), zap.Error(err))
		}
	}()

	balance, err := s.balance.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance <= 0 {
		return nil, apperr.Wrap(apperr.ErrPaymentRequired, "insufficient credits")
	}

	extracted, err := s.extractor.Extract(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}

	discovered, err := s.topics.Discover(ctx, userID, extracted.Facts)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, userID, interviewID, extracted, discovered); err != nil {
		return nil, err
	}

	s.logger.Info("workflow completed",
		zap.String("user_id", userID),
		zap.String("interview_id", interviewID),
		zap.Int("roles", len(extracted.Facts.Roles)),
		zap.Int("topics", len(discovered.Topics)))

	return &Result{
		Facts:  extracted.Facts,
		Topics: discovered.Topics,
		Tokens: map[string]int{
			"extraction":       extracted.Usage.Total(),
			"topic_generation": discovered.GenerationUsage.Total(),
			"topic_reranking":  discovered.RerankingUsage.Total(),
		},
	}, nil
}

func (s *Service) persist(ctx context.Context, userID, interviewID string, extracted *extraction.Result, discovered *topics.Result) error {
	facts := extracted.Facts

	return s.repo.Transaction(ctx, func(tx Repository) error {
		experience := &models.ExperienceModel{
			UserID:            userID,
			Summary:           facts.Summary,
			BasedOnInterviews: facts.BasedOnInterviews,
			Roles:             facts.Roles,
		}
		if err := tx.SaveExperience(ctx, experience); err != nil {
			return err
		}

		for i := range discovered.Topics {
			if err := tx.UpsertTopic(ctx, &discovered.Topics[i]); err != nil {
				return err
			}
		}

		if err := tx.SetInterviewStatus(ctx, interviewID, models.InterviewStatusCompleted); err != nil {
			return err
		}

		charges := []struct {
			tokens int
			kind   credits.OperationKind
		}{
			{extracted.Usage.Total(), credits.OpExtraction},
			{discovered.GenerationUsage.Total(), credits.OpTopicGeneration},
			{discovered.RerankingUsage.Total(), credits.OpTopicReranking},
		}
		for _, charge := range charges {
			record := credits.NewConsumption(userID, charge.tokens, charge.kind, s.rates)
			if record == nil {
				continue
			}
			if err := tx.InsertCreditTransaction(ctx, record); err != nil {
				return err
			}
		}
		return nil
	})
}
