package credits

import (
	"context"
	"fmt"
	"math"

	"github.com/careertrail/core/internal/config"
	"github.com/careertrail/core/internal/models"
)

// OperationKind identifies a billable AI operation.
type OperationKind string

const (
	OpTranscription   OperationKind = "transcription"
	OpExtraction      OperationKind = "extraction"
	OpTopicGeneration OperationKind = "topic_generation"
	OpTopicReranking  OperationKind = "topic_reranking"
)

const tokensPerUnit = 1000

// Rates holds the credit cost per 1000 tokens for each operation kind.
type Rates struct {
	byKind map[OperationKind]float64
}

// NewRates builds the rate table from configuration.
func NewRates(cfg config.CreditsConfig) Rates {
	return Rates{byKind: map[OperationKind]float64{
		OpTranscription:   cfg.TranscriptionRate,
		OpExtraction:      cfg.ExtractionRate,
		OpTopicGeneration: cfg.TopicGenerationRate,
		OpTopicReranking:  cfg.TopicRerankingRate,
	}}
}

// For returns the rate for a kind. An unknown kind is a programming error.
func (r Rates) For(kind OperationKind) float64 {
	rate, ok := r.byKind[kind]
	if !ok {
		panic(fmt.Sprintf("credits: unknown operation kind %q", kind))
	}
	return rate
}

// CreditsFor computes the deduction for a token count at a given rate.
// Every billable call costs at least 1 credit.
func CreditsFor(tokens int, rate float64) (credits int64, sourceAmount float64) {
	sourceAmount = float64(tokens) / tokensPerUnit
	credits = int64(math.Ceil(sourceAmount * rate))
	if credits < 1 {
		credits = 1
	}
	return credits, sourceAmount
}

// NewConsumption builds the negative ledger entry for one operation.
// Returns nil when tokens == 0: a zero-token call writes no transaction.
func NewConsumption(userID string, tokens int, kind OperationKind, rates Rates) *models.CreditTransactionModel {
	if tokens == 0 {
		return nil
	}
	credits, sourceAmount := CreditsFor(tokens, rates.For(kind))
	return &models.CreditTransactionModel{
		UserID:       userID,
		Amount:       -credits,
		SourceAmount: sourceAmount,
		SourceType:   string(kind),
		SourceUnit:   "tokens",
	}
}

// Store is the ledger persistence contract. Appends only; no updates.
type Store interface {
	SumAmount(ctx context.Context, userID string) (int64, error)
	Insert(ctx context.Context, tx *models.CreditTransactionModel) error
}

// Service is the credits ledger. The balance is always recomputed from the
// transaction log; appends are monotonic so no row locking is needed.
type Service struct {
	store Store
	rates Rates
}

func NewService(store Store, rates Rates) *Service {
	return &Service{store: store, rates: rates}
}

// GetBalance sums all transactions for a user.
func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	return s.store.SumAmount(ctx, userID)
}

// Rates exposes the configured rate table.
func (s *Service) Rates() Rates { return s.rates }

// Consume appends one negative transaction for the operation and returns it
// together with the remaining balance. The insert and the balance read are
// two independent, sequential steps. tokens == 0 is a no-op.
func (s *Service) Consume(ctx context.Context, userID string, tokens int, kind OperationKind) (*models.CreditTransactionModel, int64, error) {
	tx := NewConsumption(userID, tokens, kind, s.rates)
	if tx == nil {
		balance, err := s.store.SumAmount(ctx, userID)
		return nil, balance, err
	}

	if err := s.store.Insert(ctx, tx); err != nil {
		return nil, 0, err
	}
	balance, err := s.store.SumAmount(ctx, userID)
	if err != nil {
		return tx, 0, err
	}
	return tx, balance, nil
}
