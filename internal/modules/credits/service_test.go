package credits

import (
	"context"
	"testing"

	"github.com/careertrail/core/internal/config"
	"github.com/careertrail/core/internal/models"
)

type mockStore struct {
	sumFn    func(ctx context.Context, userID string) (int64, error)
	inserted []*models.CreditTransactionModel
}

func (m *mockStore) SumAmount(ctx context.Context, userID string) (int64, error) {
	if m.sumFn != nil {
		return m.sumFn(ctx, userID)
	}
	var total int64
	for _, tx := range m.inserted {
		total += tx.Amount
	}
	return total, nil
}

func (m *mockStore) Insert(_ context.Context, tx *models.CreditTransactionModel) error {
	m.inserted = append(m.inserted, tx)
	return nil
}

func testRates() Rates {
	return NewRates(config.CreditsConfig{
		TranscriptionRate:   1.0,
		ExtractionRate:      1.0,
		TopicGenerationRate: 1.0,
		TopicRerankingRate:  0.1,
	})
}

func TestCreditsForRoundsUp(t *testing.T) {
	credits, source := CreditsFor(2500, 1.0)
	if credits != 3 {
		t.Errorf("expected 3 credits for 2500 tokens at rate 1.0, got %d", credits)
	}
	if source != 2.5 {
		t.Errorf("expected source amount 2.5, got %v", source)
	}
}

func TestCreditsForMinimumOne(t *testing.T) {
	credits, _ := CreditsFor(1, 0.1)
	if credits != 1 {
		t.Errorf("expected minimum of 1 credit, got %d", credits)
	}
}

func TestConsumeWritesNegativeTransaction(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, testRates())

	tx, _, err := svc.Consume(context.Background(), "user-1", 2500, OpExtraction)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx == nil {
		t.Fatal("expected a transaction to be written")
	}
	if tx.Amount != -3 {
		t.Errorf("expected amount -3, got %d", tx.Amount)
	}
	if tx.SourceType != "extraction" {
		t.Errorf("expected source type extraction, got %q", tx.SourceType)
	}
	if tx.SourceUnit != "tokens" {
		t.Errorf("expected source unit tokens, got %q", tx.SourceUnit)
	}
	if len(store.inserted) != 1 {
		t.Errorf("expected 1 insert, got %d", len(store.inserted))
	}
}

func TestConsumeZeroTokensIsNoOp(t *testing.T) {
	store := &mockStore{
		sumFn: func(ctx context.Context, userID string) (int64, error) { return 42, nil },
	}
	svc := NewService(store, testRates())

	tx, balance, err := svc.Consume(context.Background(), "user-1", 0, OpTopicReranking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx != nil {
		t.Error("expected no transaction for zero tokens")
	}
	if balance != 42 {
		t.Errorf("expected balance 42, got %d", balance)
	}
	if len(store.inserted) != 0 {
		t.Errorf("expected no inserts, got %d", len(store.inserted))
	}
}

func TestConsumeReturnsRemainingBalance(t *testing.T) {
	store := &mockStore{}
	store.inserted = append(store.inserted, &models.CreditTransactionModel{Amount: 100})
	svc := NewService(store, testRates())

	_, balance, err := svc.Consume(context.Background(), "user-1", 1000, OpTopicGeneration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 99 {
		t.Errorf("expected balance 99 after consuming 1 credit from 100, got %d", balance)
	}
}

func TestRatesForUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown operation kind")
		}
	}()
	testRates().For(OperationKind("bogus"))
}
