package workflow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/careertrail/core/internal/config"
	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/modules/ai"
	"github.com/careertrail/core/internal/modules/credits"
	"github.com/careertrail/core/internal/modules/extraction"
	"github.com/careertrail/core/internal/modules/lock"
	"github.com/careertrail/core/internal/modules/topics"
	"github.com/careertrail/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

type mockExtractor struct {
	fn func(ctx context.Context, userID, interviewID string) (*extraction.Result, error)
}

func (m *mockExtractor) Extract(ctx context.Context, userID, interviewID string) (*extraction.Result, error) {
	return m.fn(ctx, userID, interviewID)
}

type mockDiscoverer struct {
	fn func(ctx context.Context, userID string, facts *extraction.Facts) (*topics.Result, error)
}

func (m *mockDiscoverer) Discover(ctx context.Context, userID string, facts *extraction.Facts) (*topics.Result, error) {
	return m.fn(ctx, userID, facts)
}

type mockBalance struct {
	balance int64
}

func (m *mockBalance) GetBalance(context.Context, string) (int64, error) {
	return m.balance, nil
}

// mockRepo records every write; Transaction just runs the callback.
type mockRepo struct {
	mu           sync.Mutex
	experiences  []*models.ExperienceModel
	topics       []*models.TopicModel
	statuses     map[string]string
	transactions []*models.CreditTransactionModel
	txErr        error
}

func newMockRepo() *mockRepo {
	return &mockRepo{statuses: make(map[string]string)}
}

func (m *mockRepo) Transaction(_ context.Context, fn func(tx Repository) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	return fn(m)
}

func (m *mockRepo) SaveExperience(_ context.Context, e *models.ExperienceModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.experiences = append(m.experiences, e)
	return nil
}

func (m *mockRepo) UpsertTopic(_ context.Context, t *models.TopicModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, t)
	return nil
}

func (m *mockRepo) SetInterviewStatus(_ context.Context, interviewID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[interviewID] = status
	return nil
}

func (m *mockRepo) InsertCreditTransaction(_ context.Context, tx *models.CreditTransactionModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, tx)
	return nil
}

func testRates() credits.Rates {
	return credits.NewRates(config.CreditsConfig{
		TranscriptionRate:   1.0,
		ExtractionRate:      1.0,
		TopicGenerationRate: 1.0,
		TopicRerankingRate:  0.1,
	})
}

func happyExtractor() *mockExtractor {
	return &mockExtractor{fn: func(_ context.Context, _, interviewID string) (*extraction.Result, error) {
		return &extraction.Result{
			Facts: &extraction.Facts{
				Summary:           "summary",
				BasedOnInterviews: []string{interviewID},
				Roles:             []models.Role{{ID: "r1", Title: "Engineer"}},
			},
			Usage: ai.Usage{InputTokens: 2000, OutputTokens: 500},
		}, nil
	}}
}

func happyDiscoverer() *mockDiscoverer {
	return &mockDiscoverer{fn: func(_ context.Context, userID string, _ *extraction.Facts) (*topics.Result, error) {
		return &topics.Result{
			Topics: []models.TopicModel{
				{UserID: userID, Title: "New topic", Status: models.TopicStatusAvailable},
				{Base: models.Base{ID: "t1"}, UserID: userID, Title: "Old topic", Status: models.TopicStatusIrrelevant},
			},
			GenerationUsage: ai.Usage{InputTokens: 300, OutputTokens: 100},
		}, nil
	}}
}

func newTestService(locker lock.Locker, balance BalanceReader, ex Extractor, disc TopicDiscoverer, repo Repository) *Service {
	return NewService(locker, balance, ex, disc, repo, testRates(), zap.NewNop())
}

func TestRunPersistsEverythingAtomically(t *testing.T) {
	locker := lock.NewMemoryLocker()
	repo := newMockRepo()
	svc := newTestService(locker, &mockBalance{balance: 100}, happyExtractor(), happyDiscoverer(), repo)

	result, err := svc.Run(context.Background(), "user-1", "int-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.experiences) != 1 {
		t.Fatalf("expected 1 experience write, got %d", len(repo.experiences))
	}
	if repo.experiences[0].Summary != "summary" {
		t.Errorf("unexpected summary %q", repo.experiences[0].Summary)
	}
	if len(repo.topics) != 2 {
		t.Errorf("expected 2 topic upserts, got %d", len(repo.topics))
	}
	if repo.statuses["int-1"] != models.InterviewStatusCompleted {
		t.Errorf("interview should be completed, got %q", repo.statuses["int-1"])
	}

	// Extraction (2500 tokens at 1.0 -> 3) and generation (400 at 1.0 -> 1);
	// no reranking tokens means no third row.
	if len(repo.transactions) != 2 {
		t.Fatalf("expected 2 credit transactions, got %d", len(repo.transactions))
	}
	if repo.transactions[0].SourceType != "extraction" || repo.transactions[0].Amount != -3 {
		t.Errorf("unexpected extraction charge %+v", repo.transactions[0])
	}
	if repo.transactions[1].SourceType != "topic_generation" || repo.transactions[1].Amount != -1 {
		t.Errorf("unexpected generation charge %+v", repo.transactions[1])
	}

	if result.Tokens["extraction"] != 2500 {
		t.Errorf("expected 2500 extraction tokens reported, got %d", result.Tokens["extraction"])
	}

	// The lock must be free again.
	if ok, _ := locker.TryAcquire(context.Background(), "user-1"); !ok {
		t.Error("lock should be released after a successful run")
	}
}

func TestRunRejectsConcurrentRunsForSameUser(t *testing.T) {
	locker := lock.NewMemoryLocker()
	repo := newMockRepo()

	started := make(chan struct{})
	release := make(chan struct{})
	slowExtractor := &mockExtractor{fn: func(context.Context, string, string) (*extraction.Result, error) {
		close(started)
		<-release
		return &extraction.Result{Facts: &extraction.Facts{}}, nil
	}}
	discoverer := &mockDiscoverer{fn: func(context.Context, string, *extraction.Facts) (*topics.Result, error) {
		return &topics.Result{}, nil
	}}
	svc := newTestService(locker, &mockBalance{balance: 100}, slowExtractor, discoverer, repo)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = svc.Run(context.Background(), "user-1", "int-1")
	}()

	<-started
	_, err := svc.Run(context.Background(), "user-1", "int-2")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected ErrConflict for the second run, got %v", err)
	}

	close(release)
	wg.Wait()
	if firstErr != nil {
		t.Errorf("first run should succeed, got %v", firstErr)
	}
}

func TestRunRequiresPositiveBalance(t *testing.T) {
	locker := lock.NewMemoryLocker()
	extractorCalled := atomic.Bool{}
	extractor := &mockExtractor{fn: func(context.Context, string, string) (*extraction.Result, error) {
		extractorCalled.Store(true)
		return nil, errors.New("should not be called")
	}}
	svc := newTestService(locker, &mockBalance{balance: 0}, extractor, happyDiscoverer(), newMockRepo())

	_, err := svc.Run(context.Background(), "user-1", "int-1")
	if !errors.Is(err, apperr.ErrPaymentRequired) {
		t.Errorf("expected ErrPaymentRequired, got %v", err)
	}
	if extractorCalled.Load() {
		t.Error("extraction should not run without credits")
	}
	if ok, _ := locker.TryAcquire(context.Background(), "user-1"); !ok {
		t.Error("lock should be released after a credit rejection")
	}
}

func TestRunReleasesLockOnFailure(t *testing.T) {
	locker := lock.NewMemoryLocker()
	boom := errors.New("pipeline exploded")
	extractor := &mockExtractor{fn: func(context.Context, string, string) (*extraction.Result, error) {
		return nil, boom
	}}
	svc := newTestService(locker, &mockBalance{balance: 100}, extractor, happyDiscoverer(), newMockRepo())

	_, err := svc.Run(context.Background(), "user-1", "int-1")
	if !errors.Is(err, boom) {
		t.Errorf("expected the pipeline error to propagate, got %v", err)
	}
	if ok, _ := locker.TryAcquire(context.Background(), "user-1"); !ok {
		t.Error("lock should be released after a failed run")
	}
}

func TestRunFailsWhenTransactionFails(t *testing.T) {
	locker := lock.NewMemoryLocker()
	repo := newMockRepo()
	repo.txErr = errors.New("deadlock")
	svc := newTestService(locker, &mockBalance{balance: 100}, happyExtractor(), happyDiscoverer(), repo)

	_, err := svc.Run(context.Background(), "user-1", "int-1")
	if !errors.Is(err, repo.txErr) {
		t.Errorf("expected the transaction error to propagate, got %v", err)
	}
	if ok, _ := locker.TryAcquire(context.Background(), "user-1"); !ok {
		t.Error("lock should be released after a persistence failure")
	}
}
