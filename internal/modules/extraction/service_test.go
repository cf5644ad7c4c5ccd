package extraction

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/careertrail/core/internal/config"
	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/modules/ai"
	"github.com/careertrail/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

type mockCompleter struct {
	fn    func(ctx context.Context, req ai.Request) (*ai.Completion, error)
	calls atomic.Int32
}

func (m *mockCompleter) GenerateCompletion(ctx context.Context, req ai.Request) (*ai.Completion, error) {
	m.calls.Add(1)
	return m.fn(ctx, req)
}

type mockStore struct {
	interview  *models.InterviewModel
	experience *models.ExperienceModel
}

func (m *mockStore) Interview(context.Context, string, string) (*models.InterviewModel, error) {
	return m.interview, nil
}

func (m *mockStore) Experience(context.Context, string) (*models.ExperienceModel, error) {
	return m.experience, nil
}

func longAnswer(prefix string) string {
	return prefix + ": " + strings.Repeat("we shipped a lot of infrastructure work ", 3)
}

func testService(completer Completer, store Store) *Service {
	return NewService(completer, store, config.WorkflowConfig{MinAnswerLength: 50}, zap.NewNop())
}

func TestExtractRejectsInterviewWithoutQualifyingAnswers(t *testing.T) {
	store := &mockStore{interview: &models.InterviewModel{
		Answers: []models.AnswerModel{
			{Question: "q1", Answer: "short"},
			{Question: "q2", Answer: "also short"},
		},
	}}
	completer := &mockCompleter{fn: func(context.Context, ai.Request) (*ai.Completion, error) {
		t.Fatal("no AI call should be made")
		return nil, nil
	}}

	_, err := testService(completer, store).Extract(context.Background(), "user-1", "int-1")
	if !errors.Is(err, apperr.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
}

func TestExtractRunsFullPipeline(t *testing.T) {
	store := &mockStore{
		interview: &models.InterviewModel{
			Answers: []models.AnswerModel{{Question: "q1", Answer: longAnswer("a1")}},
		},
		experience: &models.ExperienceModel{
			BasedOnInterviews: models.StringArray{"int-0"},
			Roles: []models.Role{{
				ID: "r1", Title: "Engineer", Company: "Acme", StartYear: "2019",
			}},
		},
	}

	completer := &mockCompleter{fn: func(_ context.Context, req ai.Request) (*ai.Completion, error) {
		switch req.Task {
		case ai.TaskRoleExtraction:
			return &ai.Completion{
				Data:  `{"roles":[{"id":"r1","title":"Engineer","company":"unknown","start_year":"2019","end_year":"2023","skills":["Go"]}]}`,
				Usage: ai.Usage{InputTokens: 100, OutputTokens: 50},
			}, nil
		case ai.TaskProjectExtraction:
			return &ai.Completion{
				Data:  `{"projects":[{"name":"Payments","goal":"rebuild billing","achievements":["cut latency"]}]}`,
				Usage: ai.Usage{InputTokens: 80, OutputTokens: 40},
			}, nil
		case ai.TaskSummary:
			return &ai.Completion{
				Data:  `{"summary":"An engineer with payments experience."}`,
				Usage: ai.Usage{InputTokens: 60, OutputTokens: 20},
			}, nil
		default:
			return nil, errors.New("unexpected task " + string(req.Task))
		}
	}}

	result, err := testService(completer, store).Extract(context.Background(), "user-1", "int-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	facts := result.Facts
	if len(facts.Roles) != 1 {
		t.Fatalf("expected 1 role, got %d", len(facts.Roles))
	}
	role := facts.Roles[0]
	if role.Company != "Acme" {
		t.Errorf("sentinel should not overwrite company, got %q", role.Company)
	}
	if role.EndYear != "2023" {
		t.Errorf("expected end year 2023, got %q", role.EndYear)
	}
	if len(role.Projects) != 1 || role.Projects[0].Name != "Payments" {
		t.Errorf("expected Payments project, got %v", role.Projects)
	}
	if role.Projects[0].ID == "" {
		t.Error("new project should receive a generated id")
	}
	if facts.Summary != "An engineer with payments experience." {
		t.Errorf("unexpected summary %q", facts.Summary)
	}

	wantBasedOn := []string{"int-0", "int-1"}
	if len(facts.BasedOnInterviews) != 2 || facts.BasedOnInterviews[1] != "int-1" {
		t.Errorf("expected based-on %v, got %v", wantBasedOn, facts.BasedOnInterviews)
	}

	if got := result.Usage.Total(); got != 350 {
		t.Errorf("expected 350 total tokens, got %d", got)
	}
	if got := completer.calls.Load(); got != 3 {
		t.Errorf("expected 3 AI calls, got %d", got)
	}
}

func TestExtractAbortsWhenProjectCallFails(t *testing.T) {
	store := &mockStore{
		interview: &models.InterviewModel{
			Answers: []models.AnswerModel{{Question: "q1", Answer: longAnswer("a1")}},
		},
	}

	boom := errors.New("backend down")
	completer := &mockCompleter{fn: func(_ context.Context, req ai.Request) (*ai.Completion, error) {
		switch req.Task {
		case ai.TaskRoleExtraction:
			return &ai.Completion{
				Data: `{"roles":[{"title":"Engineer"},{"title":"Lead"}]}`,
			}, nil
		case ai.TaskProjectExtraction:
			return nil, boom
		default:
			return nil, errors.New("summary should not run after a project failure")
		}
	}}

	_, err := testService(completer, store).Extract(context.Background(), "user-1", "int-1")
	if !errors.Is(err, boom) {
		t.Errorf("expected the project failure to propagate, got %v", err)
	}
}
