package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/careertrail/core/internal/config"
	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/modules/ai"
	"github.com/careertrail/core/internal/pkg/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Completer is the slice of the AI client the pipeline needs.
type Completer interface {
	GenerateCompletion(ctx context.Context, req ai.Request) (*ai.Completion, error)
}

type Service struct {
	completer       Completer
	store           Store
	logger          *zap.Logger
	minAnswerLength int
}

func NewService(completer Completer, store Store, cfg config.WorkflowConfig, logger *zap.Logger) *Service {
	return &Service{
		completer:       completer,
		store:           store,
		logger:          logger,
		minAnswerLength: cfg.MinAnswerLength,
	}
}

// Extract runs the full pipeline for one interview: filter answers, extract
// roles against prior knowledge, extract projects per role concurrently,
// merge, then summarize. Any AI failure aborts the run.
func (s *Service) Extract(ctx context.Context, userID, interviewID string) (*Result, error) {
	interview, err := s.store.Interview(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}

	qualifying := FilterAnswers(interview.Answers, s.minAnswerLength)
	if len(qualifying) == 0 {
		return nil, apperr.Wrap(apperr.ErrBadRequest,
			"interview %s has no answers of at least %d characters", interviewID, s.minAnswerLength)
	}
	transcript := BuildTranscript(qualifying)

	prior, err := s.store.Experience(ctx, userID)
	if err != nil {
		return nil, err
	}
	var priorRoles []models.Role
	var basedOn []string
	if prior != nil {
		priorRoles = prior.Roles
		basedOn = prior.BasedOnInterviews
	}

	var usage ai.Usage

	roles, roleUsage, err := s.extractRoles(ctx, transcript, priorRoles)
	if err != nil {
		return nil, err
	}
	usage = usage.Add(roleUsage)

	projectUsage, err := s.extractProjects(ctx, transcript, roles, priorRoles)
	if err != nil {
		return nil, err
	}
	usage = usage.Add(projectUsage)

	merged := MergeRoles(priorRoles, roles)

	summary, summaryUsage, err := s.summarize(ctx, merged)
	if err != nil {
		return nil, err
	}
	usage = usage.Add(summaryUsage)

	s.logger.Info("extraction pipeline finished",
		zap.String("interview_id", interviewID),
		zap.Int("roles", len(merged)),
		zap.Int("tokens", usage.Total()))

	return &Result{
		Facts: &Facts{
			Summary:           summary,
			BasedOnInterviews: appendUnique(basedOn, interviewID),
			Roles:             merged,
		},
		Usage: usage,
	}, nil
}

func (s *Service) extractRoles(ctx context.Context, transcript string, prior []models.Role) ([]models.Role, ai.Usage, error) {
	completion, err := s.completer.GenerateCompletion(ctx, ai.Request{
		Task:         ai.TaskRoleExtraction,
		SystemPrompt: roleExtractionSystem,
		UserPrompt:   roleExtractionPrompt(transcript, RenderRolesMarkdown(prior)),
		Schema:       roleSchema(),
	})
	if err != nil {
		return nil, ai.Usage{}, fmt.Errorf("role extraction: %w", err)
	}

	var payload rolesPayload
	if err := json.Unmarshal([]byte(completion.Data), &payload); err != nil {
		return nil, ai.Usage{}, apperr.Wrap(apperr.ErrValidationFailed, "role extraction returned malformed roles: %v", err)
	}

	for i := range payload.Roles {
		if payload.Roles[i].ID == "" {
			payload.Roles[i].ID = uuid.NewString()
		}
	}
	return payload.Roles, completion.Usage, nil
}

// extractProjects fans out one project call per role, each given the
// matching prior role's known projects as context. The first failure
// cancels the rest. Projects are written back into the roles slice in place.
func (s *Service) extractProjects(ctx context.Context, transcript string, roles, prior []models.Role) (ai.Usage, error) {
	priorProjects := make(map[string][]models.Project, len(prior))
	for _, r := range prior {
		priorProjects[r.ID] = r.Projects
	}

	g, gctx := errgroup.WithContext(ctx)
	usages := make([]ai.Usage, len(roles))

	for i := range roles {
		g.Go(func() error {
			completion, err := s.completer.GenerateCompletion(gctx, ai.Request{
				Task:         ai.TaskProjectExtraction,
				SystemPrompt: projectExtractionSystem,
				UserPrompt: projectExtractionPrompt(transcript,
					RenderRoleMarkdown(roles[i]),
					RenderProjectsMarkdown(priorProjects[roles[i].ID])),
				Schema: projectSchema(),
			})
			if err != nil {
				return fmt.Errorf("project extraction for role %s: %w", roles[i].ID, err)
			}

			var payload projectsPayload
			if err := json.Unmarshal([]byte(completion.Data), &payload); err != nil {
				return apperr.Wrap(apperr.ErrValidationFailed, "project extraction returned malformed projects: %v", err)
			}
			for j := range payload.Projects {
				if payload.Projects[j].ID == "" {
					payload.Projects[j].ID = uuid.NewString()
				}
			}
			roles[i].Projects = payload.Projects
			usages[i] = completion.Usage
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ai.Usage{}, err
	}

	var total ai.Usage
	for _, u := range usages {
		total = total.Add(u)
	}
	return total, nil
}

func (s *Service) summarize(ctx context.Context, roles []models.Role) (string, ai.Usage, error) {
	completion, err := s.completer.GenerateCompletion(ctx, ai.Request{
		Task:         ai.TaskSummary,
		SystemPrompt: summarySystem,
		UserPrompt:   summaryPrompt(RenderFactsMarkdown(roles)),
		Schema:       summarySchema(),
	})
	if err != nil {
		return "", ai.Usage{}, fmt.Errorf("summary: %w", err)
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(completion.Data), &payload); err != nil {
		return "", ai.Usage{}, apperr.Wrap(apperr.ErrValidationFailed, "summary call returned malformed payload: %v", err)
	}
	return payload.Summary, completion.Usage, nil
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
