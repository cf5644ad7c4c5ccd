// Package extraction turns interview transcripts into structured career
// facts via a multi-step AI pipeline.
package extraction

import (
	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/modules/ai"
)

// Facts is the merged career knowledge produced by one pipeline run. It is
// the full picture (prior knowledge plus this interview), ready to replace
// the persisted experience record.
type Facts struct {
	Summary           string        `json:"summary"`
	BasedOnInterviews []string      `json:"based_on_interviews"`
	Roles             []models.Role `json:"roles"`
}

// Result pairs the extracted facts with the total token usage of all AI
// calls made to produce them.
type Result struct {
	Facts *Facts
	Usage ai.Usage
}

// Wire shapes for structured AI responses.
type rolesPayload struct {
	Roles []models.Role `json:"roles"`
}

type projectsPayload struct {
	Projects []models.Project `json:"projects"`
}

type summaryPayload struct {
	Summary string `json:"summary"`
}
