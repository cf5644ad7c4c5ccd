package topics

import (
	"fmt"
	"strings"

	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/modules/ai"
)

const topicGenerationSystem = `You are a career coach proposing interview topics that help a person document their work history in more depth.

Rules:
- Do NOT propose topics the career record already covers exhaustively.
- Do NOT propose generic topics; each one must tie to a concrete role, project or skill from the record.
- Propose between 2 and 5 topics.
- Each topic has a short title, a one-line motivational quote, and 3 to 5 interview questions.

Return ONLY a JSON object, no prose.`

const topicRerankingSystem = `You are a career coach ordering interview topics by how much new, valuable detail each would add to the career record.

Rules:
- Do NOT add, remove or rename topics; only order them.
- Return the zero-based indices of ALL topics, best first, each index exactly once.

Return ONLY a JSON object, no prose.`

func topicGenerationPrompt(facts string) string {
	return fmt.Sprintf("Career record:\n\n%s\n\nReturn the proposed topics.", facts)
}

func topicRerankingPrompt(facts string, pool []models.TopicModel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Career record:\n\n%s\n\nTopics:\n\n", facts)
	for i, t := range pool {
		fmt.Fprintf(&b, "%d. %s\n", i, t.Title)
	}
	b.WriteString("\nReturn the ranking.")
	return b.String()
}

// Wire shapes for structured AI responses.
type topicsPayload struct {
	Topics []struct {
		Title             string   `json:"title"`
		MotivationalQuote string   `json:"motivational_quote"`
		Questions         []string `json:"questions"`
	} `json:"topics"`
}

type rankingPayload struct {
	Ranking []int `json:"ranking"`
}

func topicGenerationSchema() *ai.Schema {
	topicProps := map[string]ai.SchemaProperty{
		"title":              {Type: "string"},
		"motivational_quote": {Type: "string"},
		"questions":          {Type: "array", Items: &ai.SchemaProperty{Type: "string"}},
	}
	return &ai.Schema{
		Name: "topics",
		Type: "object",
		Properties: map[string]ai.SchemaProperty{
			"topics": {Type: "array", Items: &ai.SchemaProperty{Type: "object", Properties: topicProps}},
		},
		Required: []string{"topics"},
	}
}

func topicRerankingSchema() *ai.Schema {
	return &ai.Schema{
		Name: "ranking",
		Type: "object",
		Properties: map[string]ai.SchemaProperty{
			"ranking": {Type: "array", Items: &ai.SchemaProperty{Type: "integer"}},
		},
		Required: []string{"ranking"},
	}
}
