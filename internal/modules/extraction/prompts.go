package extraction

import (
	"fmt"

	"github.com/careertrail/core/internal/modules/ai"
)

const roleExtractionSystem = `You are a career analyst extracting work history from interview transcripts.

Rules:
- Do NOT invent roles, companies, dates or skills that are not supported by the transcript or the known roles.
- Do NOT drop a known role just because the transcript does not mention it; return it unchanged with its id.
- When the transcript adds nothing for a field, use the literal string "unknown".
- When a role from the transcript matches a known role, reuse the known role's id exactly. Leave id empty only for genuinely new roles.
- Years are four-digit strings; an ongoing role has end_year "unknown".

Return ONLY a JSON object, no prose.`

const projectExtractionSystem = `You are a career analyst extracting concrete projects for ONE specific role from an interview transcript.

Rules:
- Do NOT invent projects; only extract work the transcript attributes to this role.
- Do NOT include work that belongs to a different role.
- When a project matches a known project of this role, reuse its id exactly. Leave id empty only for new projects.
- Achievements are short, factual bullet points taken from the transcript.

Return ONLY a JSON object, no prose.`

const summarySystem = `You are a career analyst writing a professional summary from a structured career record.

Rules:
- Do NOT invent facts; use only what the record states.
- Do NOT address the reader or the candidate; write in third person.
- Keep it to one paragraph of 3-5 sentences.

Return ONLY a JSON object, no prose.`

func roleExtractionPrompt(transcript, knownRoles string) string {
	return fmt.Sprintf("Known roles:\n\n%s\n\nInterview transcript:\n\n%s\n\nReturn the complete, updated list of roles.", knownRoles, transcript)
}

func projectExtractionPrompt(transcript, role, knownProjects string) string {
	return fmt.Sprintf("The role:\n\n%s\n\nKnown projects:\n\n%s\n\nInterview transcript:\n\n%s\n\nReturn the projects for this role.", role, knownProjects, transcript)
}

func summaryPrompt(facts string) string {
	return fmt.Sprintf("Career record:\n\n%s\n\nReturn the professional summary.", facts)
}

func roleSchema() *ai.Schema {
	roleProps := map[string]ai.SchemaProperty{
		"id":         {Type: "string", Description: "known role id, or empty for a new role"},
		"title":      {Type: "string"},
		"company":    {Type: "string"},
		"start_year": {Type: "string"},
		"end_year":   {Type: "string"},
		"experience": {Type: "string", Description: "what the person did in this role"},
		"skills":     {Type: "array", Items: &ai.SchemaProperty{Type: "string"}},
	}
	return &ai.Schema{
		Name: "roles",
		Type: "object",
		Properties: map[string]ai.SchemaProperty{
			"roles": {Type: "array", Items: &ai.SchemaProperty{Type: "object", Properties: roleProps}},
		},
		Required: []string{"roles"},
	}
}

func projectSchema() *ai.Schema {
	projectProps := map[string]ai.SchemaProperty{
		"id":           {Type: "string", Description: "known project id, or empty for a new project"},
		"name":         {Type: "string"},
		"goal":         {Type: "string"},
		"achievements": {Type: "array", Items: &ai.SchemaProperty{Type: "string"}},
	}
	return &ai.Schema{
		Name: "projects",
		Type: "object",
		Properties: map[string]ai.SchemaProperty{
			"projects": {Type: "array", Items: &ai.SchemaProperty{Type: "object", Properties: projectProps}},
		},
		Required: []string{"projects"},
	}
}

func summarySchema() *ai.Schema {
	return &ai.Schema{
		Name: "summary",
		Type: "object",
		Properties: map[string]ai.SchemaProperty{
			"summary": {Type: "string"},
		},
		Required: []string{"summary"},
	}
}
