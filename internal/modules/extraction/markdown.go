package extraction

import (
	"fmt"
	"strings"

	"github.com/careertrail/core/internal/models"
)

// FilterAnswers keeps answers whose trimmed text meets the minimum length.
// Short answers carry too little signal to be worth an extraction call.
func FilterAnswers(answers []models.AnswerModel, minLength int) []models.AnswerModel {
	var kept []models.AnswerModel
	for _, a := range answers {
		if len(strings.TrimSpace(a.Answer)) >= minLength {
			kept = append(kept, a)
		}
	}
	return kept
}

// BuildTranscript renders qualifying answers as a markdown Q&A document.
func BuildTranscript(answers []models.AnswerModel) string {
	var b strings.Builder
	for i, a := range answers {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "**Q: %s**\n\n%s\n", strings.TrimSpace(a.Question), strings.TrimSpace(a.Answer))
	}
	return b.String()
}

// RenderRolesMarkdown renders known roles for inclusion in a prompt. Project
// details are left out; they are handled by the per-role extraction step.
func RenderRolesMarkdown(roles []models.Role) string {
	if len(roles) == 0 {
		return "No roles are known yet."
	}
	var b strings.Builder
	for _, r := range roles {
		fmt.Fprintf(&b, "## %s at %s (id: %s)\n", orUnknown(r.Title), orUnknown(r.Company), r.ID)
		fmt.Fprintf(&b, "- Years: %s to %s\n", orUnknown(r.StartYear), orUnknown(r.EndYear))
		if r.Experience != "" {
			fmt.Fprintf(&b, "- Experience: %s\n", r.Experience)
		}
		if len(r.Skills) > 0 {
			fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(r.Skills, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderRoleMarkdown renders one role as context for the project
// extraction call. Projects are rendered separately from the prior record.
func RenderRoleMarkdown(role models.Role) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s at %s\n", orUnknown(role.Title), orUnknown(role.Company))
	fmt.Fprintf(&b, "- Years: %s to %s\n", orUnknown(role.StartYear), orUnknown(role.EndYear))
	if len(role.Skills) > 0 {
		fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(role.Skills, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderProjectsMarkdown renders previously known projects of a role, or a
// placeholder when there are none.
func RenderProjectsMarkdown(projects []models.Project) string {
	if len(projects) == 0 {
		return "No projects are known yet for this role."
	}
	var b strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&b, "- %s (id: %s): %s\n", p.Name, p.ID, p.Goal)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderFactsMarkdown renders the full merged picture, used for the summary
// call and for topic generation.
func RenderFactsMarkdown(roles []models.Role) string {
	if len(roles) == 0 {
		return "No career facts are known yet."
	}
	var b strings.Builder
	for _, r := range roles {
		fmt.Fprintf(&b, "## %s at %s\n", orUnknown(r.Title), orUnknown(r.Company))
		fmt.Fprintf(&b, "- Years: %s to %s\n", orUnknown(r.StartYear), orUnknown(r.EndYear))
		if r.Experience != "" {
			fmt.Fprintf(&b, "- Experience: %s\n", r.Experience)
		}
		if len(r.Skills) > 0 {
			fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(r.Skills, ", "))
		}
		for _, p := range r.Projects {
			fmt.Fprintf(&b, "\n### Project: %s\n", p.Name)
			if p.Goal != "" {
				fmt.Fprintf(&b, "Goal: %s\n", p.Goal)
			}
			for _, a := range p.Achievements {
				fmt.Fprintf(&b, "- %s\n", a)
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.UnknownValue
	}
	return s
}
