package extraction

import (
	"strings"

	"github.com/careertrail/core/internal/models"
)

// MergeRoles folds freshly extracted roles into the prior career record.
// Prior roles are matched by id; unmatched extracted roles are appended.
// Within a matched role, a known value is never overwritten by the
// "unknown" sentinel or by an empty string, skills are unioned, and
// projects are replaced only when the new extraction produced any.
func MergeRoles(prior, extracted []models.Role) []models.Role {
	merged := make([]models.Role, len(prior))
	copy(merged, prior)

	index := make(map[string]int, len(merged))
	for i, r := range merged {
		index[r.ID] = i
	}

	for _, fresh := range extracted {
		i, ok := index[fresh.ID]
		if !ok {
			merged = append(merged, fresh)
			index[fresh.ID] = len(merged) - 1
			continue
		}
		merged[i] = mergeRole(merged[i], fresh)
	}
	return merged
}

func mergeRole(known, fresh models.Role) models.Role {
	known.Title = preferKnown(known.Title, fresh.Title)
	known.Company = preferKnown(known.Company, fresh.Company)
	known.StartYear = preferKnown(known.StartYear, fresh.StartYear)
	known.EndYear = preferKnown(known.EndYear, fresh.EndYear)
	known.Experience = preferKnown(known.Experience, fresh.Experience)
	known.Skills = unionSkills(known.Skills, fresh.Skills)
	if len(fresh.Projects) > 0 {
		known.Projects = fresh.Projects
	}
	return known
}

// preferKnown takes the fresh value unless it is empty or the sentinel.
func preferKnown(known, fresh string) string {
	if isUnknown(fresh) {
		return known
	}
	return fresh
}

func isUnknown(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed == "" || strings.EqualFold(trimmed, models.UnknownValue)
}

// unionSkills merges two skill lists, keeping first-seen order and
// deduplicating case-insensitively.
func unionSkills(known, fresh models.StringArray) models.StringArray {
	seen := make(map[string]bool, len(known)+len(fresh))
	var out models.StringArray
	for _, list := range []models.StringArray{known, fresh} {
		for _, s := range list {
			key := strings.ToLower(strings.TrimSpace(s))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}
