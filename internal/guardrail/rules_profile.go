// internal/guardrail/rules_profile.go
package guardrail

import (
	"fmt"

	"prepline/internal/models"
)

// RegisterProfileRules installs the G-profile rule family. These run against
// every profile regardless of which capability tier produced it.
func RegisterProfileRules(e *Engine) {
	e.Register(StageProfile, typedRule("PROFILE_ASSESSMENT_COUNT", func(s ProfileSubject) []models.Violation {
		if len(s.Profile.Assessments) != len(s.Categories) {
			return []models.Violation{block("PROFILE_ASSESSMENT_COUNT", "assessments",
				fmt.Sprintf("expected %d category assessments, got %d", len(s.Categories), len(s.Profile.Assessments)))}
		}
		return nil
	}))

	e.Register(StageProfile, typedRule("PROFILE_CONFIDENCE_RANGE", func(s ProfileSubject) []models.Violation {
		var out []models.Violation
		for _, a := range s.Profile.Assessments {
			if a.Confidence < 0 || a.Confidence > 1 {
				out = append(out, block("PROFILE_CONFIDENCE_RANGE", "assessments",
					fmt.Sprintf("category %s confidence %g outside [0,1]", a.CategoryCode, a.Confidence)))
			}
		}
		return out
	}))

	e.Register(StageProfile, typedRule("PROFILE_CATEGORY_MEMBERSHIP", func(s ProfileSubject) []models.Violation {
		known := categorySet(s.Categories)
		var out []models.Violation
		for _, a := range s.Profile.Assessments {
			if _, ok := known[a.CategoryCode]; !ok {
				out = append(out, block("PROFILE_CATEGORY_MEMBERSHIP", "assessments",
					fmt.Sprintf("assessment references unknown category %q", a.CategoryCode)))
			}
		}
		return out
	}))

	e.Register(StageProfile, typedRule("PROFILE_DUPLICATE_CATEGORY", func(s ProfileSubject) []models.Violation {
		seen := make(map[string]bool, len(s.Profile.Assessments))
		var out []models.Violation
		for _, a := range s.Profile.Assessments {
			if seen[a.CategoryCode] {
				out = append(out, block("PROFILE_DUPLICATE_CATEGORY", "assessments",
					fmt.Sprintf("category %q assessed more than once", a.CategoryCode)))
			}
			seen[a.CategoryCode] = true
		}
		return out
	}))

	e.Register(StageProfile, typedRule("PROFILE_RISK_MEMBERSHIP", func(s ProfileSubject) []models.Violation {
		known := categorySet(s.Categories)
		var out []models.Violation
		for _, code := range s.Profile.RiskCategories {
			if _, ok := known[code]; !ok {
				out = append(out, warn("PROFILE_RISK_MEMBERSHIP", "riskCategories",
					fmt.Sprintf("risk flag references unknown category %q", code)))
			}
		}
		return out
	}))
}

func categorySet(categories []models.CategoryWeight) map[string]struct{} {
	out := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		out[c.Code] = struct{}{}
	}
	return out
}
