// internal/guardrail/rules_progress.go
package guardrail

import (
	"fmt"

	"prepline/internal/models"
)

// RegisterProgressRules installs the G-progress rule family run when the
// AwaitProgress gate is resumed.
func RegisterProgressRules(e *Engine, screener Screener) {
	e.Register(StageProgress, typedRule("PROGRESS_UNITS_NONNEGATIVE", func(s ProgressSubject) []models.Violation {
		if s.Snapshot.UnitsSpent < 0 {
			return []models.Violation{block("PROGRESS_UNITS_NONNEGATIVE", "unitsSpent",
				fmt.Sprintf("units spent cannot be negative, got %g", s.Snapshot.UnitsSpent))}
		}
		return nil
	}))

	e.Register(StageProgress, typedRule("PROGRESS_RATINGS_REQUIRED", func(s ProgressSubject) []models.Violation {
		if len(s.Snapshot.SelfRatings) == 0 {
			return []models.Violation{block("PROGRESS_RATINGS_REQUIRED", "selfRatings", "at least one self-rating is required")}
		}
		return nil
	}))

	e.Register(StageProgress, typedRule("PROGRESS_RATING_RANGE", func(s ProgressSubject) []models.Violation {
		var out []models.Violation
		for code, rating := range s.Snapshot.SelfRatings {
			if rating < 1 || rating > 5 {
				out = append(out, block("PROGRESS_RATING_RANGE", "selfRatings",
					fmt.Sprintf("rating for %s must be within [1,5], got %d", code, rating)))
			}
		}
		return out
	}))

	e.Register(StageProgress, typedRule("PROGRESS_RATING_MEMBERSHIP", func(s ProgressSubject) []models.Violation {
		known := categorySet(s.Categories)
		var out []models.Violation
		for code := range s.Snapshot.SelfRatings {
			if _, ok := known[code]; !ok {
				out = append(out, warn("PROGRESS_RATING_MEMBERSHIP", "selfRatings",
					fmt.Sprintf("rating references unknown category %q", code)))
			}
		}
		return out
	}))

	e.Register(StageProgress, typedRule("PROGRESS_PRACTICE_RANGE", func(s ProgressSubject) []models.Violation {
		if s.Snapshot.PracticeScore == nil {
			return nil
		}
		if score := *s.Snapshot.PracticeScore; score < 0 || score > 100 {
			return []models.Violation{block("PROGRESS_PRACTICE_RANGE", "practiceScore",
				fmt.Sprintf("practice score must be within [0,100], got %g", score))}
		}
		return nil
	}))

	e.Register(StageProgress, typedRule("PROGRESS_CONTENT_SCREEN", func(s ProgressSubject) []models.Violation {
		return screener.Screen("notes", s.Snapshot.Notes)
	}))
}
