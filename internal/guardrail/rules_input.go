// internal/guardrail/rules_input.go
package guardrail

import (
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"

	"prepline/internal/models"
)

// Intake bounds once past guardrails: rate in [1,80] hours/week, duration in
// [1,52] weeks.
const (
	MinHoursPerWeek  = 1.0
	MaxHoursPerWeek  = 80.0
	MinDurationWeeks = 1
	MaxDurationWeeks = 52
)

// RegisterInputRules installs the G-input rule family.
func RegisterInputRules(e *Engine, screener Screener) {
	e.Register(StageInput, typedRule("INPUT_LEARNER_REQUIRED", func(s InputSubject) []models.Violation {
		if strings.TrimSpace(s.Input.LearnerID) == "" {
			return []models.Violation{block("INPUT_LEARNER_REQUIRED", "learnerId", "learner identity is required")}
		}
		return nil
	}))

	e.Register(StageInput, typedRule("INPUT_TARGET_REQUIRED", func(s InputSubject) []models.Violation {
		if strings.TrimSpace(s.Input.TargetCode) == "" {
			return []models.Violation{block("INPUT_TARGET_REQUIRED", "targetCode", "target category is required")}
		}
		return nil
	}))

	// Unknown targets block rather than silently substituting a default
	// registry.
	e.Register(StageInput, typedRule("INPUT_TARGET_KNOWN", func(s InputSubject) []models.Violation {
		if strings.TrimSpace(s.Input.TargetCode) == "" {
			return nil // INPUT_TARGET_REQUIRED already fires
		}
		for _, known := range s.KnownTargets {
			if known == s.Input.TargetCode {
				return nil
			}
		}
		return []models.Violation{block("INPUT_TARGET_KNOWN", "targetCode",
			fmt.Sprintf("target %q is not in the category registry", s.Input.TargetCode))}
	}))

	e.Register(StageInput, typedRule("INPUT_RATE_RANGE", func(s InputSubject) []models.Violation {
		if s.Input.HoursPerWeek < MinHoursPerWeek || s.Input.HoursPerWeek > MaxHoursPerWeek {
			return []models.Violation{block("INPUT_RATE_RANGE", "hoursPerWeek",
				fmt.Sprintf("hours per week must be within [%g,%g], got %g", MinHoursPerWeek, MaxHoursPerWeek, s.Input.HoursPerWeek))}
		}
		return nil
	}))

	e.Register(StageInput, typedRule("INPUT_DURATION_RANGE", func(s InputSubject) []models.Violation {
		if s.Input.DurationWeeks < MinDurationWeeks || s.Input.DurationWeeks > MaxDurationWeeks {
			return []models.Violation{block("INPUT_DURATION_RANGE", "durationWeeks",
				fmt.Sprintf("duration must be within [%d,%d] weeks, got %d", MinDurationWeeks, MaxDurationWeeks, s.Input.DurationWeeks))}
		}
		return nil
	}))

	e.Register(StageInput, typedRule("INPUT_CONTENT_SCREEN", func(s InputSubject) []models.Violation {
		var out []models.Violation
		out = append(out, screener.Screen("background", s.Input.Background)...)
		out = append(out, screener.Screen("goal", s.Input.Goal)...)
		return out
	}))

	// A malformed contact is a WARN: it degrades notification delivery, not
	// the plan itself.
	e.Register(StageInput, typedRule("INPUT_CONTACT_FORMAT", func(s InputSubject) []models.Violation {
		contact := strings.TrimSpace(s.Input.Contact)
		if contact == "" {
			return nil
		}
		if govalidator.IsEmail(contact) {
			return nil
		}
		return []models.Violation{warn("INPUT_CONTACT_FORMAT", "contact", "contact is not a valid email address")}
	}))
}
