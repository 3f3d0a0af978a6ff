// internal/pipeline/context.go
package pipeline

import (
	"prepline/internal/models"
)

// RunContext is the complete state of one pipeline run. It is a value:
// every transition derives a new context and leaves the old one untouched,
// so a caller can hold any intermediate snapshot without it shifting
// underneath them.
type RunContext struct {
	RunID      string `json:"runId"`
	State      State  `json:"state"`
	Version    int    `json:"version"`
	TargetCode string `json:"targetCode"`

	Input          models.RawInput          `json:"input"`
	Profile        models.Profile           `json:"profile,omitempty"`
	Plan           models.Plan              `json:"plan,omitempty"`
	Path           models.Path              `json:"path,omitempty"`
	Excluded       []models.Resource        `json:"excludedResources,omitempty"`
	Snapshot       *models.ProgressSnapshot `json:"snapshot,omitempty"`
	Assessment     *models.ReadinessAssessment `json:"assessment,omitempty"`
	Sheet          models.QuizSheet         `json:"sheet,omitempty"`
	QuizResult     *models.AssessmentResult `json:"quizResult,omitempty"`
	Recommendation *models.Recommendation   `json:"recommendation,omitempty"`

	// Violations holds the blocking set when the run halted; Warnings carries
	// the non-fatal audit trail keyed by the stage that raised it.
	Violations []models.Violation            `json:"violations,omitempty"`
	Warnings   map[string][]models.Violation `json:"warnings,omitempty"`

	// Remediations counts how many times the run re-entered Planning.
	Remediations int `json:"remediations,omitempty"`
}

// withState returns a copy advanced to the given state.
func (rc RunContext) withState(s State) RunContext {
	rc.State = s
	return rc
}

// withWarnings attaches a stage's WARN violations to the context metadata.
// The warnings map is rebuilt so the receiving value stays unshared.
func (rc RunContext) withWarnings(stage string, warnings []models.Violation) RunContext {
	if len(warnings) == 0 {
		return rc
	}
	merged := make(map[string][]models.Violation, len(rc.Warnings)+1)
	for k, v := range rc.Warnings {
		merged[k] = v
	}
	merged[stage] = append(append([]models.Violation(nil), merged[stage]...), warnings...)
	rc.Warnings = merged
	return rc
}

// halted returns a copy stopped at the given state with the blocking set.
func (rc RunContext) halted(s State, violations []models.Violation) RunContext {
	rc.State = s
	rc.Violations = violations
	return rc
}
