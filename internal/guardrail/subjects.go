// internal/guardrail/subjects.go
package guardrail

import "prepline/internal/models"

// InputSubject is what the intake guardrails evaluate. KnownTargets is the
// registry's current target list, resolved freshly by the orchestrator.
type InputSubject struct {
	Input        models.RawInput
	KnownTargets []string
}

// ProfileSubject pairs a produced profile with the registry categories for
// its target.
type ProfileSubject struct {
	Profile    models.Profile
	Categories []models.CategoryWeight
}

// PlanSubject is the fan-out join subject: the allocated plan, the curated
// path, and the trust allow-list for URL screening.
type PlanSubject struct {
	Plan           models.Plan
	Path           models.Path
	Categories     []models.CategoryWeight
	TrustedOrigins []string
}

// ProgressSubject pairs a check-in with the categories it may rate.
type ProgressSubject struct {
	Snapshot   models.ProgressSnapshot
	Categories []models.CategoryWeight
}

// QuizSubject pairs a sampled sheet with an optional submission to grade.
type QuizSubject struct {
	Sheet      models.QuizSheet
	Submission *models.QuizSubmission
}
