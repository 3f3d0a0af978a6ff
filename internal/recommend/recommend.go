// Package recommend turns the readiness verdict and quiz outcome into the
// final guidance a learner sees: a go/no-go, a checklist, remediation
// pointers for weak categories, and a next target once this one is in hand.
package recommend

import (
	"fmt"

	"prepline/internal/models"
)

// nextTargets suggests a follow-on certification once the current one is
// within reach.
var nextTargets = map[string]string{
	"backend-developer": "cloud-architect",
	"cloud-architect":   "data-engineer",
	"data-engineer":     "cloud-architect",
}

// Builder assembles recommendations against a category label lookup so the
// guidance text uses human names, not codes.
type Builder struct {
	labels map[string]string
}

func NewBuilder(weights []models.CategoryWeight) *Builder {
	labels := make(map[string]string, len(weights))
	for _, w := range weights {
		labels[w.Code] = w.Label
	}
	return &Builder{labels: labels}
}

// Build produces the recommendation. The learner is ready only when the quiz
// was passed; remediations are present exactly when they are not ready.
func (b *Builder) Build(targetCode string, assessment models.ReadinessAssessment, quiz models.AssessmentResult) models.Recommendation {
	rec := models.Recommendation{Ready: quiz.Passed}

	if rec.Ready {
		rec.NextTarget = nextTargets[targetCode]
		rec.Checklist = []string{
			"Book the exam within the next two weeks while the material is fresh",
			"Do one timed mock exam under real conditions",
			"Skim your notes for the lowest-scoring quiz category the day before",
		}
		return rec
	}

	rec.Checklist = []string{
		"Work through the remediation items below before re-taking the quiz",
		"Re-run the readiness check once the weak categories improve",
	}

	for _, code := range mergeWeak(quiz.WeakCategories, assessment.WeakCategories) {
		rec.Remediations = append(rec.Remediations,
			fmt.Sprintf("Revisit %s: quiz and self-assessment both place it below the pass bar", b.label(code)))
	}
	if len(rec.Remediations) == 0 {
		rec.Remediations = []string{
			"Overall score fell short without a single weak category; add practice volume across the board",
		}
	}
	return rec
}

// Nudges renders per-category encouragement for a readiness assessment.
func (b *Builder) Nudges(weakCategories []string) []string {
	nudges := make([]string, 0, len(weakCategories))
	for _, code := range weakCategories {
		nudges = append(nudges, fmt.Sprintf("Confidence in %s is low; front-load its tasks this week", b.label(code)))
	}
	return nudges
}

func (b *Builder) label(code string) string {
	if label, ok := b.labels[code]; ok {
		return label
	}
	return code
}

// mergeWeak unions quiz-weak and profile-weak categories, quiz order first.
func mergeWeak(quizWeak, assessmentWeak []string) []string {
	seen := make(map[string]bool, len(quizWeak)+len(assessmentWeak))
	var out []string
	for _, c := range quizWeak {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range assessmentWeak {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
