// internal/recommend/recommend_test.go
package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepline/internal/models"
	"prepline/internal/registry"
)

func builder(t *testing.T) *Builder {
	t.Helper()
	weights, err := registry.Default().GetCategoryWeights("backend-developer")
	require.NoError(t, err)
	return NewBuilder(weights)
}

func TestBuildReady(t *testing.T) {
	rec := builder(t).Build("backend-developer",
		models.ReadinessAssessment{Percentage: 86, Verdict: models.VerdictReady},
		models.AssessmentResult{OverallPercent: 85, Passed: true},
	)

	assert.True(t, rec.Ready)
	assert.Equal(t, "cloud-architect", rec.NextTarget)
	assert.NotEmpty(t, rec.Checklist)
	assert.Empty(t, rec.Remediations, "a ready learner gets no remediation items")
}

func TestBuildNotReadyCarriesRemediations(t *testing.T) {
	rec := builder(t).Build("backend-developer",
		models.ReadinessAssessment{
			Percentage:     61,
			Verdict:        models.VerdictNeedsWork,
			WeakCategories: []string{"security"},
		},
		models.AssessmentResult{
			OverallPercent: 55,
			Passed:         false,
			WeakCategories: []string{"concurrency", "security"},
		},
	)

	assert.False(t, rec.Ready)
	assert.Empty(t, rec.NextTarget)
	require.Len(t, rec.Remediations, 2, "weak categories are unioned, not duplicated")
	assert.Contains(t, rec.Remediations[0], "Concurrency",
		"quiz-weak categories lead and use the human label")
}

func TestBuildNotReadyWithoutWeakCategories(t *testing.T) {
	rec := builder(t).Build("backend-developer",
		models.ReadinessAssessment{Percentage: 60, Verdict: models.VerdictNeedsWork},
		models.AssessmentResult{OverallPercent: 65, Passed: false},
	)

	assert.False(t, rec.Ready)
	require.Len(t, rec.Remediations, 1)
}

func TestBuildUnknownNextTarget(t *testing.T) {
	rec := builder(t).Build("something-new",
		models.ReadinessAssessment{Verdict: models.VerdictReady},
		models.AssessmentResult{Passed: true},
	)
	assert.True(t, rec.Ready)
	assert.Empty(t, rec.NextTarget, "no suggestion table entry means no next target")
}

func TestNudges(t *testing.T) {
	nudges := builder(t).Nudges([]string{"concurrency", "not-a-category"})
	require.Len(t, nudges, 2)
	assert.Contains(t, nudges[0], "Concurrency & Distributed Basics")
	assert.Contains(t, nudges[1], "not-a-category", "unknown codes fall back to the raw code")
}
