// internal/quiz/quiz_test.go
package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepline/internal/models"
	"prepline/internal/registry"
)

func backendWeights(t *testing.T) []models.CategoryWeight {
	t.Helper()
	weights, err := registry.Default().GetCategoryWeights("backend-developer")
	require.NoError(t, err)
	return weights
}

func TestSampleProportionalWithFloor(t *testing.T) {
	sampler := NewSampler(nil)

	sheet, err := sampler.Sample(backendWeights(t), 20, "run-1")
	require.NoError(t, err)

	perCategory := map[string]int{}
	for _, q := range sheet.Questions {
		perCategory[q.CategoryCode]++
	}

	for _, w := range backendWeights(t) {
		assert.GreaterOrEqual(t, perCategory[w.Code], 1,
			"every weighted category gets at least one question: %s", w.Code)
	}
	assert.GreaterOrEqual(t, perCategory["apis"], perCategory["security"],
		"heavier categories get at least as many questions")
}

func TestSampleDeterministicPerSeed(t *testing.T) {
	sampler := NewSampler(nil)

	first, err := sampler.Sample(backendWeights(t), 12, "run-7")
	require.NoError(t, err)
	second, err := sampler.Sample(backendWeights(t), 12, "run-7")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := sampler.Sample(backendWeights(t), 12, "run-8")
	require.NoError(t, err)
	assert.Equal(t, len(first.Questions), len(other.Questions),
		"a different seed changes the draw, not the shape")
}

func TestSampleCapsAtPoolSize(t *testing.T) {
	bank := map[string][]models.Question{
		"apis": {
			{ID: "q1", CategoryCode: "apis", Prompt: "p", Choices: []string{"a", "b"}, Answer: 0},
			{ID: "q2", CategoryCode: "apis", Prompt: "p", Choices: []string{"a", "b"}, Answer: 1},
		},
	}
	sampler := NewSampler(bank)

	sheet, err := sampler.Sample([]models.CategoryWeight{{Code: "apis", Weight: 1}}, 10, "seed")
	require.NoError(t, err)
	assert.Len(t, sheet.Questions, 2)
}

func TestSampleNoCoveredCategories(t *testing.T) {
	sampler := NewSampler(map[string][]models.Question{})

	sheet, err := sampler.Sample(backendWeights(t), 10, "seed")
	require.NoError(t, err)
	assert.Empty(t, sheet.Questions)
}

func TestGrade(t *testing.T) {
	sheet := models.QuizSheet{
		Version: 1,
		Questions: []models.Question{
			{ID: "a1", CategoryCode: "apis", Choices: []string{"x", "y"}, Answer: 0},
			{ID: "a2", CategoryCode: "apis", Choices: []string{"x", "y"}, Answer: 1},
			{ID: "d1", CategoryCode: "databases", Choices: []string{"x", "y"}, Answer: 0},
			{ID: "d2", CategoryCode: "databases", Choices: []string{"x", "y"}, Answer: 0},
		},
	}

	result := Grade(sheet, models.QuizSubmission{Answers: map[string]int{
		"a1": 0,
		"a2": 1,
		"d1": 1, // wrong
		// d2 unanswered, counts as wrong
	}}, 70)

	assert.InDelta(t, 50.0, result.OverallPercent, 0.001)
	assert.False(t, result.Passed)
	assert.InDelta(t, 100.0, result.CategoryPercents["apis"], 0.001)
	assert.InDelta(t, 0.0, result.CategoryPercents["databases"], 0.001)
	assert.Equal(t, []string{"databases"}, result.WeakCategories)
}

func TestGradePassBoundary(t *testing.T) {
	sheet := models.QuizSheet{
		Questions: []models.Question{
			{ID: "q1", CategoryCode: "apis", Answer: 0},
			{ID: "q2", CategoryCode: "apis", Answer: 0},
		},
	}

	pass := Grade(sheet, models.QuizSubmission{Answers: map[string]int{"q1": 0, "q2": 0}}, 100)
	assert.True(t, pass.Passed, "pass threshold is inclusive")

	fail := Grade(sheet, models.QuizSubmission{Answers: map[string]int{"q1": 0}}, 70)
	assert.False(t, fail.Passed)
}

func TestGradeWeakCategoriesWorstFirst(t *testing.T) {
	sheet := models.QuizSheet{
		Questions: []models.Question{
			{ID: "s1", CategoryCode: "security", Answer: 0},
			{ID: "s2", CategoryCode: "security", Answer: 0},
			{ID: "c1", CategoryCode: "concurrency", Answer: 0},
			{ID: "c2", CategoryCode: "concurrency", Answer: 0},
		},
	}

	result := Grade(sheet, models.QuizSubmission{Answers: map[string]int{
		"s1": 0, // security 50%
		// concurrency 0%
	}}, 70)

	assert.Equal(t, []string{"concurrency", "security"}, result.WeakCategories)
}

func TestGradeEmptySheet(t *testing.T) {
	result := Grade(models.QuizSheet{}, models.QuizSubmission{}, 70)
	assert.Equal(t, 0.0, result.OverallPercent)
	assert.False(t, result.Passed)
}
