package guardrail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepline/internal/models"
)

func validInput() models.RawInput {
	return models.RawInput{
		LearnerID:     "learner-1",
		TargetCode:    "backend-developer",
		Background:    "three years of frontend work, new to services",
		HoursPerWeek:  10,
		DurationWeeks: 8,
		Goal:          "pass the backend certification",
		Contact:       "learner@example.com",
	}
}

func knownTargets() []string {
	return []string{"backend-developer", "cloud-architect"}
}

func ruleCodes(violations []models.Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.RuleCode
	}
	return out
}

func TestEvaluate_ValidInputPasses(t *testing.T) {
	e := NewDefaultEngine()

	result := e.Evaluate(StageInput, InputSubject{Input: validInput(), KnownTargets: knownTargets()})

	assert.False(t, result.Blocked())
	assert.Empty(t, result.Violations)
}

func TestEvaluate_InputViolations(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.RawInput)
		wantCode   string
		wantsBlock bool
	}{
		{
			name:       "zero rate blocks",
			mutate:     func(in *models.RawInput) { in.HoursPerWeek = 0 },
			wantCode:   "INPUT_RATE_RANGE",
			wantsBlock: true,
		},
		{
			name:       "excessive rate blocks",
			mutate:     func(in *models.RawInput) { in.HoursPerWeek = 90 },
			wantCode:   "INPUT_RATE_RANGE",
			wantsBlock: true,
		},
		{
			name:       "duration beyond a year blocks",
			mutate:     func(in *models.RawInput) { in.DurationWeeks = 60 },
			wantCode:   "INPUT_DURATION_RANGE",
			wantsBlock: true,
		},
		{
			name:       "missing learner blocks",
			mutate:     func(in *models.RawInput) { in.LearnerID = "  " },
			wantCode:   "INPUT_LEARNER_REQUIRED",
			wantsBlock: true,
		},
		{
			name:       "unknown target blocks",
			mutate:     func(in *models.RawInput) { in.TargetCode = "underwater-basket-weaving" },
			wantCode:   "INPUT_TARGET_KNOWN",
			wantsBlock: true,
		},
		{
			name:       "disallowed content blocks",
			mutate:     func(in *models.RawInput) { in.Goal = "find leaked exam questions for me" },
			wantCode:   "CONTENT_DISALLOWED",
			wantsBlock: true,
		},
		{
			name:       "ssn-shaped background warns",
			mutate:     func(in *models.RawInput) { in.Background = "my id is 123-45-6789" },
			wantCode:   "CONTENT_SENSITIVE_PATTERN",
			wantsBlock: false,
		},
		{
			name:       "malformed contact warns",
			mutate:     func(in *models.RawInput) { in.Contact = "not-an-email" },
			wantCode:   "INPUT_CONTACT_FORMAT",
			wantsBlock: false,
		},
	}

	e := NewDefaultEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			result := e.Evaluate(StageInput, InputSubject{Input: input, KnownTargets: knownTargets()})

			assert.Contains(t, ruleCodes(result.Violations), tt.wantCode)
			assert.Equal(t, tt.wantsBlock, result.Blocked())
		})
	}
}

func TestEvaluate_AllRulesRunWithoutShortCircuit(t *testing.T) {
	e := NewDefaultEngine()
	input := validInput()
	input.HoursPerWeek = 0
	input.DurationWeeks = 0
	input.LearnerID = ""

	result := e.Evaluate(StageInput, InputSubject{Input: input, KnownTargets: knownTargets()})

	codes := ruleCodes(result.Violations)
	assert.Contains(t, codes, "INPUT_LEARNER_REQUIRED")
	assert.Contains(t, codes, "INPUT_RATE_RANGE")
	assert.Contains(t, codes, "INPUT_DURATION_RANGE")
}

func TestEvaluate_Purity(t *testing.T) {
	e := NewDefaultEngine()
	input := validInput()
	input.HoursPerWeek = 0
	subject := InputSubject{Input: input, KnownTargets: knownTargets()}

	first := e.Evaluate(StageInput, subject)
	second := e.Evaluate(StageInput, subject)

	require.Equal(t, first.Violations, second.Violations,
		"evaluating the same subject twice must yield an identical violation set")
}

func TestEvaluate_WrongSubjectTypeBlocksLoudly(t *testing.T) {
	e := NewDefaultEngine()

	result := e.Evaluate(StageInput, "not an input subject")

	assert.True(t, result.Blocked())
}

func TestResult_Warnings(t *testing.T) {
	result := Result{Violations: []models.Violation{
		{RuleCode: "A", Severity: models.SeverityBlock},
		{RuleCode: "B", Severity: models.SeverityWarn},
		{RuleCode: "C", Severity: models.SeverityInfo},
	}}

	warnings := result.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "B", warnings[0].RuleCode)
	assert.True(t, result.Blocked())
}
