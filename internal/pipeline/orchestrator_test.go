// internal/pipeline/orchestrator_test.go
package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepline/internal/capability"
	"prepline/internal/common/config"
	"prepline/internal/common/errors"
	"prepline/internal/common/logger"
	"prepline/internal/models"
	"prepline/internal/registry"
	"prepline/internal/store"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Quiz.QuestionCount = 12
	cfg.Quiz.PassPercent = 70
	cfg.Planning.MinimumUnits = 1
	return cfg
}

func validInput() models.RawInput {
	return models.RawInput{
		LearnerID:        "learner-42",
		TargetCode:       "backend-developer",
		Background:       "junior developer moving into backend work",
		PriorCredentials: []string{"intro to databases"},
		HoursPerWeek:     10,
		DurationWeeks:    8,
		Concerns:         []string{"concurrency"},
		StylePreference:  "hands-on",
		Goal:             "pass the backend certification",
	}
}

func localFactory() ResolverFactory {
	return func() ProfileResolver {
		return capability.NewResolver(config.CapabilityConfig{}, registry.Default(), logger.NewNoOpLogger())
	}
}

func newOrchestrator(cfg *config.Config, factory ResolverFactory, st store.Store) *Orchestrator {
	return New(cfg, registry.Default(), factory, st, nil, logger.NewNoOpLogger())
}

// scriptedResolver fails a set number of produce calls, then succeeds.
type scriptedResolver struct {
	failures int
	tier     models.CapabilityTier
	demotes  int
	produced int
}

func (r *scriptedResolver) Produce(_ context.Context, input models.RawInput) (models.Profile, error) {
	r.produced++
	if r.failures > 0 {
		r.failures--
		return models.Profile{}, fmt.Errorf("tier unavailable")
	}
	return scriptedProfile(input, r.tier), nil
}

func (r *scriptedResolver) Demote() error {
	r.demotes++
	r.tier = models.TierLocal
	return nil
}

func (r *scriptedResolver) Bound() models.CapabilityTier { return r.tier }

func scriptedProfile(input models.RawInput, tier models.CapabilityTier) models.Profile {
	p := models.Profile{
		LearnerID:  input.LearnerID,
		TargetCode: input.TargetCode,
		Experience: models.ExperienceIntermediate,
		Meta:       models.ProfileMeta{Tier: tier},
	}
	for _, code := range []string{"apis", "databases", "concurrency", "testing", "security", "observability"} {
		p.Assessments = append(p.Assessments, models.CategoryAssessment{
			CategoryCode: code,
			Confidence:   0.5,
			Knowledge:    models.KnowledgeWorking,
		})
	}
	return p
}

func strongSnapshot() models.ProgressSnapshot {
	practice := 90.0
	return models.ProgressSnapshot{
		UnitsSpent: 80,
		SelfRatings: map[string]int{
			"apis": 5, "databases": 5, "concurrency": 5,
			"testing": 5, "security": 5, "observability": 5,
		},
		PracticeScore: &practice,
	}
}

func weakSnapshot() models.ProgressSnapshot {
	return models.ProgressSnapshot{
		UnitsSpent: 0,
		SelfRatings: map[string]int{
			"apis": 1, "databases": 1, "concurrency": 1,
			"testing": 1, "security": 1, "observability": 1,
		},
	}
}

func perfectSubmission(sheet models.QuizSheet) models.QuizSubmission {
	answers := make(map[string]int, len(sheet.Questions))
	for _, q := range sheet.Questions {
		answers[q.ID] = q.Answer
	}
	return models.QuizSubmission{Answers: answers}
}

func TestFullRunToCompletion(t *testing.T) {
	o := newOrchestrator(testConfig(), localFactory(), nil)
	ctx := context.Background()

	rc, err := o.Start(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, StateAwaitProgress, rc.State)
	assert.Equal(t, 1, rc.Version)

	// 10 h/week over 8 weeks apportions 80 units exactly.
	assert.Equal(t, 80, rc.Plan.TotalUnits)
	assert.Equal(t, 80, rc.Plan.AllocatedUnits())
	require.Len(t, rc.Plan.Tasks, 6)
	assert.Equal(t, 18, rc.Plan.Tasks[0].Units, "heaviest category gets the largest share")
	assert.Equal(t, 18, rc.Plan.Tasks[1].Units)
	assert.NotEmpty(t, rc.Path.Resources)
	assert.Equal(t, models.TierLocal, rc.Profile.Meta.Tier)

	rc, err = o.ResumeProgress(ctx, rc, strongSnapshot())
	require.NoError(t, err)
	assert.Equal(t, StateAwaitQuiz, rc.State)
	require.NotNil(t, rc.Assessment)
	assert.Equal(t, models.VerdictReady, rc.Assessment.Verdict)
	assert.NotEmpty(t, rc.Sheet.Questions)

	rc, err = o.ResumeQuiz(ctx, rc, perfectSubmission(rc.Sheet))
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, rc.State)
	require.NotNil(t, rc.QuizResult)
	assert.True(t, rc.QuizResult.Passed)
	require.NotNil(t, rc.Recommendation)
	assert.True(t, rc.Recommendation.Ready)
	assert.Equal(t, "cloud-architect", rc.Recommendation.NextTarget)
	assert.Empty(t, rc.Recommendation.Remediations)
}

func TestStartBlockedInputStaysInIntake(t *testing.T) {
	o := newOrchestrator(testConfig(), localFactory(), nil)

	input := validInput()
	input.HoursPerWeek = 0

	rc, err := o.Start(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, StateIntake, rc.State, "a rejected intake never advances")

	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeValidationBlocked, stdErr.Code)

	codes := make([]string, 0, len(rc.Violations))
	for _, v := range rc.Violations {
		codes = append(codes, v.RuleCode)
	}
	assert.Contains(t, codes, "INPUT_RATE_RANGE")
}

func TestStartUnknownTargetBlocks(t *testing.T) {
	o := newOrchestrator(testConfig(), localFactory(), nil)

	input := validInput()
	input.TargetCode = "underwater-basket-weaving"

	rc, err := o.Start(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, StateIntake, rc.State)

	found := false
	for _, v := range rc.Violations {
		if v.RuleCode == "INPUT_TARGET_KNOWN" {
			found = true
		}
	}
	assert.True(t, found, "unknown target is a block, not a silent default substitution")
}

func TestWrongStageResumeFailsLoudly(t *testing.T) {
	o := newOrchestrator(testConfig(), localFactory(), nil)
	ctx := context.Background()

	rc, err := o.Start(ctx, validInput())
	require.NoError(t, err)

	_, err = o.ResumeQuiz(ctx, rc, models.QuizSubmission{})
	var stateErr *errors.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, string(StateAwaitProgress), stateErr.State)

	rc, err = o.ResumeProgress(ctx, rc, strongSnapshot())
	require.NoError(t, err)

	_, err = o.ResumeProgress(ctx, rc, strongSnapshot())
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, string(StateAwaitQuiz), stateErr.State)
}

func TestCapabilityFallbackIsInvisibleDownstream(t *testing.T) {
	resolver := &scriptedResolver{failures: 1, tier: models.TierAPI}
	factory := func() ProfileResolver { return resolver }

	o := newOrchestrator(testConfig(), factory, nil)

	rc, err := o.Start(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, StateAwaitProgress, rc.State)
	assert.Equal(t, 1, resolver.demotes, "exactly one demotion, never a retry loop")
	assert.Equal(t, 2, resolver.produced)
	assert.Equal(t, models.TierLocal, rc.Profile.Meta.Tier,
		"only the provenance metadata records which tier ran")
}

func TestRemediationLoop(t *testing.T) {
	calls := 0
	factory := func() ProfileResolver {
		calls++
		return capability.NewResolver(config.CapabilityConfig{}, registry.Default(), logger.NewNoOpLogger())
	}
	o := newOrchestrator(testConfig(), factory, nil)
	ctx := context.Background()

	rc, err := o.Start(ctx, validInput())
	require.NoError(t, err)
	firstPlanID := rc.Plan.ID

	rc, err = o.ResumeProgress(ctx, rc, weakSnapshot())
	require.NoError(t, err)

	assert.Equal(t, StateAwaitProgress, rc.State, "remediation re-enters planning and suspends again")
	assert.Equal(t, 2, rc.Version)
	assert.Equal(t, 1, rc.Remediations)
	assert.Equal(t, 2, rc.Plan.Version, "a new versioned plan, never a mutated one")
	assert.NotEqual(t, firstPlanID, rc.Plan.ID)
	assert.Nil(t, rc.Snapshot, "the gate expects a fresh check-in")
	assert.Equal(t, 1, calls, "remediation never re-invokes the capability resolver")

	for _, a := range rc.Profile.Assessments {
		assert.LessOrEqual(t, a.Confidence, 0.3,
			"weak category %s keeps its lowered confidence", a.CategoryCode)
	}

	// The remediated run can still finish.
	rc, err = o.ResumeProgress(ctx, rc, strongSnapshot())
	require.NoError(t, err)
	assert.Equal(t, StateAwaitQuiz, rc.State)
}

func TestUntrustedResourcesWarnAndAreExcluded(t *testing.T) {
	cfg := testConfig()
	cfg.Curation.TrustedOrigins = []string{"martinfowler.com", "portswigger.net"}
	o := newOrchestrator(cfg, localFactory(), nil)

	rc, err := o.Start(context.Background(), validInput())
	require.NoError(t, err, "untrusted links warn, they do not block")
	assert.Equal(t, StateAwaitProgress, rc.State)

	require.NotEmpty(t, rc.Path.Resources, "trusted resources survive")
	for _, r := range rc.Path.Resources {
		assert.Contains(t, []string{"testing", "security"}, r.CategoryCode)
	}
	assert.NotEmpty(t, rc.Excluded)

	warned := false
	for _, v := range rc.Warnings["plan"] {
		if v.RuleCode == "PATH_URL_TRUST" {
			warned = true
			assert.Equal(t, models.SeverityWarn, v.Severity)
		}
	}
	assert.True(t, warned)
}

func TestPlanningIdempotentForSameProfile(t *testing.T) {
	o := newOrchestrator(testConfig(), localFactory(), nil)
	ctx := context.Background()

	first, err := o.Start(ctx, validInput())
	require.NoError(t, err)
	second, err := o.Start(ctx, validInput())
	require.NoError(t, err)

	require.Equal(t, len(first.Plan.Tasks), len(second.Plan.Tasks))
	for i := range first.Plan.Tasks {
		assert.Equal(t, first.Plan.Tasks[i].Units, second.Plan.Tasks[i].Units,
			"identical profiles allocate identically")
		assert.Equal(t, first.Plan.Tasks[i].CategoryCode, second.Plan.Tasks[i].CategoryCode)
	}
}

func TestRunPersistedAndReloadable(t *testing.T) {
	st := store.NewMemory()
	o := newOrchestrator(testConfig(), localFactory(), st)
	ctx := context.Background()

	rc, err := o.Start(ctx, validInput())
	require.NoError(t, err)

	loaded, ok, err := o.LoadRun(ctx, rc.RunID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StateAwaitProgress, loaded.State)
	assert.Equal(t, rc.Plan.ID, loaded.Plan.ID)
	assert.Equal(t, rc.Input.LearnerID, loaded.Input.LearnerID)

	// A reloaded context resumes exactly like the in-memory one.
	resumed, err := o.ResumeProgress(ctx, loaded, strongSnapshot())
	require.NoError(t, err)
	assert.Equal(t, StateAwaitQuiz, resumed.State)
}

func TestBlockedProgressLeavesGateReusable(t *testing.T) {
	o := newOrchestrator(testConfig(), localFactory(), nil)
	ctx := context.Background()

	gated, err := o.Start(ctx, validInput())
	require.NoError(t, err)

	bad := strongSnapshot()
	bad.UnitsSpent = -5

	halted, err := o.ResumeProgress(ctx, gated, bad)
	require.Error(t, err)
	assert.Equal(t, StateErrored, halted.State)

	// Contexts are values: the original gated context is untouched and the
	// corrected check-in goes through.
	assert.Equal(t, StateAwaitProgress, gated.State)
	resumed, err := o.ResumeProgress(ctx, gated, strongSnapshot())
	require.NoError(t, err)
	assert.Equal(t, StateAwaitQuiz, resumed.State)
}

func TestFailedQuizYieldsRemediations(t *testing.T) {
	o := newOrchestrator(testConfig(), localFactory(), nil)
	ctx := context.Background()

	rc, err := o.Start(ctx, validInput())
	require.NoError(t, err)
	rc, err = o.ResumeProgress(ctx, rc, strongSnapshot())
	require.NoError(t, err)

	// Answer everything wrong.
	answers := make(map[string]int, len(rc.Sheet.Questions))
	for _, q := range rc.Sheet.Questions {
		answers[q.ID] = (q.Answer + 1) % len(q.Choices)
	}

	rc, err = o.ResumeQuiz(ctx, rc, models.QuizSubmission{Answers: answers})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, rc.State)
	assert.False(t, rc.Recommendation.Ready)
	assert.NotEmpty(t, rc.Recommendation.Remediations,
		"remediations are present exactly when not ready")
	assert.Empty(t, rc.Recommendation.NextTarget)
}

func TestStateHelpers(t *testing.T) {
	assert.True(t, StateCompleted.Terminal())
	assert.True(t, StateErrored.Terminal())
	assert.False(t, StateAwaitProgress.Terminal())
	assert.True(t, StateAwaitProgress.Gate())
	assert.True(t, StateAwaitQuiz.Gate())
	assert.False(t, StateScoring.Gate())
}
