// Package pipeline drives a run through the staged state machine: intake,
// profiling, planning, the human-input gates, scoring, the verdict gate,
// quiz and recommendation. Guardrails are evaluated at every transition;
// a BLOCK halts the machine, WARNs travel with the run as metadata.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"prepline/internal/allocation"
	"prepline/internal/common/config"
	"prepline/internal/common/errors"
	"prepline/internal/common/logger"
	"prepline/internal/common/metrics"
	"prepline/internal/common/observability"
	"prepline/internal/curation"
	"prepline/internal/guardrail"
	"prepline/internal/models"
	"prepline/internal/quiz"
	"prepline/internal/recommend"
	"prepline/internal/registry"
	"prepline/internal/scoring"
	"prepline/internal/store"
)

const (
	// Categories below this confidence are flagged weak at Scoring.
	weakConfidenceThreshold = 0.5
	// Remediation forces weak-category confidence down to at most this.
	remediationCeiling = 0.3
)

// ProfileResolver is the capability boundary the orchestrator drives. On a
// produce failure it demotes exactly once and tries the next tier; it never
// loops on a failing tier.
type ProfileResolver interface {
	Produce(ctx context.Context, input models.RawInput) (models.Profile, error)
	Demote() error
	Bound() models.CapabilityTier
}

// ResolverFactory builds a fresh resolver per run, so one run's demotion
// never leaks into the next learner's run.
type ResolverFactory func() ProfileResolver

// Orchestrator owns no per-run state; every run's state lives in its
// RunContext, making concurrent runs for independent learners safe without
// synchronization.
type Orchestrator struct {
	cfg         *config.Config
	registry    registry.Provider
	newResolver ResolverFactory
	guards      *guardrail.Engine
	curator     *curation.Curator
	sampler     *quiz.Sampler
	store       store.Store
	obs         *observability.Observability
	logger      logger.Logger
	bands       []scoring.Band
}

func New(cfg *config.Config, reg registry.Provider, newResolver ResolverFactory, st store.Store, obs *observability.Observability, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		registry:    reg,
		newResolver: newResolver,
		guards:      guardrail.NewDefaultEngine(),
		curator:     curation.NewCurator(nil, cfg.Curation.TrustedOrigins, log),
		sampler:     quiz.NewSampler(nil),
		store:       st,
		obs:         obs,
		logger:      log,
		bands:       bandsFrom(cfg.Scoring.Bands),
	}
}

// Start runs a new pipeline from intake up to the AwaitProgress gate. An
// intake BLOCK rejects the run before it ever leaves Intake; any later BLOCK
// halts it in Errored with the violation list exposed on the context.
func (o *Orchestrator) Start(ctx context.Context, input models.RawInput) (RunContext, error) {
	rc := RunContext{
		RunID:      uuid.NewString(),
		State:      StateIntake,
		Version:    1,
		TargetCode: input.TargetCode,
		Input:      input,
	}

	o.obs.RecordRunStarted(ctx, input.TargetCode)
	o.logger.Info("run started", map[string]interface{}{
		"runId":     rc.RunID,
		"learnerId": input.LearnerID,
		"target":    input.TargetCode,
	})

	rc, result := o.evaluate(rc, guardrail.StageInput, guardrail.InputSubject{
		Input:        input,
		KnownTargets: o.registry.Targets(),
	})
	if result.Blocked() {
		rc = rc.halted(StateIntake, result.Violations)
		o.persist(ctx, rc)
		return rc, errors.NewValidationBlockedError(guardrail.StageInput, len(result.Violations))
	}

	rc, err := o.runProfiling(ctx, rc)
	if err != nil {
		o.persist(ctx, rc)
		return rc, err
	}

	rc, err = o.runPlanning(ctx, rc)
	if err != nil {
		o.persist(ctx, rc)
		return rc, err
	}

	rc = o.transition(rc, StateAwaitProgress)
	o.persist(ctx, rc)
	return rc, nil
}

// ResumeProgress releases the AwaitProgress gate with a human check-in and
// carries the run through Scoring and the verdict gate. Resuming any other
// state is an integration bug and fails loudly with a StateError.
func (o *Orchestrator) ResumeProgress(ctx context.Context, rc RunContext, snapshot models.ProgressSnapshot) (RunContext, error) {
	if rc.State != StateAwaitProgress {
		return rc, &errors.StateError{State: string(rc.State), Attempt: "ResumeProgress"}
	}

	weights, err := o.registry.GetCategoryWeights(rc.TargetCode)
	if err != nil {
		return o.fail(ctx, rc, err)
	}

	rc, result := o.evaluate(rc, guardrail.StageProgress, guardrail.ProgressSubject{
		Snapshot:   snapshot,
		Categories: weights,
	})
	if result.Blocked() {
		rc = rc.halted(StateErrored, result.Violations)
		o.persist(ctx, rc)
		return rc, errors.NewValidationBlockedError(guardrail.StageProgress, len(result.Violations))
	}
	rc.Snapshot = &snapshot

	rc = o.runScoring(rc, weights)

	rc, err = o.runConditionalGate(ctx, rc, weights)
	if err != nil {
		o.persist(ctx, rc)
		return rc, err
	}

	o.persist(ctx, rc)
	return rc, nil
}

// ResumeQuiz releases the AwaitQuiz gate with the learner's answers, grades
// them and completes the run with a recommendation.
func (o *Orchestrator) ResumeQuiz(ctx context.Context, rc RunContext, submission models.QuizSubmission) (RunContext, error) {
	if rc.State != StateAwaitQuiz {
		return rc, &errors.StateError{State: string(rc.State), Attempt: "ResumeQuiz"}
	}

	rc, result := o.evaluate(rc, guardrail.StageQuiz, guardrail.QuizSubject{
		Sheet:      rc.Sheet,
		Submission: &submission,
	})
	if result.Blocked() {
		rc = rc.halted(StateErrored, result.Violations)
		o.persist(ctx, rc)
		return rc, errors.NewValidationBlockedError(guardrail.StageQuiz, len(result.Violations))
	}

	graded := quiz.Grade(rc.Sheet, submission, o.cfg.Quiz.PassPercent)
	rc.QuizResult = &graded

	rc = o.transition(rc, StateRecommending)

	weights, err := o.registry.GetCategoryWeights(rc.TargetCode)
	if err != nil {
		return o.fail(ctx, rc, err)
	}
	recommendation := recommend.NewBuilder(weights).Build(rc.TargetCode, *rc.Assessment, graded)
	rc.Recommendation = &recommendation

	rc = o.transition(rc, StateCompleted)
	o.logger.Info("run completed", map[string]interface{}{
		"runId":   rc.RunID,
		"ready":   recommendation.Ready,
		"verdict": string(rc.Assessment.Verdict),
	})
	o.persist(ctx, rc)
	return rc, nil
}

// LoadRun rehydrates a persisted run so a gated run can resume in another
// process. Decoding tolerates schema drift; unknown keys are dropped.
func (o *Orchestrator) LoadRun(ctx context.Context, runID string) (RunContext, bool, error) {
	if o.store == nil {
		return RunContext{}, false, nil
	}
	doc, ok, err := o.store.Load(ctx, runID)
	if err != nil || !ok {
		return RunContext{}, false, err
	}
	var rc RunContext
	if err := models.Decode(doc, &rc); err != nil {
		return RunContext{}, false, err
	}
	return rc, true, nil
}

// runProfiling binds a fresh resolver and walks the tier chain: a tier
// failure demotes once and retries the next tier, until the terminal local
// tier closes the chain.
func (o *Orchestrator) runProfiling(ctx context.Context, rc RunContext) (RunContext, error) {
	rc = o.transition(rc, StateProfiling)
	ctx, span := o.obs.StartStageSpan(ctx, "profiling")
	defer span.End()
	started := time.Now()

	resolver := o.newResolver()
	var profile models.Profile
	for {
		p, err := resolver.Produce(ctx, rc.Input)
		if err == nil {
			profile = p
			break
		}
		o.logger.Warn("capability tier failed", map[string]interface{}{
			"runId": rc.RunID,
			"tier":  string(resolver.Bound()),
			"error": err.Error(),
		})
		if demoteErr := resolver.Demote(); demoteErr != nil {
			return rc.halted(StateErrored, nil), demoteErr
		}
	}
	o.recordStage(ctx, "profiling", started)

	weights, err := o.registry.GetCategoryWeights(rc.TargetCode)
	if err != nil {
		return rc.halted(StateErrored, nil), err
	}

	rc, result := o.evaluate(rc, guardrail.StageProfile, guardrail.ProfileSubject{
		Profile:    profile,
		Categories: weights,
	})
	if result.Blocked() {
		return rc.halted(StateErrored, result.Violations),
			errors.NewValidationBlockedError(guardrail.StageProfile, len(result.Violations))
	}

	rc.Profile = profile
	return rc, nil
}

// runPlanning fans out allocation and curation over the shared read-only
// profile, joins, and evaluates the G-plan guardrail over both outputs
// before the untrusted resources are filtered from the retained path.
func (o *Orchestrator) runPlanning(ctx context.Context, rc RunContext) (RunContext, error) {
	rc = o.transition(rc, StatePlanning)
	ctx, span := o.obs.StartStageSpan(ctx, "planning")
	defer span.End()
	started := time.Now()

	weights, err := o.registry.GetCategoryWeights(rc.TargetCode)
	if err != nil {
		return rc.halted(StateErrored, nil), err
	}

	profile := rc.Profile
	version := rc.Version
	totalUnits := rc.Input.TotalUnits()

	var plan models.Plan
	var path models.Path

	var g errgroup.Group
	g.Go(func() error {
		built, err := o.buildPlan(profile, weights, totalUnits, version)
		if err != nil {
			return err
		}
		plan = built
		return nil
	})
	g.Go(func() error {
		path = o.curator.Curate(profile)
		path.Version = version
		return nil
	})
	if err := g.Wait(); err != nil {
		// ConstraintError and DegenerateInputError surface as-is; the
		// caller of Planning sees the distinct type, never a clamped plan.
		return rc.halted(StateErrored, nil), err
	}

	rc, result := o.evaluate(rc, guardrail.StagePlan, guardrail.PlanSubject{
		Plan:           plan,
		Path:           path,
		Categories:     weights,
		TrustedOrigins: o.cfg.Curation.TrustedOrigins,
	})
	if result.Blocked() {
		return rc.halted(StateErrored, result.Violations),
			errors.NewValidationBlockedError(guardrail.StagePlan, len(result.Violations))
	}

	retained, excluded := o.curator.FilterTrusted(path)
	rc.Plan = plan
	rc.Path = retained
	rc.Excluded = excluded
	o.recordStage(ctx, "planning", started)
	return rc, nil
}

// buildPlan apportions the unit budget across the active categories and lays
// the tasks out back to back. Skipped categories are excluded (weight zero);
// priority tracks profiled confidence so the weakest categories lead.
func (o *Orchestrator) buildPlan(profile models.Profile, weights []models.CategoryWeight, totalUnits, version int) (models.Plan, error) {
	skipped := make(map[string]bool)
	for _, a := range profile.Assessments {
		if a.Skip {
			skipped[a.CategoryCode] = true
		}
	}

	values := make([]float64, len(weights))
	for i, w := range weights {
		if !skipped[w.Code] {
			values[i] = w.Weight
		}
	}

	units, err := allocation.Allocate(values, totalUnits, o.cfg.Planning.MinimumUnits)
	if err != nil {
		return models.Plan{}, err
	}

	conf := profile.ConfidenceByCategory()
	plan := models.Plan{
		ID:         uuid.NewString(),
		LearnerID:  profile.LearnerID,
		TargetCode: profile.TargetCode,
		Version:    version,
		TotalUnits: totalUnits,
	}

	cursor := 0
	for i, w := range weights {
		if units[i] == 0 {
			continue
		}
		plan.Tasks = append(plan.Tasks, models.Task{
			CategoryCode: w.Code,
			StartUnit:    cursor,
			EndUnit:      cursor + units[i],
			Units:        units[i],
			Priority:     priorityFor(conf[w.Code]),
			Actions:      []string{fmt.Sprintf("Spend %d units on %s", units[i], w.Label)},
		})
		cursor += units[i]
	}
	return plan, nil
}

// runScoring folds the check-in into a readiness assessment. Self-ratings
// override the profiled confidence for the categories they cover; unrated
// categories keep the profiled value.
func (o *Orchestrator) runScoring(rc RunContext, weights []models.CategoryWeight) RunContext {
	rc = o.transition(rc, StateScoring)

	conf := rc.Profile.ConfidenceByCategory()
	for code, rating := range rc.Snapshot.SelfRatings {
		conf[code] = scoring.RatingToConfidence(rating)
	}

	weightMap := make(map[string]float64, len(weights))
	for _, w := range weights {
		weightMap[w.Code] = w.Weight
	}

	practice := 0.0
	if rc.Snapshot.PracticeScore != nil {
		practice = *rc.Snapshot.PracticeScore
	}

	pct, verdict := scoring.Score(conf, weightMap,
		rc.Snapshot.UnitsSpent, float64(rc.Input.TotalUnits()), practice, o.bands)
	weak := scoring.WeakCategories(conf, weakConfidenceThreshold)

	assessment := models.ReadinessAssessment{
		Percentage:     pct,
		Verdict:        verdict,
		WeakCategories: weak,
		Nudges:         recommend.NewBuilder(weights).Nudges(weak),
	}
	rc.Assessment = &assessment

	o.logger.Info("readiness scored", map[string]interface{}{
		"runId":      rc.RunID,
		"percentage": pct,
		"verdict":    string(verdict),
	})
	return rc
}

// runConditionalGate routes on the verdict: the bottom tier re-enters
// Planning through remediation, everything else samples a quiz and suspends
// at the AwaitQuiz gate.
func (o *Orchestrator) runConditionalGate(ctx context.Context, rc RunContext, weights []models.CategoryWeight) (RunContext, error) {
	rc = o.transition(rc, StateConditionalGate)

	if rc.Assessment.Verdict == models.VerdictNotReady {
		return o.remediate(ctx, rc)
	}

	sheet, err := o.sampler.Sample(weights, o.cfg.Quiz.QuestionCount, rc.RunID+"/"+strconv.Itoa(rc.Version))
	if err != nil {
		return rc.halted(StateErrored, nil), err
	}

	rc, result := o.evaluate(rc, guardrail.StageQuiz, guardrail.QuizSubject{Sheet: sheet})
	if result.Blocked() {
		return rc.halted(StateErrored, result.Violations),
			errors.NewValidationBlockedError(guardrail.StageQuiz, len(result.Violations))
	}

	rc.Sheet = sheet
	rc = o.transition(rc, StateAwaitQuiz)
	return rc, nil
}

// remediate lowers the weak categories' confidence on a copy of the profile
// and re-enters Planning with an incremented version. The resolver is never
// re-invoked; remediation reworks the plan, not the profile's provenance.
func (o *Orchestrator) remediate(ctx context.Context, rc RunContext) (RunContext, error) {
	rc = o.transition(rc, StateRemediation)
	rc.Remediations++
	rc.Version++
	rc.Profile = rc.Profile.WithLoweredConfidence(rc.Assessment.WeakCategories, remediationCeiling)
	rc.Snapshot = nil

	o.logger.Info("remediation loop entered", map[string]interface{}{
		"runId":          rc.RunID,
		"version":        rc.Version,
		"weakCategories": rc.Assessment.WeakCategories,
	})

	rc, err := o.runPlanning(ctx, rc)
	if err != nil {
		return rc, err
	}
	return o.transition(rc, StateAwaitProgress), nil
}

// evaluate runs one guardrail family, counts violations, and attaches WARNs
// to the context metadata. Interpreting the result is the caller's job.
func (o *Orchestrator) evaluate(rc RunContext, stage string, subject interface{}) (RunContext, guardrail.Result) {
	result := o.guards.Evaluate(stage, subject)
	for _, v := range result.Violations {
		metrics.GuardrailViolations.WithLabelValues(stage, string(v.Severity)).Inc()
	}
	if result.Blocked() {
		metrics.StageBlocked.WithLabelValues(stage).Inc()
		o.logger.Error("stage blocked by guardrail", map[string]interface{}{
			"runId":      rc.RunID,
			"stage":      stage,
			"violations": len(result.Violations),
		})
	}
	return rc.withWarnings(stage, result.Warnings()), result
}

func (o *Orchestrator) transition(rc RunContext, to State) RunContext {
	metrics.StageTransitions.WithLabelValues(string(rc.State), string(to)).Inc()
	o.logger.Debug("state transition", map[string]interface{}{
		"runId": rc.RunID,
		"from":  string(rc.State),
		"to":    string(to),
	})
	return rc.withState(to)
}

func (o *Orchestrator) fail(ctx context.Context, rc RunContext, err error) (RunContext, error) {
	rc = rc.halted(StateErrored, nil)
	o.persist(ctx, rc)
	return rc, err
}

func (o *Orchestrator) recordStage(ctx context.Context, stage string, started time.Time) {
	elapsed := time.Since(started)
	metrics.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	o.obs.RecordStageDuration(ctx, stage, elapsed)
}

// persist archives the context after every public operation. Archival is
// best-effort: a store outage is logged, not surfaced, because the caller
// still holds the authoritative context value.
func (o *Orchestrator) persist(ctx context.Context, rc RunContext) {
	if o.store == nil {
		return
	}
	doc, err := models.Encode(rc)
	if err != nil {
		o.logger.Error("run context encoding failed", map[string]interface{}{
			"runId": rc.RunID,
			"error": err.Error(),
		})
		return
	}
	if err := o.store.Save(ctx, rc.RunID, doc); err != nil {
		o.logger.Error("run archive failed", map[string]interface{}{
			"runId": rc.RunID,
			"error": err.Error(),
		})
	}
}

func priorityFor(confidence float64) models.PriorityTier {
	switch {
	case confidence < 0.4:
		return models.PriorityHigh
	case confidence < 0.7:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func bandsFrom(configured []config.BandConfig) []scoring.Band {
	if len(configured) == 0 {
		return scoring.DefaultBands()
	}
	bands := make([]scoring.Band, 0, len(configured))
	for _, b := range configured {
		bands = append(bands, scoring.Band{
			Verdict:    models.ParseVerdict(b.Verdict),
			MinPercent: b.MinPercent,
		})
	}
	return bands
}
