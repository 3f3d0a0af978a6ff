package guardrail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepline/internal/models"
)

func sixCategories() []models.CategoryWeight {
	return []models.CategoryWeight{
		{Code: "apis", Weight: 0.225},
		{Code: "databases", Weight: 0.225},
		{Code: "concurrency", Weight: 0.175},
		{Code: "testing", Weight: 0.175},
		{Code: "security", Weight: 0.10},
		{Code: "observability", Weight: 0.10},
	}
}

func validProfile() models.Profile {
	categories := sixCategories()
	assessments := make([]models.CategoryAssessment, len(categories))
	for i, c := range categories {
		assessments[i] = models.CategoryAssessment{
			CategoryCode: c.Code,
			Confidence:   0.5,
			Knowledge:    models.KnowledgeBasic,
		}
	}
	return models.Profile{
		LearnerID:   "learner-1",
		TargetCode:  "backend-developer",
		Experience:  models.ExperienceIntermediate,
		Assessments: assessments,
		Meta:        models.ProfileMeta{Tier: models.TierLocal},
	}
}

func TestProfileRules(t *testing.T) {
	e := NewDefaultEngine()

	t.Run("valid profile passes", func(t *testing.T) {
		result := e.Evaluate(StageProfile, ProfileSubject{Profile: validProfile(), Categories: sixCategories()})
		assert.Empty(t, result.Violations)
	})

	t.Run("missing assessment blocks", func(t *testing.T) {
		p := validProfile()
		p.Assessments = p.Assessments[:4]
		result := e.Evaluate(StageProfile, ProfileSubject{Profile: p, Categories: sixCategories()})
		assert.True(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "PROFILE_ASSESSMENT_COUNT")
	})

	t.Run("confidence out of range blocks", func(t *testing.T) {
		p := validProfile()
		p.Assessments[2].Confidence = 1.4
		result := e.Evaluate(StageProfile, ProfileSubject{Profile: p, Categories: sixCategories()})
		assert.True(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "PROFILE_CONFIDENCE_RANGE")
	})

	t.Run("duplicate category blocks", func(t *testing.T) {
		p := validProfile()
		p.Assessments[1].CategoryCode = "apis"
		result := e.Evaluate(StageProfile, ProfileSubject{Profile: p, Categories: sixCategories()})
		assert.True(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "PROFILE_DUPLICATE_CATEGORY")
	})

	t.Run("unknown risk category warns", func(t *testing.T) {
		p := validProfile()
		p.RiskCategories = []string{"mystery"}
		result := e.Evaluate(StageProfile, ProfileSubject{Profile: p, Categories: sixCategories()})
		assert.False(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "PROFILE_RISK_MEMBERSHIP")
	})
}

func validPlanSubject() PlanSubject {
	return PlanSubject{
		Plan: models.Plan{
			ID:         "plan-1",
			TotalUnits: 10,
			Tasks: []models.Task{
				{CategoryCode: "apis", StartUnit: 0, EndUnit: 6, Units: 6, Priority: models.PriorityHigh},
				{CategoryCode: "databases", StartUnit: 6, EndUnit: 10, Units: 4, Priority: models.PriorityMedium},
			},
		},
		Path: models.Path{Resources: []models.Resource{
			{CategoryCode: "apis", Title: "REST API Guide", URL: "https://docs.example.org/rest", Type: models.ResourceDocs},
		}},
		Categories: []models.CategoryWeight{
			{Code: "apis", Weight: 0.6},
			{Code: "databases", Weight: 0.4},
		},
		TrustedOrigins: []string{"example.org"},
	}
}

func TestPlanRules(t *testing.T) {
	e := NewDefaultEngine()

	t.Run("valid plan passes", func(t *testing.T) {
		result := e.Evaluate(StagePlan, validPlanSubject())
		assert.Empty(t, result.Violations)
	})

	t.Run("inverted span blocks", func(t *testing.T) {
		s := validPlanSubject()
		s.Plan.Tasks[0].StartUnit = 8
		result := e.Evaluate(StagePlan, s)
		assert.True(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "PLAN_SPAN_ORDER")
	})

	t.Run("sum mismatch blocks", func(t *testing.T) {
		s := validPlanSubject()
		s.Plan.Tasks[1].Units = 3
		result := e.Evaluate(StagePlan, s)
		assert.True(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "PLAN_SUM_EXACT")
	})

	t.Run("starved active category blocks", func(t *testing.T) {
		s := validPlanSubject()
		s.Plan.Tasks = []models.Task{{CategoryCode: "apis", StartUnit: 0, EndUnit: 10, Units: 10}}
		result := e.Evaluate(StagePlan, s)
		assert.True(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "PLAN_FLOOR_COVERAGE")
	})

	t.Run("untrusted origin warns without blocking", func(t *testing.T) {
		s := validPlanSubject()
		s.Path.Resources = append(s.Path.Resources, models.Resource{
			CategoryCode: "databases", Title: "Sketchy Mirror", URL: "https://downloads.sketchy.biz/dump", Type: models.ResourceDocs,
		})
		result := e.Evaluate(StagePlan, s)
		assert.False(t, result.Blocked(), "a single untrusted link must not void the curated set")
		assert.Contains(t, ruleCodes(result.Violations), "PATH_URL_TRUST")
	})

	t.Run("empty allow-list trusts every origin", func(t *testing.T) {
		s := validPlanSubject()
		s.TrustedOrigins = nil
		s.Path.Resources = append(s.Path.Resources, models.Resource{
			CategoryCode: "databases", Title: "Sketchy Mirror", URL: "https://downloads.sketchy.biz/dump", Type: models.ResourceDocs,
		})
		result := e.Evaluate(StagePlan, s)
		assert.Empty(t, result.Violations)
	})
}

func TestOriginTrusted(t *testing.T) {
	trusted := []string{"example.org", "docs.dev"}

	assert.True(t, OriginTrusted("https://example.org/a", trusted))
	assert.True(t, OriginTrusted("https://learn.example.org/course", trusted), "subdomains of a trusted origin are trusted")
	assert.False(t, OriginTrusted("https://example.org.evil.biz/a", trusted))
	assert.False(t, OriginTrusted("https://untrusted.io/x", trusted))
	assert.False(t, OriginTrusted("::bad::", trusted))
}

func TestProgressRules(t *testing.T) {
	e := NewDefaultEngine()

	valid := ProgressSubject{
		Snapshot: models.ProgressSnapshot{
			UnitsSpent:  8,
			SelfRatings: map[string]int{"apis": 3, "databases": 2},
		},
		Categories: []models.CategoryWeight{{Code: "apis", Weight: 0.6}, {Code: "databases", Weight: 0.4}},
	}

	t.Run("valid snapshot passes", func(t *testing.T) {
		result := e.Evaluate(StageProgress, valid)
		assert.Empty(t, result.Violations)
	})

	t.Run("rating out of range blocks", func(t *testing.T) {
		s := valid
		s.Snapshot.SelfRatings = map[string]int{"apis": 6}
		result := e.Evaluate(StageProgress, s)
		assert.True(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "PROGRESS_RATING_RANGE")
	})

	t.Run("unknown rating key warns", func(t *testing.T) {
		s := valid
		s.Snapshot.SelfRatings = map[string]int{"apis": 3, "quantum": 4}
		result := e.Evaluate(StageProgress, s)
		assert.False(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "PROGRESS_RATING_MEMBERSHIP")
	})

	t.Run("practice score out of range blocks", func(t *testing.T) {
		s := valid
		bad := 140.0
		s.Snapshot.PracticeScore = &bad
		result := e.Evaluate(StageProgress, s)
		assert.True(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "PROGRESS_PRACTICE_RANGE")
	})
}

func TestQuizRules(t *testing.T) {
	e := NewDefaultEngine()

	sheet := models.QuizSheet{Questions: []models.Question{
		{ID: "q1", CategoryCode: "apis", Prompt: "p", Choices: []string{"a", "b", "c"}, Answer: 1},
		{ID: "q2", CategoryCode: "databases", Prompt: "p", Choices: []string{"a", "b"}, Answer: 0},
	}}

	t.Run("valid sheet passes", func(t *testing.T) {
		result := e.Evaluate(StageQuiz, QuizSubject{Sheet: sheet})
		assert.Empty(t, result.Violations)
	})

	t.Run("duplicate question id blocks", func(t *testing.T) {
		dupe := sheet
		dupe.Questions = append([]models.Question{}, sheet.Questions...)
		dupe.Questions = append(dupe.Questions, sheet.Questions[0])
		result := e.Evaluate(StageQuiz, QuizSubject{Sheet: dupe})
		assert.True(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "QUIZ_DUPLICATE_QUESTION")
	})

	t.Run("submission for unknown question blocks", func(t *testing.T) {
		sub := &models.QuizSubmission{Answers: map[string]int{"q1": 1, "q99": 0}}
		result := e.Evaluate(StageQuiz, QuizSubject{Sheet: sheet, Submission: sub})
		assert.True(t, result.Blocked())
		assert.Contains(t, ruleCodes(result.Violations), "QUIZ_ANSWER_MEMBERSHIP")
	})

	t.Run("valid submission passes", func(t *testing.T) {
		sub := &models.QuizSubmission{Answers: map[string]int{"q1": 2, "q2": 1}}
		result := e.Evaluate(StageQuiz, QuizSubject{Sheet: sheet, Submission: sub})
		require.Empty(t, result.Violations)
	})
}
