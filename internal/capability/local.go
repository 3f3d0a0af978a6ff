// internal/capability/local.go
package capability

import (
	"context"
	"fmt"
	"strings"

	"prepline/internal/models"
	"prepline/internal/registry"
)

// LocalEngine is the terminal tier: a deterministic rule engine with no
// external calls. The same intake always yields the same profile, so it can
// never fail and closes the fallback chain.
type LocalEngine struct {
	registry registry.Provider
}

func NewLocalEngine(reg registry.Provider) *LocalEngine {
	return &LocalEngine{registry: reg}
}

func (e *LocalEngine) Tier() models.CapabilityTier {
	return models.TierLocal
}

// Base confidence per inferred experience tier.
var baseConfidence = map[models.ExperienceTier]float64{
	models.ExperienceNovice:       0.25,
	models.ExperienceIntermediate: 0.45,
	models.ExperienceAdvanced:     0.60,
	models.ExperienceExpert:       0.75,
}

const (
	credentialBoost = 0.15
	concernPenalty  = 0.15
	minConfidence   = 0.05
	maxConfidence   = 0.95
)

func (e *LocalEngine) ProduceProfile(_ context.Context, input models.RawInput) (models.Profile, error) {
	weights, err := e.registry.GetCategoryWeights(input.TargetCode)
	if err != nil {
		return models.Profile{}, err
	}

	experience := inferExperience(input)
	base := baseConfidence[experience]

	profile := models.Profile{
		LearnerID:  input.LearnerID,
		TargetCode: input.TargetCode,
		Experience: experience,
		Style:      input.StylePreference,
		Meta: models.ProfileMeta{
			Backend: "local:rules",
		},
	}

	for _, w := range weights {
		conf := base
		if mentionsCategory(input.PriorCredentials, w.Code) {
			conf += credentialBoost
		}
		if mentionsCategory(input.Concerns, w.Code) {
			conf -= concernPenalty
			profile.RiskCategories = append(profile.RiskCategories, w.Code)
		}
		conf = clamp(conf, minConfidence, maxConfidence)

		profile.Assessments = append(profile.Assessments, models.CategoryAssessment{
			CategoryCode: w.Code,
			Confidence:   conf,
			Knowledge:    knowledgeFor(conf),
		})
	}

	profile.Summary = fmt.Sprintf("%s learner targeting %s, profiled by local rules across %d categories",
		experience, input.TargetCode, len(weights))

	return profile, nil
}

// inferExperience grades the intake on credential count, with a keyword
// escape hatch for clearly senior backgrounds.
func inferExperience(input models.RawInput) models.ExperienceTier {
	background := strings.ToLower(input.Background)
	if strings.Contains(background, "senior") || strings.Contains(background, "lead") ||
		strings.Contains(background, "principal") {
		return models.ExperienceExpert
	}

	switch {
	case len(input.PriorCredentials) >= 3:
		return models.ExperienceExpert
	case len(input.PriorCredentials) == 2:
		return models.ExperienceAdvanced
	case len(input.PriorCredentials) == 1:
		return models.ExperienceIntermediate
	default:
		return models.ExperienceNovice
	}
}

func mentionsCategory(items []string, code string) bool {
	needle := strings.ToLower(code)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), needle) {
			return true
		}
	}
	return false
}

func knowledgeFor(confidence float64) models.KnowledgeTier {
	switch {
	case confidence >= 0.7:
		return models.KnowledgeDeep
	case confidence >= 0.45:
		return models.KnowledgeWorking
	case confidence >= 0.2:
		return models.KnowledgeBasic
	default:
		return models.KnowledgeNone
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
